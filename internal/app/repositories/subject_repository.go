package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/dberrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

var subjectColumns = []string{
	"id", "name", "slug", "description", "icon", "category", "level",
	"sort_order", "is_active", "created_at", "updated_at",
}

type subjectRepository struct {
	db DBTX
}

// NewSubjectRepository creates a PostgreSQL subject repository
func NewSubjectRepository(db DBTX) SubjectRepository {
	return &subjectRepository{db: db}
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var s models.Subject
	err := row.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Description, &s.Icon, &s.Category, &s.Level,
		&s.Order, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSubjectNotFound)
	}
	return &s, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := psql.Insert("subjects").
		Columns("name", "slug", "description", "icon", "category", "level", "sort_order", "is_active").
		Values(subject.Name, subject.Slug, subject.Description, subject.Icon,
			subject.Category, subject.Level, subject.Order, subject.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create subject SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "subjects_slug_key") {
			return apperrors.ErrSubjectSlugExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

func (r *subjectRepository) get(ctx context.Context, where squirrel.Sqlizer) (*models.Subject, error) {
	sql, args, err := psql.Select(subjectColumns...).From("subjects").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get subject SQL")
		return nil, err
	}
	return scanSubject(r.db.QueryRow(ctx, sql, args...))
}

func (r *subjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *subjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Subject, error) {
	return r.get(ctx, squirrel.Eq{"slug": slug})
}

func (r *subjectRepository) List(ctx context.Context, activeOnly bool) ([]*models.Subject, error) {
	q := psql.Select(subjectColumns...).From("subjects").OrderBy("sort_order ASC", "id ASC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list subjects SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *subjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	sql, args, err := psql.Update("subjects").
		SetMap(map[string]interface{}{
			"name":        subject.Name,
			"slug":        subject.Slug,
			"description": subject.Description,
			"icon":        subject.Icon,
			"category":    subject.Category,
			"level":       subject.Level,
			"sort_order":  subject.Order,
			"is_active":   subject.IsActive,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": subject.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update subject SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "subjects_slug_key") {
			return apperrors.ErrSubjectSlugExists
		}
		return notFound(err, apperrors.ErrSubjectNotFound)
	}
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("subjects").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete subject SQL")
		return err
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

func (r *subjectRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "subjects")
}

func (r *subjectRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "subjects")
}
