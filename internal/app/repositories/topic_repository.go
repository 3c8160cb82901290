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

var topicColumns = []string{
	"id", "subject_id", "title", "slug", "description", "sort_order", "estimated_time",
	"difficulty", "prerequisites", "is_active", "created_at", "updated_at",
}

type topicRepository struct {
	db DBTX
}

// NewTopicRepository creates a PostgreSQL topic repository
func NewTopicRepository(db DBTX) TopicRepository {
	return &topicRepository{db: db}
}

func scanTopic(row pgx.Row) (*models.Topic, error) {
	var t models.Topic
	err := row.Scan(
		&t.ID, &t.SubjectID, &t.Title, &t.Slug, &t.Description, &t.Order, &t.EstimatedTime,
		&t.Difficulty, &t.Prerequisites, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTopicNotFound)
	}
	if t.Prerequisites == nil {
		t.Prerequisites = []int64{}
	}
	return &t, nil
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.Prerequisites == nil {
		topic.Prerequisites = []int64{}
	}
	sql, args, err := psql.Insert("topics").
		Columns("subject_id", "title", "slug", "description", "sort_order",
			"estimated_time", "difficulty", "prerequisites", "is_active").
		Values(topic.SubjectID, topic.Title, topic.Slug, topic.Description, topic.Order,
			topic.EstimatedTime, topic.Difficulty, topic.Prerequisites, topic.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create topic SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "topics_subject_id_slug_key") {
			return apperrors.ErrTopicAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error creating topic: %w", err)
	}
	return nil
}

func (r *topicRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Topic, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list topics SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing topics: %w", err)
	}
	defer rows.Close()

	topics := []*models.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *topicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	sql, args, err := psql.Select(topicColumns...).From("topics").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get topic SQL")
		return nil, err
	}
	return scanTopic(r.db.QueryRow(ctx, sql, args...))
}

func (r *topicRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Topic, error) {
	if len(ids) == 0 {
		return []*models.Topic{}, nil
	}
	return r.list(ctx, psql.Select(topicColumns...).From("topics").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("sort_order ASC", "id ASC"))
}

func (r *topicRepository) FindBySubjectAndSlug(ctx context.Context, subjectID int64, slug string) (*models.Topic, error) {
	sql, args, err := psql.Select(topicColumns...).From("topics").
		Where(squirrel.Eq{"subject_id": subjectID, "slug": slug}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find topic SQL")
		return nil, err
	}
	return scanTopic(r.db.QueryRow(ctx, sql, args...))
}

func (r *topicRepository) ListBySlug(ctx context.Context, slug string, activeOnly bool) ([]*models.Topic, error) {
	q := psql.Select(topicColumns...).From("topics").Where(squirrel.Eq{"slug": slug}).OrderBy("id ASC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	return r.list(ctx, q)
}

func (r *topicRepository) ListBySubject(ctx context.Context, subjectID int64, activeOnly bool) ([]*models.Topic, error) {
	q := psql.Select(topicColumns...).From("topics").
		Where(squirrel.Eq{"subject_id": subjectID}).
		OrderBy("sort_order ASC", "id ASC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	return r.list(ctx, q)
}

func (r *topicRepository) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	sql, args, err := psql.Delete("topics").Where(squirrel.Eq{"subject_id": subjectID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete topics SQL")
		return 0, err
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting topics: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *topicRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "topics")
}

func (r *topicRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "topics")
}
