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

var contentColumns = []string{
	"id", "topic_id", "title", "type", "body", "code_language",
	"examples", "exercises", "sort_order", "created_at", "updated_at",
}

type contentRepository struct {
	db DBTX
}

// NewContentRepository creates a PostgreSQL content repository
func NewContentRepository(db DBTX) ContentRepository {
	return &contentRepository{db: db}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var c models.Content
	err := row.Scan(
		&c.ID, &c.TopicID, &c.Title, &c.Type, &c.Body, &c.CodeLanguage,
		&c.Examples, &c.Exercises, &c.Order, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, apperrors.ErrContentNotFound)
	}
	return &c, nil
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	// JSON null would be written as SQL NULL
	if content.Examples == nil {
		content.Examples = []models.ContentExample{}
	}
	if content.Exercises == nil {
		content.Exercises = []models.ContentExercise{}
	}

	sql, args, err := psql.Insert("contents").
		Columns("topic_id", "title", "type", "body", "code_language", "examples", "exercises", "sort_order").
		Values(content.TopicID, content.Title, content.Type, content.Body, content.CodeLanguage,
			content.Examples, content.Exercises, content.Order).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create content SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&content.ID, &content.CreatedAt, &content.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTopicNotFound
		}
		return fmt.Errorf("error creating content: %w", err)
	}
	return nil
}

func (r *contentRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Content, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list contents SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing contents: %w", err)
	}
	defer rows.Close()

	contents := []*models.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.Content, error) {
	sql, args, err := psql.Select(contentColumns...).From("contents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get content SQL")
		return nil, err
	}
	return scanContent(r.db.QueryRow(ctx, sql, args...))
}

func (r *contentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Content, error) {
	if len(ids) == 0 {
		return []*models.Content{}, nil
	}
	return r.list(ctx, psql.Select(contentColumns...).From("contents").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC"))
}

func (r *contentRepository) ListByTopic(ctx context.Context, topicID int64) ([]*models.Content, error) {
	return r.list(ctx, psql.Select(contentColumns...).From("contents").
		Where(squirrel.Eq{"topic_id": topicID}).
		OrderBy("sort_order ASC", "id ASC"))
}

func (r *contentRepository) DeleteByTopics(ctx context.Context, topicIDs []int64) (int64, error) {
	if len(topicIDs) == 0 {
		return 0, nil
	}
	sql, args, err := psql.Delete("contents").Where(squirrel.Eq{"topic_id": topicIDs}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete contents SQL")
		return 0, err
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting contents: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *contentRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "contents")
}

func (r *contentRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "contents")
}
