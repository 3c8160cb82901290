package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/dberrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

type progressRepository struct {
	db DBTX
}

// NewProgressRepository creates a PostgreSQL progress repository
func NewProgressRepository(db DBTX) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert keeps one row per (user, topic); concurrent writers are last-write-wins
func (r *progressRepository) Upsert(ctx context.Context, userID, topicID int64, completed bool, at time.Time) error {
	sql, args, err := psql.Insert("user_progress").
		Columns("user_id", "topic_id", "completed", "last_accessed").
		Values(userID, topicID, completed, at).
		Suffix("ON CONFLICT (user_id, topic_id) DO UPDATE SET completed = EXCLUDED.completed, last_accessed = EXCLUDED.last_accessed").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert progress SQL")
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTopicNotFound
		}
		return fmt.Errorf("error upserting progress: %w", err)
	}
	return nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ProgressEntry, error) {
	sql, args, err := psql.Select("id", "user_id", "topic_id", "completed", "last_accessed").
		From("user_progress").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list progress SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing progress: %w", err)
	}
	defer rows.Close()

	entries := []*models.ProgressEntry{}
	for rows.Next() {
		var e models.ProgressEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.TopicID, &e.Completed, &e.LastAccessed); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
