package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/dberrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a PostgreSQL user repository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Preferences.Theme == "" {
		user.Preferences = models.DefaultPreferences()
	}

	sql, args, err := psql.Insert("users").
		Columns("name", "email", "password", "theme", "language").
		Values(user.Name, user.Email, user.Password, user.Preferences.Theme, user.Preferences.Language).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	user.Bookmarks = []int64{}
	return nil
}

func (r *userRepository) get(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.
		Select("id", "name", "email", "password", "theme", "language", "created_at", "updated_at").
		From("users").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, err
	}

	var u models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password,
		&u.Preferences.Theme, &u.Preferences.Language,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	if u.Bookmarks, err = r.ListBookmarks(ctx, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

// AddBookmark is idempotent
func (r *userRepository) AddBookmark(ctx context.Context, userID, contentID int64) error {
	sql, args, err := psql.Insert("user_bookmarks").
		Columns("user_id", "content_id").
		Values(userID, contentID).
		Suffix("ON CONFLICT (user_id, content_id) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add bookmark SQL")
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrContentNotFound
		}
		return fmt.Errorf("error adding bookmark: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveBookmark(ctx context.Context, userID, contentID int64) error {
	sql, args, err := psql.Delete("user_bookmarks").
		Where(squirrel.Eq{"user_id": userID, "content_id": contentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove bookmark SQL")
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing bookmark: %w", err)
	}
	return nil
}

func (r *userRepository) ListBookmarks(ctx context.Context, userID int64) ([]int64, error) {
	sql, args, err := psql.Select("content_id").From("user_bookmarks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at", "content_id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list bookmarks SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookmarks: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "users")
}
