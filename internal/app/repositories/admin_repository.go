package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/dberrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

var adminColumns = []string{"id", "username", "email", "password", "role", "is_active", "created_at", "updated_at"}

type adminRepository struct {
	db DBTX
}

// NewAdminRepository creates a PostgreSQL admin repository
func NewAdminRepository(db DBTX) AdminRepository {
	return &adminRepository{db: db}
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var a models.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, notFound(err, apperrors.ErrAdminNotFound)
	}
	return &a, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	sql, args, err := psql.Insert("admins").
		Columns("username", "email", "password", "role", "is_active").
		Values(admin.Username, admin.Email, admin.Password, admin.Role, admin.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAdminAlreadyExists
		}
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

func (r *adminRepository) get(ctx context.Context, where squirrel.Sqlizer) (*models.Admin, error) {
	sql, args, err := psql.Select(adminColumns...).From("admins").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin SQL")
		return nil, err
	}
	return scanAdmin(r.db.QueryRow(ctx, sql, args...))
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.get(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "admins")
}

func (r *adminRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.db, "admins")
}
