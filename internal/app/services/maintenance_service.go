package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
)

// AdminAccount describes an admin to provision
type AdminAccount struct {
	Username string
	Email    string
	Password string
	Role     models.AdminRole
}

// ClearResult counts what ClearContent removed
type ClearResult struct {
	Contents int64
	Topics   int64
	Subjects int64
	Users    int64
}

// MaintenanceService backs the startup seed and the operations CLI
type MaintenanceService struct {
	repos  *repositories.Repositories
	bulk   BulkUploadService
	logger zerolog.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(repos *repositories.Repositories, bulk BulkUploadService, logger zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{repos: repos, bulk: bulk, logger: logger}
}

// EnsureAdmin creates the account unless an admin with its email exists.
// It reports whether a new admin was created.
func (s *MaintenanceService) EnsureAdmin(ctx context.Context, acct AdminAccount) (bool, error) {
	if _, err := s.repos.Admins.GetByEmail(ctx, acct.Email); err == nil {
		s.logger.Info().Str("email", acct.Email).Msg("Admin already exists, skipping")
		return false, nil
	} else if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return false, fmt.Errorf("error checking admin: %w", err)
	}

	if err := s.createAdmin(ctx, s.repos, acct); err != nil {
		return false, err
	}
	return true, nil
}

// ResetAdmins deletes every admin and creates acct in their place
func (s *MaintenanceService) ResetAdmins(ctx context.Context, acct AdminAccount) (int64, error) {
	var removed int64
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		var err error
		if removed, err = tx.Admins.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error deleting admins: %w", err)
		}
		return s.createAdmin(ctx, tx, acct)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("removed", removed).Str("email", acct.Email).Msg("Admins reset")
	return removed, nil
}

func (s *MaintenanceService) createAdmin(ctx context.Context, repos *repositories.Repositories, acct AdminAccount) error {
	role := acct.Role
	if role == "" {
		role = models.RoleSuperAdmin
	}
	if !role.IsValid() {
		return apperrors.NewValidationError("invalid role", map[string]interface{}{"role": string(role)})
	}

	hash, err := auth.HashPassword(acct.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	admin := &models.Admin{
		Username: acct.Username,
		Email:    acct.Email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := repos.Admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Admin created")
	return nil
}

// ClearContent deletes contents, topics, subjects and users. Admins and notes are kept.
func (s *MaintenanceService) ClearContent(ctx context.Context) (*ClearResult, error) {
	var res ClearResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		var err error
		if res.Contents, err = tx.Contents.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error deleting contents: %w", err)
		}
		if res.Topics, err = tx.Topics.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error deleting topics: %w", err)
		}
		if res.Subjects, err = tx.Subjects.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error deleting subjects: %w", err)
		}
		if res.Users, err = tx.Users.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error deleting users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("contents", res.Contents).
		Int64("topics", res.Topics).
		Int64("subjects", res.Subjects).
		Int64("users", res.Users).
		Msg("Database cleared")
	return &res, nil
}

// Import runs a bulk payload from the command line
func (s *MaintenanceService) Import(ctx context.Context, raw []byte) ([]dto.BulkSubjectResult, error) {
	resp, err := s.bulk.Upload(ctx, raw)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
