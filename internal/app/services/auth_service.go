package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
)

// AuthService handles authentication operations for both admins and learners
type AuthService struct {
	repos      *repositories.Repositories
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repos *repositories.Repositories, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repos:      repos,
		jwtService: jwtService,
		logger:     logger,
	}
}

// AdminLogin checks credentials of an active admin and issues an admin token
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	admin, err := s.repos.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			s.logger.Debug().Str("email", req.Email).Msg("Admin login for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting admin: %w", err)
	}

	// Inactive admins get the same answer as unknown ones
	if !admin.IsActive {
		s.logger.Warn().Int64("adminID", admin.ID).Msg("Login attempt on inactive admin")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(admin.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueAdminToken(admin.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating admin token: %w", err)
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin logged in")
	return &dto.AdminLoginResponse{
		Token: token,
		Admin: dto.AdminInfo{
			ID:       admin.ID,
			Username: admin.Username,
			Email:    admin.Email,
			Role:     string(admin.Role),
		},
	}, nil
}

// CreateAdmin provisions another admin account
func (s *AuthService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.Admin, error) {
	role := models.AdminRole(req.Role)
	if role == "" {
		role = models.RoleAdmin
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]interface{}{"role": req.Role})
	}

	if _, err := s.repos.Admins.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrAdminAlreadyExists
	} else if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return nil, fmt.Errorf("error checking admin email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	admin := &models.Admin{
		Username: strings.TrimSpace(req.Username),
		Email:    req.Email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := s.repos.Admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", admin.ID).Str("role", string(role)).Msg("Admin created")
	return admin, nil
}

// RegisterUser creates a learner account and returns a user token
func (s *AuthService) RegisterUser(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		Password:    hash,
		Preferences: models.DefaultPreferences(),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return s.jwtService.IssueUserToken(user.ID)
}

// LoginUser checks learner credentials and returns a user token
func (s *AuthService) LoginUser(ctx context.Context, req *dto.LoginRequest) (string, error) {
	user, err := s.repos.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error getting user: %w", err)
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return "", apperrors.ErrInvalidCredentials
	}
	return s.jwtService.IssueUserToken(user.ID)
}

// GetProfile returns the learner with preferences and bookmarks
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repos.Users.GetByID(ctx, userID)
}
