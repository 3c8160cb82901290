package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
)

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	jwtService := newTestJWT()
	svc := NewAuthService(repos, jwtService, nopLogger())

	_, err := svc.CreateAdmin(ctx, &dto.CreateAdminRequest{Username: "root", Email: "Root@Example.com", Password: "secret123", Role: "superadmin"})
	require.NoError(t, err)

	resp, err := svc.AdminLogin(ctx, &dto.AdminLoginRequest{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "root", resp.Admin.Username)
	assert.Equal(t, "superadmin", resp.Admin.Role)

	id, err := jwtService.Verify(resp.Token)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
	assert.Equal(t, auth.PrincipalAdmin, id.Kind)

	_, err = svc.AdminLogin(ctx, &dto.AdminLoginRequest{Email: "root@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.AdminLogin(ctx, &dto.AdminLoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAdminLoginRejectsInactive(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewAuthService(repos, newTestJWT(), nopLogger())

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, repos.Admins.Create(ctx, &models.Admin{Username: "old", Email: "old@example.com", Password: hash, Role: models.RoleAdmin}))

	_, err = svc.AdminLogin(ctx, &dto.AdminLoginRequest{Email: "old@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestCreateAdminDuplicateAndDefaultRole(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newMemRepos(), newTestJWT(), nopLogger())

	admin, err := svc.CreateAdmin(ctx, &dto.CreateAdminRequest{Username: "editor", Email: "ed@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "secret123", admin.Password)

	_, err = svc.CreateAdmin(ctx, &dto.CreateAdminRequest{Username: "editor2", Email: "ed@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)
}

func TestUserRegisterLoginProfile(t *testing.T) {
	ctx := context.Background()
	jwtService := newTestJWT()
	svc := NewAuthService(newMemRepos(), jwtService, nopLogger())

	token, err := svc.RegisterUser(ctx, &dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	id, err := jwtService.Verify(token)
	require.NoError(t, err)
	assert.False(t, id.IsAdmin)
	assert.True(t, id.IsUser())

	_, err = svc.RegisterUser(ctx, &dto.RegisterRequest{Name: "Jane", Email: "JANE@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	token, err = svc.LoginUser(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.LoginUser(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	profile, err := svc.GetProfile(ctx, id.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.Name)
	assert.Equal(t, models.ThemeLight, profile.Preferences.Theme)
	assert.Empty(t, profile.Bookmarks)
}
