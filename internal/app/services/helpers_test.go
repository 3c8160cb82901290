package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/app/repositories/memstore"
	"github.com/edulearn/backend/internal/pkg/auth"
)

var errInjected = errors.New("injected failure")

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:     "service-test-secret",
		UserTokenExp:  24 * time.Hour,
		AdminTokenExp: 7 * 24 * time.Hour,
	})
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// failingContents lets the first `allow` creates through and fails the rest
type failingContents struct {
	repositories.ContentRepository
	allow int
	calls int
}

func (f *failingContents) Create(ctx context.Context, c *models.Content) error {
	f.calls++
	if f.calls > f.allow {
		return errInjected
	}
	return f.ContentRepository.Create(ctx, c)
}

type counts struct {
	subjects, topics, contents int64
}

func countAll(t *testing.T, repos *repositories.Repositories) counts {
	t.Helper()
	ctx := context.Background()
	var c counts
	var err error
	c.subjects, err = repos.Subjects.Count(ctx)
	require.NoError(t, err)
	c.topics, err = repos.Topics.Count(ctx)
	require.NoError(t, err)
	c.contents, err = repos.Contents.Count(ctx)
	require.NoError(t, err)
	return c
}

func newMemRepos() *repositories.Repositories {
	return memstore.New()
}
