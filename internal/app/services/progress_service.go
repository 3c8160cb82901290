package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/repositories"
)

// ProgressService tracks which topics a learner has visited or completed
type ProgressService interface {
	UpsertProgress(ctx context.Context, userID, topicID int64, completed bool) ([]*models.ProgressEntry, error)
	GetProgress(ctx context.Context, userID int64) ([]*models.ProgressEntry, error)
}

type progressServiceImpl struct {
	repos *repositories.Repositories
	now   func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(repos *repositories.Repositories) ProgressService {
	return &progressServiceImpl{repos: repos, now: time.Now}
}

// UpsertProgress keeps one entry per (user, topic); the last call wins
func (s *progressServiceImpl) UpsertProgress(ctx context.Context, userID, topicID int64, completed bool) ([]*models.ProgressEntry, error) {
	if _, err := s.repos.Topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	if err := s.repos.Progress.Upsert(ctx, userID, topicID, completed, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.GetProgress(ctx, userID)
}

// GetProgress returns the entries with their topic populated
func (s *progressServiceImpl) GetProgress(ctx context.Context, userID int64) ([]*models.ProgressEntry, error) {
	entries, err := s.repos.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing progress: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TopicID)
	}
	topics, err := s.repos.Topics.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error populating topics: %w", err)
	}
	byID := make(map[int64]*models.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}

	populated := make([]*models.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if t, ok := byID[e.TopicID]; ok {
			e.Topic = t
			populated = append(populated, e)
		}
	}
	return populated, nil
}
