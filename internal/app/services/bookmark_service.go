package services

import (
	"context"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/repositories"
)

// BookmarkService manages a learner's saved content sections
type BookmarkService struct {
	repos *repositories.Repositories
}

// NewBookmarkService creates a new BookmarkService
func NewBookmarkService(repos *repositories.Repositories) *BookmarkService {
	return &BookmarkService{repos: repos}
}

// List returns the bookmarked contents in the order they were saved
func (s *BookmarkService) List(ctx context.Context, userID int64) ([]*models.Content, error) {
	ids, err := s.repos.Users.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	contents, err := s.repos.Contents.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Content, len(contents))
	for _, c := range contents {
		byID[c.ID] = c
	}
	ordered := make([]*models.Content, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// Add saves a bookmark; adding one twice is a no-op
func (s *BookmarkService) Add(ctx context.Context, userID, contentID int64) ([]int64, error) {
	if _, err := s.repos.Contents.GetByID(ctx, contentID); err != nil {
		return nil, err
	}
	if err := s.repos.Users.AddBookmark(ctx, userID, contentID); err != nil {
		return nil, err
	}
	return s.repos.Users.ListBookmarks(ctx, userID)
}

// Remove deletes a bookmark if present
func (s *BookmarkService) Remove(ctx context.Context, userID, contentID int64) ([]int64, error) {
	if err := s.repos.Users.RemoveBookmark(ctx, userID, contentID); err != nil {
		return nil, err
	}
	return s.repos.Users.ListBookmarks(ctx, userID)
}
