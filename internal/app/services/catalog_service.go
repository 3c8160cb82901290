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
	"github.com/edulearn/backend/internal/pkg/helpers"
)

// DefaultSubjectIcon is used when a subject is created without one
const DefaultSubjectIcon = "📚"

// CatalogService defines the interface for the subject/topic/content catalog
type CatalogService interface {
	// Public reads, active rows only
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	GetSubjectBySlug(ctx context.Context, slug string) (*models.Subject, error)
	ListTopicsBySubject(ctx context.Context, subjectID int64) ([]*models.Topic, error)
	GetTopicBySlug(ctx context.Context, slug, subjectSlug string) (*models.Topic, error)
	ListContentByTopic(ctx context.Context, topicID int64) ([]*models.Content, error)

	// Admin operations
	ListAllSubjects(ctx context.Context) ([]*models.Subject, error)
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	repos   *repositories.Repositories
	cascade bool
	logger  zerolog.Logger
}

// NewCatalogService creates a new CatalogService. With cascade set, deleting a
// subject also deletes its topics and their contents.
func NewCatalogService(repos *repositories.Repositories, cascade bool, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		repos:   repos,
		cascade: cascade,
		logger:  logger,
	}
}

func (s *catalogServiceImpl) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.repos.Subjects.List(ctx, true)
}

// GetSubjectBySlug hides inactive subjects behind a not-found
func (s *catalogServiceImpl) GetSubjectBySlug(ctx context.Context, slug string) (*models.Subject, error) {
	subject, err := s.repos.Subjects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !subject.IsActive {
		return nil, apperrors.ErrSubjectNotFound
	}
	return subject, nil
}

func (s *catalogServiceImpl) ListTopicsBySubject(ctx context.Context, subjectID int64) ([]*models.Topic, error) {
	return s.repos.Topics.ListBySubject(ctx, subjectID, true)
}

// GetTopicBySlug resolves an active topic and populates its subject and prerequisites.
// Topic slugs are only unique per subject, so without subjectSlug the oldest match wins.
func (s *catalogServiceImpl) GetTopicBySlug(ctx context.Context, slug, subjectSlug string) (*models.Topic, error) {
	var topic *models.Topic
	if subjectSlug != "" {
		subject, err := s.GetSubjectBySlug(ctx, subjectSlug)
		if err != nil {
			if errors.Is(err, apperrors.ErrSubjectNotFound) {
				return nil, apperrors.ErrTopicNotFound
			}
			return nil, err
		}
		topic, err = s.repos.Topics.FindBySubjectAndSlug(ctx, subject.ID, slug)
		if err != nil {
			return nil, err
		}
		if !topic.IsActive {
			return nil, apperrors.ErrTopicNotFound
		}
	} else {
		matches, err := s.repos.Topics.ListBySlug(ctx, slug, true)
		if err != nil {
			return nil, fmt.Errorf("error finding topic: %w", err)
		}
		if len(matches) == 0 {
			return nil, apperrors.ErrTopicNotFound
		}
		topic = matches[0]
	}

	if topic.SubjectID != nil {
		subject, err := s.repos.Subjects.GetByID(ctx, *topic.SubjectID)
		switch {
		case err == nil:
			topic.Subject = subject
		case !errors.Is(err, apperrors.ErrSubjectNotFound):
			return nil, fmt.Errorf("error populating subject: %w", err)
		}
	}

	topic.PrerequisiteTopics = []*models.Topic{}
	if len(topic.Prerequisites) > 0 {
		prereqs, err := s.repos.Topics.GetByIDs(ctx, topic.Prerequisites)
		if err != nil {
			return nil, fmt.Errorf("error populating prerequisites: %w", err)
		}
		topic.PrerequisiteTopics = prereqs
	}
	return topic, nil
}

func (s *catalogServiceImpl) ListContentByTopic(ctx context.Context, topicID int64) ([]*models.Content, error) {
	return s.repos.Contents.ListByTopic(ctx, topicID)
}

func (s *catalogServiceImpl) ListAllSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.repos.Subjects.List(ctx, false)
}

// CreateSubject derives the slug from the name when none is given
func (s *catalogServiceImpl) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = helpers.Slugify(req.Name)
	}
	if !helpers.IsValidSlug(slug) {
		return nil, apperrors.NewValidationError("invalid slug", map[string]interface{}{"slug": slug})
	}

	subject := &models.Subject{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    models.SubjectCategory(req.Category),
		Level:       models.SubjectLevel(req.Level),
		Order:       req.Order,
		IsActive:    true,
	}
	if subject.Icon == "" {
		subject.Icon = DefaultSubjectIcon
	}
	if subject.Level == "" {
		subject.Level = models.LevelAll
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.repos.Subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("subjectID", subject.ID).Str("slug", subject.Slug).Msg("Subject created")
	return subject, nil
}

// UpdateSubject overwrites only the fields present in req
func (s *catalogServiceImpl) UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.repos.Subjects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug := strings.TrimSpace(*req.Slug)
		if !helpers.IsValidSlug(slug) {
			return nil, apperrors.NewValidationError("invalid slug", map[string]interface{}{"slug": slug})
		}
		subject.Slug = slug
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}
	if req.Icon != nil {
		subject.Icon = *req.Icon
	}
	if req.Category != nil {
		subject.Category = models.SubjectCategory(*req.Category)
	}
	if req.Level != nil {
		subject.Level = models.SubjectLevel(*req.Level)
	}
	if req.Order != nil {
		subject.Order = *req.Order
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.repos.Subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes the subject. In cascade mode its topics and their
// contents go with it in one transaction; otherwise they are left detached.
func (s *catalogServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	if !s.cascade {
		if err := s.repos.Subjects.Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info().Int64("subjectID", id).Msg("Subject deleted without cascade")
		return nil
	}

	return s.repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if _, err := tx.Subjects.GetByID(ctx, id); err != nil {
			return err
		}

		topics, err := tx.Topics.ListBySubject(ctx, id, false)
		if err != nil {
			return fmt.Errorf("error listing topics: %w", err)
		}
		topicIDs := make([]int64, 0, len(topics))
		for _, t := range topics {
			topicIDs = append(topicIDs, t.ID)
		}

		contents, err := tx.Contents.DeleteByTopics(ctx, topicIDs)
		if err != nil {
			return fmt.Errorf("error deleting contents: %w", err)
		}
		removed, err := tx.Topics.DeleteBySubject(ctx, id)
		if err != nil {
			return fmt.Errorf("error deleting topics: %w", err)
		}
		if err := tx.Subjects.Delete(ctx, id); err != nil {
			return err
		}

		s.logger.Info().
			Int64("subjectID", id).
			Int64("topics", removed).
			Int64("contents", contents).
			Msg("Subject deleted with cascade")
		return nil
	})
}
