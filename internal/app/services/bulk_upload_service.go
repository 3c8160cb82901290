package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/helpers"
)

// BulkUploadMessage is returned with a successful ingestion summary
const BulkUploadMessage = "Bulk upload successful"

// bulkUploadSchema checks the payload shape before anything is written
const bulkUploadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["subjects"],
  "properties": {
    "subjects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["slug"],
        "properties": {
          "name":        {"type": "string"},
          "slug":        {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
          "description": {"type": "string"},
          "icon":        {"type": "string"},
          "category":    {"enum": ["programming", "mathematics", "languages", "science", "other"]},
          "level":       {"enum": ["beginner", "intermediate", "advanced", "all"]},
          "order":       {"type": "integer"},
          "isActive":    {"type": "boolean"},
          "topics": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["slug"],
              "properties": {
                "title":         {"type": "string"},
                "slug":          {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
                "description":   {"type": "string"},
                "order":         {"type": "integer"},
                "estimatedTime": {"type": "integer", "minimum": 0},
                "difficulty":    {"enum": ["easy", "medium", "hard"]},
                "isActive":      {"type": "boolean"},
                "contents": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["title"],
                    "properties": {
                      "title":        {"type": "string", "minLength": 1},
                      "type":         {"enum": ["text", "code", "example", "exercise", "quiz"]},
                      "content":      {"type": "string"},
                      "codeLanguage": {"type": "string"},
                      "order":        {"type": "integer"},
                      "examples": {
                        "type": "array",
                        "items": {"type": "object"}
                      },
                      "exercises": {
                        "type": "array",
                        "items": {
                          "type": "object",
                          "properties": {
                            "hints": {"type": "array", "items": {"type": "string"}}
                          }
                        }
                      }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var bulkSchema = mustCompileSchema(bulkUploadSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid bulk upload schema: %v", err))
	}
	return schema
}

// BulkUploadService ingests a subjects -> topics -> contents tree
type BulkUploadService interface {
	// Upload validates and ingests a raw JSON payload
	Upload(ctx context.Context, raw []byte) (*dto.BulkUploadResponse, error)
	// Ingest writes an already decoded payload
	Ingest(ctx context.Context, req *dto.BulkUploadRequest) ([]dto.BulkSubjectResult, error)
}

type bulkUploadServiceImpl struct {
	repos  *repositories.Repositories
	atomic bool
	logger zerolog.Logger
}

// NewBulkUploadService creates a new BulkUploadService. With atomic set, the
// whole tree is written in one transaction; otherwise rows written before a
// failure stay persisted.
func NewBulkUploadService(repos *repositories.Repositories, atomic bool, logger zerolog.Logger) BulkUploadService {
	return &bulkUploadServiceImpl{
		repos:  repos,
		atomic: atomic,
		logger: logger,
	}
}

// ValidateBulkPayload checks raw against the payload schema and decodes it
func ValidateBulkPayload(raw []byte) (*dto.BulkUploadRequest, error) {
	result, err := bulkSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.NewBadRequestError("request body must be valid JSON")
	}
	if !result.Valid() {
		details := make(map[string]interface{}, len(result.Errors()))
		for _, e := range result.Errors() {
			details[e.Field()] = e.Description()
		}
		return nil, apperrors.NewValidationError("invalid bulk upload payload", details)
	}

	var req dto.BulkUploadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apperrors.NewBadRequestError("request body must be valid JSON")
	}
	return &req, nil
}

func (s *bulkUploadServiceImpl) Upload(ctx context.Context, raw []byte) (*dto.BulkUploadResponse, error) {
	req, err := ValidateBulkPayload(raw)
	if err != nil {
		return nil, err
	}

	results, err := s.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.BulkUploadResponse{Msg: BulkUploadMessage, Results: results}, nil
}

func (s *bulkUploadServiceImpl) Ingest(ctx context.Context, req *dto.BulkUploadRequest) ([]dto.BulkSubjectResult, error) {
	if err := validateImportSlugs(req); err != nil {
		return nil, err
	}

	var results []dto.BulkSubjectResult
	var err error

	if s.atomic {
		err = s.repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
			results, err = s.ingest(ctx, tx, req)
			return err
		})
	} else {
		results, err = s.ingest(ctx, s.repos, req)
	}

	if err != nil {
		s.logger.Error().Err(err).Bool("atomic", s.atomic).Msg("Bulk upload aborted")
		return nil, err
	}

	topics := 0
	for _, r := range results {
		topics += len(r.Topics)
	}
	s.logger.Info().Int("subjects", len(results)).Int("topics", topics).Msg("Bulk upload completed")
	return results, nil
}

// validateImportSlugs rejects the whole payload if any subject or topic slug
// would not be reachable by lookup once trimmed
func validateImportSlugs(req *dto.BulkUploadRequest) error {
	invalid := map[string]interface{}{}
	for i, sub := range req.Subjects {
		if slug := strings.TrimSpace(sub.Slug); !helpers.IsValidSlug(slug) {
			invalid[fmt.Sprintf("subjects.%d.slug", i)] = sub.Slug
		}
		for j, topic := range sub.Topics {
			if slug := strings.TrimSpace(topic.Slug); !helpers.IsValidSlug(slug) {
				invalid[fmt.Sprintf("subjects.%d.topics.%d.slug", i, j)] = topic.Slug
			}
		}
	}
	if len(invalid) > 0 {
		return apperrors.NewValidationError("invalid slug in bulk upload payload", invalid)
	}
	return nil
}

// ingest walks the tree strictly in payload order. Subjects and topics are
// matched by slug and never overwritten; contents are always appended.
func (s *bulkUploadServiceImpl) ingest(ctx context.Context, repos *repositories.Repositories, req *dto.BulkUploadRequest) ([]dto.BulkSubjectResult, error) {
	results := make([]dto.BulkSubjectResult, 0, len(req.Subjects))

	for i := range req.Subjects {
		data := &req.Subjects[i]
		subject, err := s.findOrCreateSubject(ctx, repos, data)
		if err != nil {
			return results, fmt.Errorf("subject %q: %w", data.Slug, err)
		}

		topicResults := make([]dto.BulkTopicResult, 0, len(data.Topics))
		for j := range data.Topics {
			topicData := &data.Topics[j]
			topic, err := s.findOrCreateTopic(ctx, repos, subject.ID, topicData)
			if err != nil {
				return results, fmt.Errorf("topic %q in subject %q: %w", topicData.Slug, data.Slug, err)
			}

			for k := range topicData.Contents {
				if err := repos.Contents.Create(ctx, newContent(topic.ID, &topicData.Contents[k])); err != nil {
					return results, fmt.Errorf("content %d of topic %q: %w", k, topicData.Slug, err)
				}
			}
			topicResults = append(topicResults, dto.BulkTopicResult{Topic: topic.Title, Slug: topic.Slug})
		}

		results = append(results, dto.BulkSubjectResult{
			Subject: subject.Name,
			Slug:    subject.Slug,
			Topics:  topicResults,
		})
	}
	return results, nil
}

func (s *bulkUploadServiceImpl) findOrCreateSubject(ctx context.Context, repos *repositories.Repositories, data *dto.SubjectImport) (*models.Subject, error) {
	slug := strings.TrimSpace(data.Slug)
	subject, err := repos.Subjects.GetBySlug(ctx, slug)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, apperrors.ErrSubjectNotFound) {
		return nil, err
	}

	subject = &models.Subject{
		Name:        data.Name,
		Slug:        slug,
		Description: data.Description,
		Icon:        data.Icon,
		Category:    models.SubjectCategory(data.Category),
		Level:       models.SubjectLevel(data.Level),
		Order:       data.Order,
		IsActive:    true,
	}
	if subject.Name == "" {
		subject.Name = slug
	}
	if subject.Icon == "" {
		subject.Icon = DefaultSubjectIcon
	}
	if subject.Category == "" {
		subject.Category = models.CategoryOther
	}
	if subject.Level == "" {
		subject.Level = models.LevelAll
	}
	if data.IsActive != nil {
		subject.IsActive = *data.IsActive
	}

	if err := repos.Subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *bulkUploadServiceImpl) findOrCreateTopic(ctx context.Context, repos *repositories.Repositories, subjectID int64, data *dto.TopicImport) (*models.Topic, error) {
	slug := strings.TrimSpace(data.Slug)
	topic, err := repos.Topics.FindBySubjectAndSlug(ctx, subjectID, slug)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, apperrors.ErrTopicNotFound) {
		return nil, err
	}

	topic = &models.Topic{
		SubjectID:     &subjectID,
		Title:         data.Title,
		Slug:          slug,
		Description:   data.Description,
		Order:         data.Order,
		EstimatedTime: data.EstimatedTime,
		Difficulty:    models.Difficulty(data.Difficulty),
		Prerequisites: []int64{},
		IsActive:      true,
	}
	if topic.Title == "" {
		topic.Title = slug
	}
	if topic.Difficulty == "" {
		topic.Difficulty = models.DifficultyEasy
	}
	if data.IsActive != nil {
		topic.IsActive = *data.IsActive
	}

	if err := repos.Topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func newContent(topicID int64, data *dto.ContentImport) *models.Content {
	content := &models.Content{
		TopicID:      &topicID,
		Title:        data.Title,
		Type:         models.ContentType(data.Type),
		Body:         data.Content,
		CodeLanguage: data.CodeLanguage,
		Examples:     data.Examples,
		Exercises:    data.Exercises,
		Order:        data.Order,
	}
	if content.Type == "" {
		content.Type = models.ContentTypeText
	}
	return content
}
