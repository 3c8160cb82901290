package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
	"github.com/edulearn/backend/internal/pkg/filestorage"
)

const (
	// PDFMimeType is the only accepted upload type
	PDFMimeType = "application/pdf"
	// NotesDir is the storage sub-directory for uploaded notes
	NotesDir = "notes"
)

// NoteService manages the downloadable notes library
type NoteService interface {
	List(ctx context.Context, filter dto.NoteFilter) ([]*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
	Subjects(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, uploader auth.Identity, req *dto.UploadNoteRequest, file *multipart.FileHeader) (*models.Note, error)
	Download(ctx context.Context, id int64) (*models.Note, string, error)
	Delete(ctx context.Context, id int64) error
}

type noteServiceImpl struct {
	repos    *repositories.Repositories
	storage  filestorage.FileStorage
	maxBytes int64
	logger   zerolog.Logger
}

// NewNoteService creates a new NoteService. maxBytes <= 0 disables the size check.
func NewNoteService(repos *repositories.Repositories, storage filestorage.FileStorage, maxBytes int64, logger zerolog.Logger) NoteService {
	return &noteServiceImpl{
		repos:    repos,
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *noteServiceImpl) List(ctx context.Context, filter dto.NoteFilter) ([]*models.Note, error) {
	return s.repos.Notes.List(ctx, filter)
}

func (s *noteServiceImpl) Get(ctx context.Context, id int64) (*models.Note, error) {
	return s.repos.Notes.GetByID(ctx, id)
}

func (s *noteServiceImpl) Subjects(ctx context.Context) ([]string, error) {
	return s.repos.Notes.DistinctSubjects(ctx)
}

// Upload validates every field before the file touches disk. The stored file
// is removed again if the record cannot be saved.
func (s *noteServiceImpl) Upload(ctx context.Context, uploader auth.Identity, req *dto.UploadNoteRequest, file *multipart.FileHeader) (*models.Note, error) {
	if file == nil {
		return nil, apperrors.ErrInvalidFile
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	subject := strings.TrimSpace(req.Subject)
	missing := map[string]interface{}{}
	if title == "" {
		missing["title"] = "required"
	}
	if description == "" {
		missing["description"] = "required"
	}
	if subject == "" {
		missing["subject"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Please provide all required fields", missing)
	}

	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, apperrors.ErrFileTooLarge
	}
	if declared := file.Header.Get("Content-Type"); declared != "" && !strings.HasPrefix(declared, PDFMimeType) {
		return nil, apperrors.ErrInvalidFile
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	if !detected.Is(PDFMimeType) {
		s.logger.Warn().Str("filename", file.Filename).Str("detected", detected.String()).Msg("Rejected non-PDF upload")
		return nil, apperrors.ErrInvalidFile
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error rewinding upload: %w", err)
	}

	stored, err := s.storage.Save(src, file.Filename, NotesDir)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:        title,
		Description:  description,
		Subject:      subject,
		FileName:     file.Filename,
		FileURL:      stored.URL,
		FilePath:     stored.Path,
		FileSize:     stored.FileSize,
		UploaderID:   uploader.ID,
		UploaderKind: string(uploader.Kind),
	}
	if err := s.repos.Notes.Create(ctx, note); err != nil {
		if delErr := s.storage.Delete(stored.Path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", stored.Path).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("noteID", note.ID).Str("subject", subject).Int64("size", note.FileSize).Msg("Note uploaded")
	return s.repos.Notes.GetByID(ctx, note.ID)
}

// Download counts the download before the file is served, so an aborted
// transfer still counts.
func (s *noteServiceImpl) Download(ctx context.Context, id int64) (*models.Note, string, error) {
	note, err := s.repos.Notes.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !s.storage.Exists(note.FilePath) {
		s.logger.Warn().Int64("noteID", id).Str("path", note.FilePath).Msg("Note file missing from storage")
		return nil, "", apperrors.ErrFileMissing
	}

	downloads, err := s.repos.Notes.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, "", err
	}
	note.Downloads = downloads
	return note, s.storage.FullPath(note.FilePath), nil
}

func (s *noteServiceImpl) Delete(ctx context.Context, id int64) error {
	note, err := s.repos.Notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(note.FilePath); err != nil {
		return fmt.Errorf("error removing note file: %w", err)
	}
	if err := s.repos.Notes.Delete(ctx, id); err != nil && !errors.Is(err, apperrors.ErrNoteNotFound) {
		return err
	}
	s.logger.Info().Int64("noteID", id).Msg("Note deleted")
	return nil
}
