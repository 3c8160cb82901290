package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

type noteRepository struct {
	db DBTX
}

// NewNoteRepository creates a PostgreSQL note repository
func NewNoteRepository(db DBTX) NoteRepository {
	return &noteRepository{db: db}
}

// selectNotes joins the uploader's display name from whichever account table it lives in
func selectNotes() squirrel.SelectBuilder {
	return psql.Select(
		"n.id", "n.title", "n.description", "n.subject", "n.file_name", "n.file_url", "n.file_path",
		"n.file_size", "n.downloads", "n.uploaded_by_id", "n.uploaded_by_kind", "n.created_at",
		"COALESCE(a.username, u.name, '') AS uploader_name",
	).From("notes n").
		LeftJoin("admins a ON n.uploaded_by_kind = 'admin' AND a.id = n.uploaded_by_id").
		LeftJoin("users u ON n.uploaded_by_kind = 'user' AND u.id = n.uploaded_by_id")
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	var uploaderName string
	err := row.Scan(
		&n.ID, &n.Title, &n.Description, &n.Subject, &n.FileName, &n.FileURL, &n.FilePath,
		&n.FileSize, &n.Downloads, &n.UploaderID, &n.UploaderKind, &n.CreatedAt,
		&uploaderName,
	)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoteNotFound)
	}
	n.UploadedBy = &models.NoteUploader{ID: n.UploaderID, Kind: n.UploaderKind, Username: uploaderName}
	return &n, nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	sql, args, err := psql.Insert("notes").
		Columns("title", "description", "subject", "file_name", "file_url", "file_path",
			"file_size", "downloads", "uploaded_by_id", "uploaded_by_kind").
		Values(note.Title, note.Description, note.Subject, note.FileName, note.FileURL, note.FilePath,
			note.FileSize, note.Downloads, note.UploaderID, note.UploaderKind).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create note SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return fmt.Errorf("error creating note: %w", err)
	}
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	sql, args, err := selectNotes().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get note SQL")
		return nil, err
	}
	return scanNote(r.db.QueryRow(ctx, sql, args...))
}

// List returns notes newest first
func (r *noteRepository) List(ctx context.Context, filter dto.NoteFilter) ([]*models.Note, error) {
	q := selectNotes().OrderBy("n.created_at DESC", "n.id DESC")
	if filter.Subject != "" {
		q = q.Where(squirrel.Eq{"n.subject": filter.Subject})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notes SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// IncrementDownloads bumps the counter atomically and returns the new value
func (r *noteRepository) IncrementDownloads(ctx context.Context, id int64) (int64, error) {
	sql, args, err := psql.Update("notes").
		Set("downloads", squirrel.Expr("downloads + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING downloads").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building increment downloads SQL")
		return 0, err
	}

	var downloads int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&downloads); err != nil {
		return 0, notFound(err, apperrors.ErrNoteNotFound)
	}
	return downloads, nil
}

func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete note SQL")
		return err
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) DistinctSubjects(ctx context.Context) ([]string, error) {
	sql, args, err := psql.Select("DISTINCT subject").From("notes").OrderBy("subject ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building distinct subjects SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing note subjects: %w", err)
	}
	defer rows.Close()

	subjects := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "notes")
}

func (r *noteRepository) TotalDownloads(ctx context.Context) (int64, error) {
	sql, args, err := psql.Select("COALESCE(SUM(downloads), 0)").From("notes").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building total downloads SQL")
		return 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error summing downloads: %w", err)
	}
	return total, nil
}
