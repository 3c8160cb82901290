package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
	"github.com/edulearn/backend/internal/pkg/filestorage"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func fileHeader(t *testing.T, name, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["pdf"][0]
}

type noteFixture struct {
	repos   *repositories.Repositories
	storage *filestorage.LocalStorage
	svc     NoteService
	admin   auth.Identity
}

func newNoteFixture(t *testing.T, maxBytes int64) *noteFixture {
	t.Helper()
	repos := newMemRepos()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	admin := &models.Admin{Username: "root", Email: "root@example.com", IsActive: true, Role: models.RoleSuperAdmin}
	require.NoError(t, repos.Admins.Create(context.Background(), admin))

	return &noteFixture{
		repos:   repos,
		storage: storage,
		svc:     NewNoteService(repos, storage, maxBytes, nopLogger()),
		admin:   auth.Identity{ID: admin.ID, Kind: auth.PrincipalAdmin, IsAdmin: true},
	}
}

func validNoteRequest() *dto.UploadNoteRequest {
	return &dto.UploadNoteRequest{Title: "Algebra Basics", Description: "Intro", Subject: "Math"}
}

func TestUploadNote(t *testing.T) {
	f := newNoteFixture(t, 50<<20)

	note, err := f.svc.Upload(context.Background(), f.admin, validNoteRequest(), fileHeader(t, "algebra.pdf", PDFMimeType, samplePDF))
	require.NoError(t, err)

	assert.Equal(t, int64(0), note.Downloads)
	assert.Greater(t, note.FileSize, int64(0))
	assert.Equal(t, "algebra.pdf", note.FileName)
	assert.Regexp(t, `^/uploads/notes/\d+-[0-9a-f]{8}\.pdf$`, note.FileURL)
	assert.True(t, f.storage.Exists(note.FilePath))
	require.NotNil(t, note.UploadedBy)
	assert.Equal(t, "root", note.UploadedBy.Username)
}

func TestUploadNoteValidation(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t, 64)

	_, err := f.svc.Upload(ctx, f.admin, &dto.UploadNoteRequest{Title: "x"}, fileHeader(t, "a.pdf", PDFMimeType, samplePDF))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Upload(ctx, f.admin, validNoteRequest(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFile)

	_, err = f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "a.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFile)

	_, err = f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "fake.pdf", PDFMimeType, []byte("plain text pretending")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFile, "content is sniffed, not just the declared type")

	_, err = f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "big.pdf", PDFMimeType, samplePDF))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	n, err := f.repos.Notes.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := os.ReadDir(f.storage.BasePath())
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for rejected uploads")
}

func TestDownloadIncrementsCounter(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t, 0)

	note, err := f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "algebra.pdf", PDFMimeType, samplePDF))
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		got, path, err := f.svc.Download(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Downloads)
		assert.FileExists(t, path)
	}

	_, _, err = f.svc.Download(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestDownloadMissingFileDoesNotCount(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t, 0)

	note, err := f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "algebra.pdf", PDFMimeType, samplePDF))
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.storage.FullPath(note.FilePath)))

	_, _, err = f.svc.Download(ctx, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrFileMissing)

	stored, err := f.repos.Notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Downloads)
}

func TestDeleteNoteRemovesFileAndRecord(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t, 0)

	note, err := f.svc.Upload(ctx, f.admin, validNoteRequest(), fileHeader(t, "algebra.pdf", PDFMimeType, samplePDF))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, note.ID))
	assert.False(t, f.storage.Exists(note.FilePath))
	_, err = f.svc.Get(ctx, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, note.ID), apperrors.ErrNoteNotFound)
}

func TestListNotesFilterAndSubjects(t *testing.T) {
	ctx := context.Background()
	f := newNoteFixture(t, 0)

	for _, subject := range []string{"Math", "Physics", "Math"} {
		req := validNoteRequest()
		req.Subject = subject
		_, err := f.svc.Upload(ctx, f.admin, req, fileHeader(t, "n.pdf", PDFMimeType, samplePDF))
		require.NoError(t, err)
	}

	math, err := f.svc.List(ctx, dto.NoteFilter{Subject: "Math"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	limited, err := f.svc.List(ctx, dto.NoteFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	subjects, err := f.svc.Subjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Physics"}, subjects)
}
