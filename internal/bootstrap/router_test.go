package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/config"
)

const bulkPayload = `{"subjects":[{"name":"JavaScript","slug":"js","topics":[{"title":"Intro","slug":"intro","contents":[{"title":"Hello","type":"code","content":"console.log(1)","codeLanguage":"javascript"}]}]}]}`

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Server.PublicPrefix = "/uploads"
	cfg.Server.MaxUploadBytes = 1 << 20
	cfg.Server.MaxBulkUploadBytes = 1 << 20
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.Issuer = "edulearn.test"
	cfg.JWT.Header = "x-auth-token"
	cfg.JWT.UserTokenExpiration = "24h"
	cfg.JWT.AdminTokenExpiration = "168h"
	cfg.Content.CascadeSubjectDelete = true
	cfg.Seed.Enabled = true
	cfg.Seed.AdminUsername = "admin"
	cfg.Seed.AdminEmail = "admin@edulearn.com"
	cfg.Seed.AdminPassword = "admin123"
	cfg.Seed.AdminRole = "superadmin"
	return cfg
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := newTestConfig(t)
	for _, opt := range opts {
		opt(cfg)
	}
	lgr := zerolog.Nop()

	repos, pool, err := SetupDatabase(ctx, cfg, lgr)
	require.NoError(t, err)
	require.Nil(t, pool)

	deps, err := BuildDependencies(cfg, repos, pool, lgr)
	require.NoError(t, err)
	require.NoError(t, SeedDefaults(ctx, cfg, deps))

	return &testApp{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (a *testApp) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		raw, err := json.Marshal(p)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}
	return a.do(method, path, body, "application/json", token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testApp) adminToken() string {
	w := a.doJSON(http.MethodPost, "/api/admin/login", dto.AdminLoginRequest{Email: "admin@edulearn.com", Password: "admin123"}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.AdminLoginResponse](a.t, w)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testApp) userToken(email string) string {
	w := a.doJSON(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Name: "Learner", Email: email, Password: "secret123"}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TokenResponse](a.t, w).Token
}

func (a *testApp) uploadNote(token, title, subject string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(a.t, mw.WriteField("title", title))
	require.NoError(a.t, mw.WriteField("description", "Lecture notes"))
	require.NoError(a.t, mw.WriteField("subject", subject))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="pdf"; filename="notes.pdf"`)
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())
	return a.do(http.MethodPost, "/api/notes/upload", &buf, mw.FormDataContentType(), token)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.HealthResponse{Status: "ok", Database: config.DriverMemory}, decode[dto.HealthResponse](t, w))
}

func TestAdminRoutesGateByPrincipal(t *testing.T) {
	app := newTestApp(t)
	userToken := app.userToken("learner@example.com")

	w := app.doJSON(http.MethodGet, "/api/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.doJSON(http.MethodGet, "/api/admin/stats", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.doJSON(http.MethodGet, "/api/admin/stats", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.doJSON(http.MethodGet, "/api/admin/stats", nil, app.adminToken())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(http.MethodPost, "/api/admin/login", dto.AdminLoginRequest{Email: "admin@edulearn.com", Password: "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, resp.Error.Code)
}

func TestCreateAdminThenDuplicate(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken()
	req := dto.CreateAdminRequest{Username: "editor", Email: "editor@edulearn.com", Password: "secret123"}

	w := app.doJSON(http.MethodPost, "/api/admin/create", req, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Admin created successfully", decode[dto.MsgResponse](t, w).Msg)

	w = app.doJSON(http.MethodPost, "/api/admin/create", req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkUploadTwiceThenBrowseCatalog(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken()

	for i := 0; i < 2; i++ {
		w := app.doJSON(http.MethodPost, "/api/admin/bulk-upload", bulkPayload, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[dto.BulkUploadResponse](t, w)
		assert.Equal(t, "Bulk upload successful", resp.Msg)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "js", resp.Results[0].Slug)
	}

	w := app.doJSON(http.MethodGet, "/api/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatsResponse{Subjects: 1, Topics: 1, Contents: 2}, decode[dto.StatsResponse](t, w))

	w = app.doJSON(http.MethodGet, "/api/subjects/js", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	subject := decode[models.Subject](t, w)
	assert.Equal(t, "JavaScript", subject.Name)

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/topics/subject/%d", subject.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	topics := decode[[]models.Topic](t, w)
	require.Len(t, topics, 1)

	w = app.doJSON(http.MethodGet, "/api/topics/intro?subject=js", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, topics[0].ID, decode[models.Topic](t, w).ID)

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/content/topic/%d", topics[0].ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Content](t, w), 2)
}

func TestBulkUploadRejectsInvalidPayload(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(http.MethodPost, "/api/admin/bulk-upload", `{"subjects":[{"name":"No slug"}]}`, app.adminToken())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode[dto.ErrorResponse](t, w).Error.Code)
}

func TestSubjectCrudAndCascade(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken()

	w := app.doJSON(http.MethodPost, "/api/admin/subjects", dto.CreateSubjectRequest{
		Name: "Data Science", Description: "Numbers", Category: "science",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Subject](t, w)
	assert.Equal(t, "data-science", created.Slug)

	w = app.doJSON(http.MethodPost, "/api/admin/subjects", dto.CreateSubjectRequest{
		Name: "Data Science", Description: "Again", Category: "science",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.doJSON(http.MethodPut, fmt.Sprintf("/api/admin/subjects/%d", created.ID), map[string]interface{}{"isActive": false}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.Subject](t, w).IsActive)

	w = app.doJSON(http.MethodGet, "/api/subjects/data-science", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.doJSON(http.MethodGet, "/api/admin/subjects", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Subject](t, w), 1)

	w = app.doJSON(http.MethodDelete, fmt.Sprintf("/api/admin/subjects/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Subject deleted", decode[dto.MsgResponse](t, w).Msg)

	w = app.doJSON(http.MethodDelete, fmt.Sprintf("/api/admin/subjects/%d", created.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.doJSON(http.MethodDelete, "/api/admin/subjects/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoteUploadDownloadDelete(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken()

	w := app.uploadNote(app.userToken("learner@example.com"), "Algebra", "Math", samplePDF)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.uploadNote(token, "Algebra", "Math", samplePDF)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	uploaded := decode[dto.NoteUploadResponse](t, w)
	assert.Equal(t, "Note uploaded successfully", uploaded.Message)
	require.NotNil(t, uploaded.Note)
	require.NotNil(t, uploaded.Note.UploadedBy)
	assert.Equal(t, "admin", uploaded.Note.UploadedBy.Username)
	noteID := uploaded.Note.ID

	w = app.uploadNote(token, "Not a pdf", "Math", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/notes/%d/download", noteID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, samplePDF, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notes.pdf")

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/notes/%d", noteID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[models.Note](t, w).Downloads)

	w = app.doJSON(http.MethodGet, uploaded.Note.FileURL, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "stored file is served statically")

	w = app.doJSON(http.MethodGet, "/api/notes/filters/subjects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Math"}, decode[[]string](t, w))

	w = app.doJSON(http.MethodGet, "/api/notes?subject=Physics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Note](t, w))

	w = app.doJSON(http.MethodDelete, fmt.Sprintf("/api/notes/%d", noteID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Note deleted successfully", decode[dto.MessageResponse](t, w).Message)

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/notes/%d/download", noteID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressAndBookmarks(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken()
	require.Equal(t, http.StatusOK, app.doJSON(http.MethodPost, "/api/admin/bulk-upload", bulkPayload, adminToken).Code)

	w := app.doJSON(http.MethodGet, "/api/topics/intro", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	topic := decode[models.Topic](t, w)

	token := app.userToken("learner@example.com")

	w = app.doJSON(http.MethodPost, "/api/progress", dto.UpdateProgressRequest{TopicID: topic.ID}, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code, "admins have no progress")

	w = app.doJSON(http.MethodPost, "/api/progress", dto.UpdateProgressRequest{TopicID: topic.ID, Completed: true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.doJSON(http.MethodPost, "/api/progress", dto.UpdateProgressRequest{TopicID: topic.ID, Completed: false}, token)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]models.ProgressEntry](t, w)
	require.Len(t, entries, 1, "one entry per topic")
	assert.False(t, entries[0].Completed)

	w = app.doJSON(http.MethodPost, "/api/progress", dto.UpdateProgressRequest{TopicID: 9999, Completed: true}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.doJSON(http.MethodGet, fmt.Sprintf("/api/content/topic/%d", topic.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	contents := decode[[]models.Content](t, w)
	require.NotEmpty(t, contents)

	w = app.doJSON(http.MethodPost, "/api/bookmarks", dto.BookmarkRequest{ContentID: contents[0].ID}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []int64{contents[0].ID}, decode[[]int64](t, w))

	w = app.doJSON(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, "learner@example.com", me.Email)
	assert.Equal(t, []int64{contents[0].ID}, me.Bookmarks)

	w = app.doJSON(http.MethodDelete, fmt.Sprintf("/api/bookmarks/%d", contents[0].ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]int64](t, w))
}

func TestUserLoginAndDuplicateRegistration(t *testing.T) {
	app := newTestApp(t)
	app.userToken("learner@example.com")

	w := app.doJSON(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Name: "Again", Email: "learner@example.com", Password: "secret123"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.doJSON(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "learner@example.com", Password: "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[dto.TokenResponse](t, w).Token)

	w = app.doJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsExportIsAWorkbook(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(http.MethodGet, "/api/admin/stats/export", nil, app.adminToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestUploadBodiesAreCapped(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.MaxUploadBytes = 1024
		cfg.Server.MaxBulkUploadBytes = 256
	})
	admin := app.adminToken()

	t.Run("bulk upload over cap", func(t *testing.T) {
		padded := `{"subjects":[{"slug":"js","description":"` + strings.Repeat("x", 512) + `"}]}`
		w := app.doJSON(http.MethodPost, "/api/admin/bulk-upload", padded, admin)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, decode[dto.ErrorResponse](t, w).Error.Code)

		stats := decode[dto.StatsResponse](t, app.doJSON(http.MethodGet, "/api/admin/stats", nil, admin))
		assert.Zero(t, stats.Subjects)
	})

	t.Run("bulk upload under cap", func(t *testing.T) {
		w := app.doJSON(http.MethodPost, "/api/admin/bulk-upload", `{"subjects":[{"slug":"js"}]}`, admin)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("note body over cap", func(t *testing.T) {
		content := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte{' '}, 128<<10)...)
		w := app.uploadNote(admin, "Huge", "Math", content)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, decode[dto.ErrorResponse](t, w).Error.Code)
	})

	t.Run("note file over limit within body cap", func(t *testing.T) {
		content := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte{' '}, 4<<10)...)
		w := app.uploadNote(admin, "Big", "Math", content)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrorCodeInvalidFile, decode[dto.ErrorResponse](t, w).Error.Code)
	})
}
