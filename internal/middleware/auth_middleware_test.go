package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateRouter(jwtService *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwtService, "")
	r := gin.New()
	r.GET("/any", m.Authenticate(), func(c *gin.Context) {
		id, _ := GetIdentity(c)
		ctxID, _ := auth.IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "ctxId": ctxID.ID, "isAdmin": id.IsAdmin})
	})
	r.GET("/admin", append(m.AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })...)
	r.GET("/user", append(m.UserOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })...)
	return r
}

func call(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(DefaultTokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestAccessGate(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "gate", UserTokenExp: time.Hour, AdminTokenExp: time.Hour})
	r := newGateRouter(jwtService)

	userToken, err := jwtService.IssueUserToken(5)
	require.NoError(t, err)
	adminToken, err := jwtService.IssueAdminToken(9)
	require.NoError(t, err)

	w := call(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, errorCode(t, w))

	w = call(r, "/admin", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, errorCode(t, w))

	w = call(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code, "a valid user token is forbidden, not unauthenticated")

	assert.Equal(t, http.StatusOK, call(r, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusOK, call(r, "/admin", "Bearer "+adminToken).Code)

	assert.Equal(t, http.StatusOK, call(r, "/user", userToken).Code)
	assert.Equal(t, http.StatusForbidden, call(r, "/user", adminToken).Code)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "gate", UserTokenExp: time.Hour})
	token, err := jwtService.IssueUserToken(5)
	require.NoError(t, err)

	w := call(newGateRouter(jwtService), "/any", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["id"])
	assert.Equal(t, float64(5), body["ctxId"])
	assert.Equal(t, false, body["isAdmin"])
}

func TestHandleAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrSubjectNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrFileMissing, http.StatusNotFound, dto.ErrorCodeFileMissing},
		{apperrors.ErrSubjectSlugExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAdminAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrInvalidFile, http.StatusBadRequest, dto.ErrorCodeInvalidFile},
		{apperrors.NewValidationError("bad", map[string]interface{}{"title": "required"}), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests},
		{assert.AnError, http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { HandleAPIError(c, tc.err) })
		w := call(r, "/", "")
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.code, errorCode(t, w), tc.err.Error())
	}
}

func TestServerErrorHidesInternals(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, assert.AnError) })

	w := call(r, "/", "")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestLoginRateLimiter(t *testing.T) {
	rl := NewLoginRateLimiter(1, 2)
	r := gin.New()
	r.GET("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, call(r, "/login", "").Code)
	assert.Equal(t, http.StatusOK, call(r, "/login", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, call(r, "/login", "").Code)

	unlimited := gin.New()
	unlimited.GET("/login", NewLoginRateLimiter(0, 0).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call(unlimited, "/login", "").Code)
	}
}
