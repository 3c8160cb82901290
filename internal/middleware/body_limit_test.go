package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models/dto"
)

type namedForm struct {
	Title string `form:"title" binding:"required"`
}

func newLimitedRouter(limit int64) *gin.Engine {
	r := gin.New()
	r.POST("/raw", BodyLimit(limit), func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"size": len(raw)})
	})
	r.POST("/form", BodyLimit(limit), func(c *gin.Context) {
		var form namedForm
		if err := c.ShouldBind(&form); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

// post sends body without a declared length so the cap is hit while reading
func post(r http.Handler, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.ContentLength = -1
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	r := newLimitedRouter(64)

	t.Run("under cap", func(t *testing.T) {
		w := post(r, "/raw", "application/json", []byte(`{"ok":true}`))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("raw body over cap", func(t *testing.T) {
		w := post(r, "/raw", "application/json", bytes.Repeat([]byte("a"), 65))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, errorCode(t, w))
	})

	t.Run("declared length over cap", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(strings.Repeat("a", 100)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, errorCode(t, w))
	})

	t.Run("multipart over cap", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", strings.Repeat("t", 256)))
		require.NoError(t, mw.Close())

		w := post(r, "/form", mw.FormDataContentType(), buf.Bytes())
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, errorCode(t, w))
	})

	t.Run("disabled", func(t *testing.T) {
		w := post(newLimitedRouter(0), "/raw", "application/json", bytes.Repeat([]byte("a"), 1024))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
