package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/auth"
	"github.com/edulearn/backend/internal/pkg/logger"
)

// DefaultTokenHeader carries the session token on every authenticated call
const DefaultTokenHeader = "x-auth-token"

// identityKey is the gin context key holding the resolved auth.Identity
const identityKey = "identity"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	header     string
}

// NewAuthMiddleware creates a new AuthMiddleware reading tokens from header
func NewAuthMiddleware(jwtService *auth.JWTService, header string) *AuthMiddleware {
	if header == "" {
		header = DefaultTokenHeader
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		header:     header,
	}
}

// Authenticate verifies the token and attaches the caller's identity
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := auth.ExtractToken(c.GetHeader(m.header))
		if raw == "" {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.ErrUnauthenticated.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		identity, err := m.jwtService.Verify(raw)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(tokenErrorDetail(err)))
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func tokenErrorDetail(err error) *dto.ErrorDetail {
	switch {
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		return dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case apperrors.Is(err, apperrors.ErrTokenMalformed):
		return dto.NewErrorDetail(dto.ErrorCodeMalformedToken, apperrors.ErrTokenMalformed.Error())
	default:
		return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, apperrors.ErrTokenInvalid.Error())
	}
}

// RequireAdmin only passes identities whose admin-issued token carries isAdmin
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.ErrUnauthenticated.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}
		if !identity.IsAdmin {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied. Admin only.")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// RequireUser only passes learner identities
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.ErrUnauthenticated.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}
		if !identity.IsUser() {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "This endpoint requires a user account")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// AdminOnly chains Authenticate and RequireAdmin
func (m *AuthMiddleware) AdminOnly() gin.HandlersChain {
	return gin.HandlersChain{m.Authenticate(), m.RequireAdmin()}
}

// UserOnly chains Authenticate and RequireUser
func (m *AuthMiddleware) UserOnly() gin.HandlersChain {
	return gin.HandlersChain{m.Authenticate(), m.RequireUser()}
}

// GetIdentity returns the identity set by Authenticate
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
