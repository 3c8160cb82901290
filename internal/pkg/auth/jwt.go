package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/edulearn/backend/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey     string
	UserTokenExp  time.Duration
	AdminTokenExp time.Duration
	TokenIssuer   string
}

// JWTService issues and verifies session tokens for users and admins.
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// ClaimSubject is the {id} object nested under "user" or "admin".
type ClaimSubject struct {
	ID int64 `json:"id"`
}

// Claims defines JWT token content. Exactly one of User or Admin is set.
type Claims struct {
	User    *ClaimSubject `json:"user,omitempty"`
	Admin   *ClaimSubject `json:"admin,omitempty"`
	IsAdmin bool          `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// IssueUserToken signs {user:{id}} with the user token lifetime.
func (s *JWTService) IssueUserToken(userID int64) (string, error) {
	claims := &Claims{
		User:             &ClaimSubject{ID: userID},
		RegisteredClaims: s.registered(userID, s.config.UserTokenExp),
	}
	return s.sign(claims)
}

// IssueAdminToken signs {admin:{id}, isAdmin:true} with the admin token lifetime.
func (s *JWTService) IssueAdminToken(adminID int64) (string, error) {
	claims := &Claims{
		Admin:            &ClaimSubject{ID: adminID},
		IsAdmin:          true,
		RegisteredClaims: s.registered(adminID, s.config.AdminTokenExp),
	}
	return s.sign(claims)
}

func (s *JWTService) registered(id int64, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	rc := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    s.config.TokenIssuer,
		Subject:   strconv.FormatInt(id, 10),
		ID:        uuid.New().String(),
	}
	if ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return rc
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and lifetime of tokenString and resolves the caller.
// A "user" payload yields a non-admin identity; an "admin" payload carries its
// isAdmin flag; anything else is rejected as malformed.
func (s *JWTService) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, apperrors.ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return Identity{}, apperrors.ErrTokenInvalid
	}

	switch {
	case claims.User != nil:
		return Identity{ID: claims.User.ID, Kind: PrincipalUser}, nil
	case claims.Admin != nil:
		return Identity{ID: claims.Admin.ID, Kind: PrincipalAdmin, IsAdmin: claims.IsAdmin}, nil
	default:
		return Identity{}, apperrors.ErrTokenMalformed
	}
}

// ExtractToken returns the raw token from a header value, tolerating a
// "Bearer " prefix and surrounding quotes.
func ExtractToken(headerValue string) string {
	v := strings.Trim(strings.TrimSpace(headerValue), "\"'")
	v = strings.TrimPrefix(v, "Bearer ")
	return strings.TrimSpace(v)
}
