package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is how long a dashboard session token is valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is how long a refresh session lives in redis.
	RefreshTokenExpiry = 7 * 24 * time.Hour

	issuer = "bites4life"
)

// Token kinds. A refresh token is never accepted as a bearer token and an
// access token cannot be refreshed.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrWrongTokenKind = errors.New("wrong token kind")
	errNoTokenID      = errors.New("token has no id")
)

// Claims are the JWT claims issued to admins.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// IsAccess reports whether the claims came from an access token.
func (c *Claims) IsAccess() bool {
	return c != nil && c.Kind == KindAccess
}

// JWTService signs and verifies HS256 tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Secret returns the signing key, for wiring echo-jwt.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// GenerateAccessToken issues an access token. The returned id is what logout
// revokes.
func (s *JWTService) GenerateAccessToken(userID uint, email, role string) (tokenID string, token string, err error) {
	return s.sign(userID, email, role, KindAccess, AccessTokenExpiry)
}

// GenerateRefreshToken issues a refresh token; its id keys the session in redis.
func (s *JWTService) GenerateRefreshToken(userID uint, email, role string) (tokenID string, token string, err error) {
	return s.sign(userID, email, role, KindRefresh, RefreshTokenExpiry)
}

func (s *JWTService) sign(userID uint, email, role, kind string, ttl time.Duration) (string, string, error) {
	tokenID := uuid.NewString()
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    issuer,
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return tokenID, token, nil
}

// ValidateToken verifies signature, expiry and issuer, and that the token is
// of the expected kind.
func (s *JWTService) ValidateToken(tokenString, kind string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	if claims.ID == "" {
		return nil, errNoTokenID
	}
	return claims, nil
}
