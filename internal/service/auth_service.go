package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bites4life/internal/auth"
	apperrors "bites4life/internal/errors"
	"bites4life/internal/model"
	"bites4life/internal/repository"
)

const bcryptCost = 10

// LoginResult is a successful login.
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password, device string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, accessClaims *auth.Claims) error
	IsRevoked(ctx context.Context, claims *auth.Claims) bool
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Login authenticates an admin, records the client it logged in from and
// issues access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password, device string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.checkPassword(ctx, user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if device == "" {
		device = "Web Browser"
	}
	if err := s.userRepo.UpdateLastDevice(ctx, user.ID, device); err != nil {
		return nil, fmt.Errorf("record login device: %w", err)
	}
	user.LastDevice = device

	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := auth.Session{UserID: user.ID, Email: user.Email, Role: user.Role}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, session, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// checkPassword verifies password against the stored value. Rows written
// before hashing was introduced hold plain text; those are compared directly
// and upgraded to a bcrypt hash on success.
func (s *authService) checkPassword(ctx context.Context, user *model.User, password string) bool {
	if user.HasHashedPassword() {
		return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	}
	if user.Password != password {
		return false
	}
	if hashed, err := hashPassword(password); err == nil {
		if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
			log.Printf("upgrade password hash for user %d: %v", user.ID, err)
		}
	}
	return true
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	session, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if session.UserID != claims.UserID || session.Email != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	// Role changes take effect on refresh.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and, when given, the access token used
// for the call.
func (s *authService) Logout(ctx context.Context, refreshToken string, accessClaims *auth.Claims) error {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.KindRefresh)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessClaims.IsAccess() && accessClaims.ExpiresAt != nil {
		ttl := time.Until(accessClaims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.tokenStore.BlacklistAccessToken(ctx, accessClaims.ID, ttl); err != nil {
				return fmt.Errorf("revoke access token: %w", err)
			}
		}
	}
	return nil
}

// IsRevoked reports whether an access token was revoked by logout.
func (s *authService) IsRevoked(ctx context.Context, claims *auth.Claims) bool {
	if claims == nil || claims.ID == "" {
		return false
	}
	revoked, _ := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
	return revoked
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
