package service

import (
	"context"
	"time"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates by username, email, or phone number and issues a
// token pair. Failures are reported without revealing whether the account
// exists.
func (s *service) Login(ctx context.Context, identifier, password string) (*models.TokenResponse, error) {
	user, err := s.repo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		return nil, NewValidationError("detail", "no active account found with the given credentials")
	}
	if !user.IsActive {
		return nil, NewValidationError("detail", "no active account found with the given credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewValidationError("detail", "no active account found with the given credentials")
	}

	access, err := s.issueToken(user.ID, models.TokenTypeAccess, s.cfg.JWT.AccessLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueToken(user.ID, models.TokenTypeRefresh, s.cfg.JWT.RefreshLifetime)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return &models.TokenResponse{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *service) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken, models.TokenTypeRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	access, err := s.issueToken(user.ID, models.TokenTypeAccess, s.cfg.JWT.AccessLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueToken(user.ID, models.TokenTypeRefresh, s.cfg.JWT.RefreshLifetime)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{Access: access, Refresh: refresh}, nil
}

// VerifyAccessToken validates an access token and loads its active user
func (s *service) VerifyAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.parseToken(token, models.TokenTypeAccess)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *service) issueToken(userID uint, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *service) parseToken(raw, wantType string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}
