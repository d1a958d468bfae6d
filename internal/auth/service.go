// Package auth handles email/password authentication for gallery operators.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/logofolio/service/internal/config"
	"github.com/logofolio/service/internal/profile"
)

const tokenTTL = 30 * 24 * time.Hour

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// profileStore is the slice of the profile service auth depends on.
type profileStore interface {
	Create(ctx context.Context, email, passwordHash string, displayName *string) (*profile.Profile, error)
	GetByEmail(ctx context.Context, email string) (*profile.Profile, error)
}

var _ profileStore = (*profile.Service)(nil)

// Service contains the business logic for operator authentication.
type Service struct {
	profiles profileStore
	cfg      *config.Config
}

// NewService creates a new auth Service.
func NewService(profiles profileStore, cfg *config.Config) *Service {
	return &Service{profiles: profiles, cfg: cfg}
}

// Register creates a new operator account and issues a JWT token.
func (s *Service) Register(ctx context.Context, email, password string, displayName *string) (string, *profile.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.profiles.Create(ctx, email, string(hash), displayName)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(p)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, p, nil
}

// Login verifies the password for an existing account and issues a JWT
// token. A missing account and a wrong password are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *profile.Profile, error) {
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(p)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, p, nil
}

// issueToken creates a signed JWT for the given operator.
func (s *Service) issueToken(p *profile.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
