package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgauth "github.com/pukpuklouis/blackliving-backend/pkg/auth"
	"github.com/pukpuklouis/blackliving-backend/pkg/config"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/security"
)

// LoginInput is the dashboard sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and who it belongs to.
type LoginResult struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Service authenticates dashboard users.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	repo Repository
	jwt  config.JWTConfig
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the auth service with the required dependencies.
func NewService(repo Repository, jwt config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository required")
	}
	if jwt.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth logger required")
	}
	return &service{repo: repo, jwt: jwt, logg: logg, now: time.Now}, nil
}

// Login verifies the credentials and mints a dashboard JWT. Unknown emails,
// wrong passwords, and deactivated accounts all fail with the same
// unauthorized message.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	unauthorized := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		s.logg.Warn(s.logg.WithField(ctx, "email", email), "admin login rejected")
		return nil, unauthorized
	}
	if !user.IsActive {
		s.logg.Warn(s.logg.WithField(ctx, "email", email), "admin login for deactivated account")
		return nil, unauthorized
	}

	token, err := pkgauth.MintAdminToken(s.jwt, s.now(), user.ID, user.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}

	s.logg.Info(s.logg.WithField(ctx, "email", email), "admin signed in")
	return &LoginResult{
		Token:       token,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}
