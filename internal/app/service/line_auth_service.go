package service

import (
	"context"
	"errors"
	"time"

	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/chengtian/temple-backend/pkg/line"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrLineDisabled     = errors.New("line login not configured")
	ErrInvalidLineState = errors.New("invalid login state")
)

// LoginStateTTL bounds how long a user may take at the LINE consent screen.
const LoginStateTTL = 10 * time.Minute

// Authenticator is the OAuth half of LINE Login; *line.Client implements it.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*line.Profile, error)
}

type LineAuthService interface {
	Enabled() bool
	// BeginLogin issues a state nonce bound to owner and returns the provider URL.
	BeginLogin(ctx context.Context, owner string) (string, error)
	// CompleteLogin consumes the nonce, exchanges the code and stores the profile.
	CompleteLogin(ctx context.Context, owner, state, code string) (*model.User, error)
}

type lineAuthService struct {
	auth     Authenticator
	nonces   session.NonceStore
	userRepo repository.UserRepository
}

// NewLineAuthService accepts a nil authenticator when LINE is not configured.
func NewLineAuthService(auth Authenticator, nonces session.NonceStore, userRepo repository.UserRepository) LineAuthService {
	return &lineAuthService{auth: auth, nonces: nonces, userRepo: userRepo}
}

func (s *lineAuthService) Enabled() bool {
	return s.auth != nil
}

func (s *lineAuthService) BeginLogin(ctx context.Context, owner string) (string, error) {
	if !s.Enabled() {
		return "", ErrLineDisabled
	}

	state := uuid.NewString()
	if err := s.nonces.Issue(ctx, state, owner, LoginStateTTL); err != nil {
		logger.Error("Failed to store LINE login state", err, nil)
		return "", err
	}
	return s.auth.AuthCodeURL(state), nil
}

func (s *lineAuthService) CompleteLogin(ctx context.Context, owner, state, code string) (*model.User, error) {
	if !s.Enabled() {
		return nil, ErrLineDisabled
	}
	if state == "" || code == "" {
		return nil, ErrInvalidLineState
	}

	issuedTo, ok, err := s.nonces.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok || issuedTo != owner {
		logger.Warn("LINE callback with unknown or foreign state", map[string]interface{}{
			"known": ok,
		})
		return nil, ErrInvalidLineState
	}

	profile, err := s.auth.Exchange(ctx, code)
	if err != nil {
		logger.Error("LINE code exchange failed", err, nil)
		return nil, err
	}

	user := &model.User{
		LineID:      profile.UserID,
		DisplayName: profile.DisplayName,
		PictureURL:  profile.PictureURL,
	}
	if err := s.userRepo.Upsert(user, "display_name", "picture_url"); err != nil {
		return nil, err
	}

	logger.Info("LINE user logged in", map[string]interface{}{
		"line_id": profile.UserID,
	})
	return user, nil
}
