package service

import (
	"errors"

	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/chengtian/temple-backend/pkg/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrAdminDisabled      = errors.New("admin login not configured")
)

// AuthService checks the single shared admin password.
type AuthService interface {
	Enabled() bool
	Login(password string) error
}

type authService struct {
	passwordHash string
}

func NewAuthService(passwordHash string) AuthService {
	if passwordHash != "" && !util.IsPasswordHash(passwordHash) {
		logger.Warn("ADMIN_PASSWORD_HASH is not a bcrypt hash, admin login disabled", nil)
		passwordHash = ""
	}
	return &authService{passwordHash: passwordHash}
}

func (s *authService) Enabled() bool {
	return s.passwordHash != ""
}

func (s *authService) Login(password string) error {
	if !s.Enabled() {
		return ErrAdminDisabled
	}
	if !util.VerifyPassword(s.passwordHash, password) {
		logger.Warn("Admin login failed: wrong password", nil)
		return ErrInvalidCredentials
	}

	logger.Info("Admin logged in", nil)
	return nil
}
