package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chengtian/temple-backend/internal/session"
	"github.com/chengtian/temple-backend/pkg/util"
)

var ErrCaptchaInvalid = errors.New("captcha answer is wrong")

// SessionValues is the slice of a session the captcha needs.
type SessionValues interface {
	Set(ctx context.Context, key, value string) error
	Take(ctx context.Context, key string) (string, bool, error)
}

type CaptchaService interface {
	// Issue stores a new challenge in the session and returns its question.
	Issue(ctx context.Context, sess SessionValues) (string, error)
	// Verify consumes the stored answer whether or not it matches.
	Verify(ctx context.Context, sess SessionValues, answer string) error
}

type captchaService struct {
	random func(min, max int) int
}

func NewCaptchaService() CaptchaService {
	return &captchaService{random: util.GenerateRandomNumber}
}

func (s *captchaService) Issue(ctx context.Context, sess SessionValues) (string, error) {
	a, b := s.random(1, 10), s.random(1, 10)
	if err := sess.Set(ctx, session.KeyCaptcha, strconv.Itoa(a+b)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d + %d = ?", a, b), nil
}

func (s *captchaService) Verify(ctx context.Context, sess SessionValues, answer string) error {
	expected, ok, err := sess.Take(ctx, session.KeyCaptcha)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(answer) != expected {
		return ErrCaptchaInvalid
	}
	return nil
}
