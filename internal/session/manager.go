package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and verifies session cookies. The cookie value is an
// HS256 token whose jti is the session id.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, secret, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) sign(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// Resolve returns the session named by the request cookie, or a fresh one
// when the cookie is missing or fails verification.
func (m *Manager) Resolve(r *http.Request) *Session {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		if sid, err := m.verify(cookie.Value); err == nil {
			return &Session{id: sid, store: m.store}
		}
	}
	return &Session{id: uuid.NewString(), store: m.store, fresh: true}
}

// WriteCookie sets the signed session cookie on w.
func (m *Manager) WriteCookie(w http.ResponseWriter, s *Session) error {
	token, err := m.sign(s.id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Rotate moves the values of s under a new id and destroys the old one.
func (m *Manager) Rotate(ctx context.Context, s *Session) (*Session, error) {
	values, err := m.store.Load(ctx, s.id)
	if err != nil {
		return nil, err
	}
	next := &Session{id: uuid.NewString(), store: m.store, fresh: true}
	for k, v := range values {
		if err := next.Set(ctx, k, v); err != nil {
			return nil, err
		}
	}
	if err := m.store.Destroy(ctx, s.id); err != nil {
		return nil, err
	}
	return next, nil
}

// Session is a handle bound to one session id.
type Session struct {
	id    string
	store Store
	fresh bool
}

func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the id was minted during this request.
func (s *Session) IsNew() bool {
	return s.fresh
}

func (s *Session) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, s.id, key)
}

func (s *Session) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.id, key, value)
}

func (s *Session) Take(ctx context.Context, key string) (string, bool, error) {
	return s.store.Take(ctx, s.id, key)
}

func (s *Session) Delete(ctx context.Context, keys ...string) error {
	return s.store.Delete(ctx, s.id, keys...)
}

func (s *Session) Destroy(ctx context.Context) error {
	return s.store.Destroy(ctx, s.id)
}
