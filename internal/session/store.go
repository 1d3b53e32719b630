// Package session keeps per-visitor state on the server. The browser only
// holds a signed token naming the session id.
package session

import (
	"context"
	"errors"
	"time"
)

// 세션 키
const (
	KeyAdmin           = "admin"
	KeyCSRFToken       = "csrf_token"
	KeyCaptcha         = "captcha"
	KeyLineUserID      = "line_user_id"
	KeyLineDisplayName = "line_display_name"
)

var ErrInvalidToken = errors.New("invalid session token")

// Store persists session values keyed by session id. Implementations refresh
// the expiry on every write.
type Store interface {
	Load(ctx context.Context, sid string) (map[string]string, error)
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	// Take reads and deletes key atomically.
	Take(ctx context.Context, sid, key string) (string, bool, error)
	Delete(ctx context.Context, sid string, keys ...string) error
	Destroy(ctx context.Context, sid string) error
}

// NonceStore holds single-use values with a TTL, each bound to an owner.
type NonceStore interface {
	Issue(ctx context.Context, nonce, owner string, ttl time.Duration) error
	// Consume returns the owner and removes the nonce. ok is false when the
	// nonce is unknown or expired.
	Consume(ctx context.Context, nonce string) (owner string, ok bool, err error)
}
