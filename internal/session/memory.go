package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// entry returns the live entry for sid, dropping it if expired. Caller holds mu.
func (s *MemoryStore) entry(sid string) *memoryEntry {
	e, ok := s.entries[sid]
	if !ok {
		return nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, sid)
		return nil
	}
	return e
}

func (s *MemoryStore) Load(_ context.Context, sid string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	if e := s.entry(sid); e != nil {
		for k, v := range e.values {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sid)
	if e == nil {
		return "", false, nil
	}
	v, ok := e.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sid)
	if e == nil {
		e = &memoryEntry{values: make(map[string]string)}
		s.entries[sid] = e
	}
	e.values[key] = value
	e.expiresAt = s.now().Add(s.ttl)
	s.sweep()
	return nil
}

func (s *MemoryStore) Take(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sid)
	if e == nil {
		return "", false, nil
	}
	v, ok := e.values[key]
	delete(e.values, key)
	return v, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entry(sid); e != nil {
		for _, k := range keys {
			delete(e.values, k)
		}
	}
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

// sweep drops expired sessions once the map grows. Caller holds mu.
func (s *MemoryStore) sweep() {
	if len(s.entries) < 1024 {
		return
	}
	now := s.now()
	for sid, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, sid)
		}
	}
}

type memoryNonce struct {
	owner     string
	expiresAt time.Time
}

// MemoryNonceStore is the process-local NonceStore.
type MemoryNonceStore struct {
	mu     sync.Mutex
	nonces map[string]memoryNonce
	now    func() time.Time
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		nonces: make(map[string]memoryNonce),
		now:    time.Now,
	}
}

func (s *MemoryNonceStore) Issue(_ context.Context, nonce, owner string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, n := range s.nonces {
		if now.After(n.expiresAt) {
			delete(s.nonces, k)
		}
	}
	s.nonces[nonce] = memoryNonce{owner: owner, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryNonceStore) Consume(_ context.Context, nonce string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nonces[nonce]
	if !ok {
		return "", false, nil
	}
	delete(s.nonces, nonce)
	if s.now().After(n.expiresAt) {
		return "", false, nil
	}
	return n.owner, true, nil
}
