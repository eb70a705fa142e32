package session

import (
	"context"
	"sync"
	"time"
)

// ── Store split ─────────────────────────────────────────────
//
// Two deliberately different backends behind two types:
//
//   - DurableStore: survives restarts; holds the admin profile, the active
//     timetable and the history, as self-describing JSON documents.
//   - TokenStore: process memory only. The bearer token lives here and
//     nowhere else, so "never persist the credential" is enforced by type
//     and location, not by convention.
// ────────────────────────────────────────────────────────────

// DurableStore is the persisted, namespaced key-value document store.
// pkg/redis.Client implements it in production; MemoryStore backs tests.
type DurableStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryStore is an in-process DurableStore used in tests and single-node
// development runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := make([]byte, len(value))
	copy(doc, value)
	m.docs[key] = doc
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.docs, k)
	}
	return nil
}

// ── Volatile credential store ──

// TokenStore holds the bearer token in process memory for the lifetime of
// the session. Restart loses it; the admin re-authenticates while profile
// and timetable remain visible from the durable store.
type TokenStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenStore creates an empty volatile token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{now: time.Now}
}

// Set stores the token. ttl <= 0 means no client-side expiry tracking.
func (t *TokenStore) Set(token string, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	if ttl > 0 {
		t.expiresAt = t.now().Add(ttl)
	} else {
		t.expiresAt = time.Time{}
	}
}

// Token returns the current token. Implements upstream.TokenSource.
func (t *TokenStore) Token() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.token == "" {
		return "", false
	}
	if !t.expiresAt.IsZero() && t.now().After(t.expiresAt) {
		return "", false
	}
	return t.token, true
}

// Clear drops the token.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiresAt = time.Time{}
}
