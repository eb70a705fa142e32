package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// Durable document keys, relative to the configured namespace.
const (
	keyAdmin     = "admin"
	keyTimetable = "timetable"
	keyHistory   = "history"
)

// Manager reconciles the session against the two stores. Admin profile,
// active timetable and history write through to the durable store on every
// mutation; the token stays in the volatile store. Loading, error and
// partial-result warning are transient and never persisted.
type Manager struct {
	store    DurableStore
	tokens   *TokenStore
	prefix   string
	capacity int
	logger   *zap.Logger

	mu          sync.Mutex
	admin       *model.AdminProfile
	timetable   []model.Slot
	history     []model.HistoryEntry
	loading     bool
	lastError   string
	unallocated []string
}

// NewManager creates a session manager over the given stores.
func NewManager(store DurableStore, tokens *TokenStore, namespace string, historyCapacity int, logger *zap.Logger) *Manager {
	if historyCapacity <= 0 {
		historyCapacity = model.HistoryCapacity
	}
	return &Manager{
		store:    store,
		tokens:   tokens,
		prefix:   namespace,
		capacity: historyCapacity,
		logger:   logger,
	}
}

func (m *Manager) key(name string) string {
	return m.prefix + ":" + name
}

// ── lifecycle ──

// Hydrate restores admin, timetable and history from the durable store.
// Called once at startup. The token is never hydrated: it does not exist in
// the durable store, so a restart always starts unauthenticated.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw, ok, err := m.store.Get(ctx, m.key(keyAdmin)); err != nil {
		return fmt.Errorf("hydrating admin: %w", err)
	} else if ok {
		var admin model.AdminProfile
		if err := json.Unmarshal(raw, &admin); err == nil {
			m.admin = &admin
		} else {
			m.logger.Warn("discarding unreadable persisted admin", zap.Error(err))
		}
	}

	if raw, ok, err := m.store.Get(ctx, m.key(keyTimetable)); err != nil {
		return fmt.Errorf("hydrating timetable: %w", err)
	} else if ok {
		// Persisted snapshots go through the same shape-tolerant
		// normalization as network payloads.
		m.timetable = grid.Normalize(raw)
	}

	if raw, ok, err := m.store.Get(ctx, m.key(keyHistory)); err != nil {
		return fmt.Errorf("hydrating history: %w", err)
	} else if ok {
		var history []model.HistoryEntry
		if err := json.Unmarshal(raw, &history); err == nil {
			if len(history) > m.capacity {
				history = history[:m.capacity]
			}
			m.history = history
		} else {
			m.logger.Warn("discarding unreadable persisted history", zap.Error(err))
		}
	}

	return nil
}

// Logout clears admin, timetable, history and the token atomically: the
// lock is held across the durable deletes and the in-memory wipe.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, m.key(keyAdmin), m.key(keyTimetable), m.key(keyHistory)); err != nil {
		return fmt.Errorf("clearing persisted session: %w", err)
	}
	m.admin = nil
	m.timetable = nil
	m.history = nil
	m.lastError = ""
	m.unallocated = nil
	m.tokens.Clear()
	return nil
}

// ── admin ──

// Admin returns the current profile, if any.
func (m *Manager) Admin() (*model.AdminProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == nil {
		return nil, false
	}
	copied := *m.admin
	return &copied, true
}

// SetAdmin persists and adopts the profile.
func (m *Manager) SetAdmin(ctx context.Context, admin model.AdminProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.persist(ctx, keyAdmin, admin); err != nil {
		return err
	}
	m.admin = &admin
	return nil
}

// ── timetable & history ──

// ActiveTimetable returns the current slots.
func (m *Manager) ActiveTimetable() []model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Slot(nil), m.timetable...)
}

// History returns the bounded newest-first history.
func (m *Manager) History() []model.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.HistoryEntry(nil), m.history...)
}

// CommitGeneration adopts a freshly generated timetable and its history
// entry in one mutation. The in-memory state changes only when both durable
// writes succeed, so a failure leaves the previous good timetable being
// served. The store itself is not transactional: if the history write fails
// after the timetable write, the store holds the new timetable with the
// previous history until the next successful commit.
func (m *Manager) CommitGeneration(ctx context.Context, slots []model.Slot, entry model.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newHistory := model.PushHistory(m.history, entry, m.capacity)

	if err := m.persist(ctx, keyTimetable, slots); err != nil {
		return err
	}
	if err := m.persist(ctx, keyHistory, newHistory); err != nil {
		return err
	}
	m.timetable = slots
	m.history = newHistory
	return nil
}

// SetActiveTimetable persists and adopts slots without touching history
// (used when restoring a history entry).
func (m *Manager) SetActiveTimetable(ctx context.Context, slots []model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.persist(ctx, keyTimetable, slots); err != nil {
		return err
	}
	m.timetable = slots
	return nil
}

// DeleteHistory removes one entry by id.
func (m *Manager) DeleteHistory(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]model.HistoryEntry, 0, len(m.history))
	found := false
	for _, h := range m.history {
		if h.ID == id {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return false, nil
	}
	if err := m.persist(ctx, keyHistory, kept); err != nil {
		return false, err
	}
	m.history = kept
	return true, nil
}

// ClearHistory removes all entries.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, m.key(keyHistory)); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	m.history = nil
	return nil
}

// ── token ──

// Tokens exposes the volatile store (the upstream client consumes it as a
// TokenSource).
func (m *Manager) Tokens() *TokenStore {
	return m.tokens
}

// Authenticated reports whether a live token is held.
func (m *Manager) Authenticated() bool {
	_, ok := m.tokens.Token()
	return ok
}

// ── transient flags ──

// SetLoading flips the loading flag the UI surfaces during sync stages.
func (m *Manager) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = loading
}

// SetError records a surfaced, dismissible error message.
func (m *Manager) SetError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = msg
}

// ClearError dismisses the surfaced error.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = ""
}

// SetUnallocated records the partial-result warning subjects.
func (m *Manager) SetUnallocated(subjects []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unallocated = append([]string(nil), subjects...)
}

// ClearUnallocated dismisses the partial-result warning.
func (m *Manager) ClearUnallocated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unallocated = nil
}

// State snapshots the full session view for the UI.
func (m *Manager) State() model.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := model.SessionState{
		ActiveTimetable: append([]model.Slot(nil), m.timetable...),
		History:         append([]model.HistoryEntry(nil), m.history...),
		Loading:         m.loading,
		Error:           m.lastError,
		Unallocated:     append([]string(nil), m.unallocated...),
	}
	if m.admin != nil {
		copied := *m.admin
		state.Admin = &copied
	}
	_, state.Authenticated = m.tokens.Token()
	return state
}

func (m *Manager) persist(ctx context.Context, name string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", name, err)
	}
	if err := m.store.Set(ctx, m.key(name), raw); err != nil {
		return fmt.Errorf("persisting %s: %w", name, err)
	}
	return nil
}
