package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/metrics"
	"github.com/mmynk/storefront/internal/money"
	"github.com/mmynk/storefront/internal/order"
	"github.com/mmynk/storefront/internal/storage"
)

// Env holds what every session shares.
type Env struct {
	Storage   storage.Store
	Catalog   *catalog.Source
	Formatter *money.Formatter
	StoreName string
	Phone     string
	Policy    order.LinkPolicy
	Opener    checkout.Opener
	Metrics   *metrics.Metrics

	names *checkout.NameStore
	flow  *checkout.Flow
}

type entry struct {
	mu      sync.Mutex
	session *Session

	// refs and lastUsed are guarded by Manager.mu.
	refs     int
	lastUsed time.Time
}

// Manager owns the in-memory sessions and runs at most one request per
// session at a time. Different sessions proceed in parallel.
type Manager struct {
	env *Env
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager returns a Manager over env. Missing formatter and catalog fall
// back to the defaults.
func NewManager(env Env) *Manager {
	if env.Formatter == nil {
		env.Formatter = money.Default()
	}
	if env.Catalog == nil {
		env.Catalog = catalog.NewSource(catalog.Default())
	}
	env.names = checkout.NewNameStore(env.Storage)
	env.flow = &checkout.Flow{
		StoreName: env.StoreName,
		Phone:     env.Phone,
		Formatter: env.Formatter,
		Policy:    env.Policy,
		Names:     env.names,
		Opener:    env.Opener,
	}
	return &Manager{
		env:      &env,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Do runs fn with the session locked. The session is loaded from storage the
// first time it is used. A failed load is returned and not cached, so the
// next request for the session loads again.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(*Session) error) error {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{}
		m.sessions[sessionID] = e
		m.env.Metrics.SetActiveSessions(len(m.sessions))
	}
	e.refs++
	e.lastUsed = m.now()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		e.refs--
		e.lastUsed = m.now()
		m.mu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		s, err := newSession(ctx, sessionID, m.env)
		if err != nil {
			return err
		}
		e.session = s
	}
	return fn(e.session)
}

// Evict drops sessions idle since before cutoff. Sessions in use are kept.
// Their persisted state is untouched; the next request reloads it.
func (m *Manager) Evict(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, e := range m.sessions {
		if e.refs > 0 || !e.lastUsed.Before(cutoff) {
			continue
		}
		delete(m.sessions, id)
		n++
	}
	m.env.Metrics.SetActiveSessions(len(m.sessions))
	return n
}

// Len returns the number of cached sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Janitor evicts idle sessions every interval until ctx is done. When the
// storage backend can purge, sessions idle for longer than retain are also
// removed from storage.
func (m *Manager) Janitor(ctx context.Context, interval, idle, retain time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	purger, canPurge := m.env.Storage.(storage.Purger)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := m.now()
		if n := m.Evict(now.Add(-idle)); n > 0 {
			slog.Debug("Evicted idle sessions", "count", n)
		}
		if !canPurge || retain <= 0 {
			continue
		}
		n, err := purger.PurgeIdle(ctx, now.Add(-retain))
		if err != nil {
			slog.Warn("Failed to purge stored sessions", "error", err)
			continue
		}
		if n > 0 {
			slog.Info("Purged stored sessions", "count", n)
		}
	}
}
