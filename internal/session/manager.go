package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/core/tables"
	"github.com/JonMunkholm/admindash/internal/telemetry"
)

// SourceProvider returns the loader for a table.
type SourceProvider interface {
	For(def core.TableDefinition) core.RecordSource
}

// ProviderFunc adapts a function to SourceProvider.
type ProviderFunc func(def core.TableDefinition) core.RecordSource

// For calls f.
func (f ProviderFunc) For(def core.TableDefinition) core.RecordSource {
	return f(def)
}

// Options configures a Manager. Zero values use the defaults noted.
type Options struct {
	TTL           time.Duration     // Idle lifetime (default: 30m)
	SweepInterval time.Duration     // Janitor period (default: 1m)
	MaxSessions   int               // Live session cap (default: 1000)
	LoadTimeout   time.Duration     // Per-mount load bound (default: 15s)
	Limiter       *core.LoadLimiter // Shared across sessions; nil disables limiting
	Logger        *slog.Logger
	Now           func() time.Time
}

// Manager creates, finds and expires sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	sources SourceProvider
	opts    Options
	logger  *slog.Logger
}

// NewManager creates a manager loading tables through sources.
func NewManager(sources SourceProvider, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 1000
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 15 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Manager{
		sessions: make(map[string]*Session),
		sources:  sources,
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Create starts a new session, evicting the least recently used one when
// the cap is reached.
func (m *Manager) Create() *Session {
	now := m.opts.Now()
	s := newSession(uuid.NewString(), now)

	m.mu.Lock()
	var evicted *Session
	if len(m.sessions) >= m.opts.MaxSessions {
		evicted = m.oldestLocked()
		if evicted != nil {
			delete(m.sessions, evicted.id)
		}
	}
	m.sessions[s.id] = s
	m.mu.Unlock()

	if evicted != nil {
		n := evicted.unmountAll()
		m.logger.Info("session evicted", "session_id", evicted.id, "tables", n)
	}
	m.logger.Debug("session created", "session_id", s.id)
	return s
}

func (m *Manager) oldestLocked() *Session {
	var oldest *Session
	for _, s := range m.sessions {
		if oldest == nil || s.LastSeen().Before(oldest.LastSeen()) {
			oldest = s
		}
	}
	return oldest
}

// Get returns a live session and marks it seen. Unknown, malformed and
// expired ids return ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.ErrSessionNotFound
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}

	now := m.opts.Now()
	if now.Sub(s.LastSeen()) > m.opts.TTL {
		m.remove(s)
		return nil, core.ErrSessionNotFound
	}
	s.touch(now)
	return s, nil
}

// GetOrCreate returns the session for id, creating a new one when it is
// unknown or expired. created reports which happened.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s, false
		}
	}
	return m.Create(), true
}

// Delete ends a session and unmounts its tables.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		m.remove(s)
	}
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	if cur, ok := m.sessions[s.id]; ok && cur == s {
		delete(m.sessions, s.id)
	}
	m.mu.Unlock()
	s.unmountAll()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many.
func (m *Manager) Sweep() int {
	now := m.opts.Now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.opts.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.unmountAll()
	}
	return len(expired)
}

// StartJanitor sweeps expired sessions every SweepInterval until ctx is
// cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	m.logger.Info("session janitor started",
		"ttl", m.opts.TTL,
		"interval", m.opts.SweepInterval,
	)

	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired sessions swept",
					"sessions", n,
					"remaining", m.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

// Close unmounts every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.unmountAll()
	}
}

// Table returns the session's instance of the table named key, mounting it
// on first use.
func (m *Manager) Table(ctx context.Context, s *Session, key string) (*core.Table, error) {
	if t, ok := s.mounted(key); ok {
		return t, nil
	}

	def, err := core.Lookup(key)
	if err != nil {
		return nil, err
	}

	s.mountMu.Lock()
	defer s.mountMu.Unlock()

	// Another request may have mounted it while we waited.
	if t, ok := s.mounted(key); ok {
		return t, nil
	}

	ctx, span := telemetry.Tracer().Start(ctx, "session.mount")
	span.SetAttributes(attribute.String("table", key))
	defer span.End()

	src := m.sources.For(def)
	if m.opts.Limiter != nil {
		src = m.opts.Limiter.Wrap(src)
	}

	loadCtx, cancel := context.WithTimeout(ctx, m.opts.LoadTimeout)
	defer cancel()

	t := core.NewTable(def, m.logger.With("session_id", s.id))
	if err := t.Mount(loadCtx, src); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mount failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", t.Len()))

	s.mu.Lock()
	s.tables[key] = t
	s.mu.Unlock()

	return t, nil
}

// Analytics mounts the tables the analytics page reads and computes its
// cards. A table that fails to load counts as empty.
func (m *Manager) Analytics(ctx context.Context, s *Session) []tables.StatCard {
	rows := make(map[string][]core.Record)
	for _, key := range tables.AnalyticsKeys() {
		t, err := m.Table(ctx, s, key)
		if err != nil {
			m.logger.Warn("analytics table unavailable",
				"session_id", s.id,
				"table", key,
				"error", err,
			)
			continue
		}
		rows[key] = t.Records()
	}
	return tables.Analytics(rows)
}

// Counts returns the row count of every registered table for the session,
// mounting as needed. Tables that fail to load are omitted.
func (m *Manager) Counts(ctx context.Context, s *Session) map[string]int {
	counts := make(map[string]int)
	for _, def := range core.All() {
		t, err := m.Table(ctx, s, def.Info.Key)
		if err != nil {
			m.logger.Warn("table unavailable",
				"session_id", s.id,
				"table", def.Info.Key,
				"error", err,
			)
			continue
		}
		counts[def.Info.Key] = t.Len()
	}
	return counts
}

// Limiter returns the shared load limiter, or nil when loads are unbounded.
func (m *Manager) Limiter() *core.LoadLimiter {
	return m.opts.Limiter
}
