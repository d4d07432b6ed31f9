// Package session owns the table instances of each browser session.
//
// A session is created on first visit and identified by a random UUID held
// in a cookie. Tables are mounted lazily the first time a page needs them
// and stay mounted, with their view state and row order, until the session
// expires. Sessions never share table instances.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/admindash/internal/core"
)

// Settings is the profile and preference form on the settings page.
// It lives only as long as the session.
type Settings struct {
	Name               string
	Email              string
	DarkMode           bool
	EmailNotifications bool
	TwoFactor          bool
	LoginAlerts        bool
}

// DefaultSettings returns the initial form state.
func DefaultSettings() Settings {
	return Settings{
		Name:               "Admin User",
		Email:              "admin@example.com",
		EmailNotifications: true,
		LoginAlerts:        true,
	}
}

// Session holds one visitor's mounted tables.
type Session struct {
	id      string
	created time.Time

	// mountMu serializes lazy mounts so concurrent requests load a table once.
	mountMu sync.Mutex

	mu       sync.Mutex
	tables   map[string]*core.Table
	settings Settings
	user     string
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:       id,
		created:  now,
		tables:   make(map[string]*core.Table),
		settings: DefaultSettings(),
		lastSeen: now,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Created returns when the session started.
func (s *Session) Created() time.Time {
	return s.created
}

// LastSeen returns the time of the last request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Settings returns the current settings form state.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings replaces the settings form state.
func (s *Session) SaveSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// User returns the email the session logged in with, or "".
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser records a successful login.
func (s *Session) SetUser(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = email
}

// MountedTables returns the keys of mounted tables, sorted.
func (s *Session) MountedTables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.tables))
	for k, t := range s.tables {
		if t.Mounted() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// mounted returns the table for key if it is mounted.
func (s *Session) mounted(key string) (*core.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[key]
	if !ok || !t.Mounted() {
		return nil, false
	}
	return t, true
}

// unmountAll discards every table.
func (s *Session) unmountAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, t := range s.tables {
		if t.Mounted() {
			n++
		}
		t.Unmount()
		delete(s.tables, k)
	}
	return n
}
