package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/core/tables"
	"github.com/JonMunkholm/admindash/internal/logging"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func generated(loads *atomic.Int32) SourceProvider {
	return ProviderFunc(func(def core.TableDefinition) core.RecordSource {
		return core.SourceFunc(func(ctx context.Context) ([]core.Record, error) {
			if loads != nil {
				loads.Add(1)
			}
			return def.Generate(tables.NewRand(1)), nil
		})
	})
}

func newManager(t *testing.T, sources SourceProvider, c *clock) *Manager {
	t.Helper()
	return NewManager(sources, Options{
		TTL:         time.Minute,
		MaxSessions: 3,
		Logger:      logging.Discard(),
		Now:         c.Now,
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)

	s, created := m.GetOrCreate("")
	if !created {
		t.Fatal("GetOrCreate(\"\") created = false, want true")
	}

	again, created := m.GetOrCreate(s.ID())
	if created || again != s {
		t.Errorf("GetOrCreate(id) = (%p, %v), want existing session", again, created)
	}

	if _, created := m.GetOrCreate("not-a-uuid"); !created {
		t.Error("GetOrCreate(malformed) created = false, want true")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManager_Expiry(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)
	ctx := context.Background()

	s := m.Create()
	tbl, err := m.Table(ctx, s, "groups")
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	c.Advance(30 * time.Second)
	if _, err := m.Get(s.ID()); err != nil {
		t.Fatalf("Get() before TTL error = %v", err)
	}

	c.Advance(61 * time.Second)
	if _, err := m.Get(s.ID()); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("Get() after TTL error = %v, want ErrSessionNotFound", err)
	}
	if tbl.Mounted() {
		t.Error("table still mounted after session expired")
	}
}

func TestManager_Sweep(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)

	old := m.Create()
	c.Advance(45 * time.Second)
	fresh := m.Create()
	c.Advance(30 * time.Second)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, err := m.Get(old.ID()); err == nil {
		t.Error("old session survived sweep")
	}
	if _, err := m.Get(fresh.ID()); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)

	first := m.Create()
	c.Advance(time.Second)
	second := m.Create()
	c.Advance(time.Second)
	third := m.Create()
	c.Advance(time.Second)

	// Touch first so second becomes the oldest.
	if _, err := m.Get(first.ID()); err != nil {
		t.Fatal(err)
	}
	c.Advance(time.Second)
	m.Create()

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if _, err := m.Get(second.ID()); err == nil {
		t.Error("least recently used session was not evicted")
	}
	for _, s := range []*Session{first, third} {
		if _, err := m.Get(s.ID()); err != nil {
			t.Errorf("session %s evicted: %v", s.ID(), err)
		}
	}
}

func TestManager_TableMountsOnce(t *testing.T) {
	var loads atomic.Int32
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(&loads), c)
	s := m.Create()
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([]*core.Table, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, err := m.Table(ctx, s, "quizzes")
			if err != nil {
				t.Errorf("Table() error = %v", err)
				return
			}
			got[i] = tbl
		}(i)
	}
	wg.Wait()

	if n := loads.Load(); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatal("concurrent Table() calls returned different instances")
		}
	}
	if keys := s.MountedTables(); len(keys) != 1 || keys[0] != "quizzes" {
		t.Errorf("MountedTables() = %v, want [quizzes]", keys)
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)
	ctx := context.Background()

	a, b := m.Create(), m.Create()
	ta, _ := m.Table(ctx, a, "groups")
	tb, _ := m.Table(ctx, b, "groups")
	if ta == tb {
		t.Fatal("sessions share a table instance")
	}

	ids := ta.View().IDs()
	if _, err := ta.Reorder(ids[0], ids[2]); err != nil {
		t.Fatal(err)
	}
	if ta.View().IDs()[0] == tb.View().IDs()[0] {
		t.Error("reorder in one session changed the other")
	}
}

func TestManager_TableErrors(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	failing := ProviderFunc(func(core.TableDefinition) core.RecordSource {
		return core.SourceFunc(func(context.Context) ([]core.Record, error) {
			return nil, errors.New("connection refused")
		})
	})
	m := newManager(t, failing, c)
	s := m.Create()

	if _, err := m.Table(context.Background(), s, "nope"); !errors.Is(err, core.ErrUnknownTable) {
		t.Errorf("unknown table error = %v, want ErrUnknownTable", err)
	}

	_, err := m.Table(context.Background(), s, "groups")
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("failing source error = %v, want ErrSourceUnavailable", err)
	}
	if len(s.MountedTables()) != 0 {
		t.Error("failed mount left a table behind")
	}
}

func TestManager_LimiterBusy(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	limiter := core.NewLoadLimiter(1, 10*time.Millisecond)
	m := NewManager(generated(nil), Options{
		Limiter: limiter,
		Logger:  logging.Discard(),
		Now:     c.Now,
	})

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	_, err := m.Table(context.Background(), m.Create(), "groups")
	if !errors.Is(err, core.ErrLoadBusy) {
		t.Errorf("error = %v, want ErrLoadBusy", err)
	}
}

func TestManager_Analytics(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)
	s := m.Create()

	cards := map[string]string{}
	for _, card := range m.Analytics(context.Background(), s) {
		cards[card.Title] = card.Value
	}

	if cards["Total Users"] != "11" {
		t.Errorf("Total Users = %q, want 11", cards["Total Users"])
	}
	if cards["Total Groups"] != "15" {
		t.Errorf("Total Groups = %q, want 15", cards["Total Groups"])
	}
	if cards["Total Quiz"] != "25" {
		t.Errorf("Total Quiz = %q, want 25", cards["Total Quiz"])
	}
}

func TestManager_Counts(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := newManager(t, generated(nil), c)

	counts := m.Counts(context.Background(), m.Create())
	if counts["transactions"] != 20 {
		t.Errorf("transactions = %d, want 20", counts["transactions"])
	}
	if counts["admins"] != 2 {
		t.Errorf("admins = %d, want 2", counts["admins"])
	}
}

func TestManager_StartJanitor(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	m := NewManager(generated(nil), Options{
		TTL:           time.Minute,
		SweepInterval: 5 * time.Millisecond,
		Logger:        logging.Discard(),
		Now:           c.Now,
	})
	m.Create()
	c.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.StartJanitor(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if m.Len() != 0 {
		t.Errorf("Len() = %d after janitor, want 0", m.Len())
	}
}

func TestSettings(t *testing.T) {
	c := &clock{now: time.Unix(0, 0)}
	s := newManager(t, generated(nil), c).Create()

	got := s.Settings()
	if !got.EmailNotifications || got.DarkMode {
		t.Errorf("DefaultSettings() = %+v, want notifications on and dark mode off", got)
	}

	got.DarkMode = true
	got.Name = "Ada"
	s.SaveSettings(got)
	if s.Settings().Name != "Ada" || !s.Settings().DarkMode {
		t.Errorf("Settings() = %+v after save", s.Settings())
	}

	s.SetUser("ada@example.com")
	if s.User() != "ada@example.com" {
		t.Errorf("User() = %q", s.User())
	}
}
