package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/bryanwahyu/secscan-dashboard/internal/application"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/session"
)

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 5 * time.Minute

type entry struct {
	state   domain.State
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Reads and writes slide the
// expiry forward.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[domain.ID]*entry
	ttl     time.Duration
	clock   application.Clock
}

func NewMemoryStore(ttl time.Duration, clock application.Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &MemoryStore{entries: make(map[domain.ID]*entry), ttl: ttl, clock: clock}
}

func (m *MemoryStore) Get(_ context.Context, id domain.ID) (*domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !now.Before(e.expires) {
		delete(m.entries, id)
		return nil, domain.ErrNotFound
	}
	e.expires = now.Add(m.ttl)
	return clone(&e.state), nil
}

func (m *MemoryStore) Save(_ context.Context, s *domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = &entry{state: *clone(s), expires: m.clock.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id domain.ID) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len counts live and not yet purged sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Purge drops expired sessions and returns how many were removed.
func (m *MemoryStore) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	n := 0
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Purge()
		}
	}
}

func clone(s *domain.State) *domain.State {
	c := *s
	c.Values = maps.Clone(s.Values)
	if c.Values == nil {
		c.Values = map[string]string{}
	}
	return &c
}
