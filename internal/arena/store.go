package arena

import (
	"context"
	"sync"

	"github.com/ahrav/pitch-arena/internal/domain"
	"github.com/ahrav/pitch-arena/internal/ports"
)

// Compile-time verification that InMemoryStore implements TournamentStore.
var _ ports.TournamentStore = (*InMemoryStore)(nil)

// InMemoryStore keeps tournament snapshots in process memory, preserving
// insertion order for listing. It is the default store behind the
// manager; nothing survives a restart.
type InMemoryStore struct {
	mu          sync.RWMutex
	tournaments map[string]*domain.Tournament
	order       []string
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tournaments: make(map[string]*domain.Tournament)}
}

// Put stores or replaces a tournament snapshot.
func (s *InMemoryStore) Put(ctx context.Context, t *domain.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tournaments[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.tournaments[t.ID] = t
	return nil
}

// Get returns the tournament with the given id, or nil when absent.
func (s *InMemoryStore) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tournaments[id], nil
}

// List returns all stored tournaments in insertion order.
func (s *InMemoryStore) List(ctx context.Context) ([]*domain.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Tournament, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tournaments[id])
	}
	return out, nil
}
