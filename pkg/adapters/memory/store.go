package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// Store implements ports.RunResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.RunRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunRecord),
	}
}

func clone(rec *domain.RunRecord) *domain.RunRecord {
	c := *rec
	c.Result.Tape.Cells = append([]domain.Symbol(nil), rec.Result.Tape.Cells...)
	return &c
}

// Save stores a copy of the record.
func (s *Store) Save(ctx context.Context, rec *domain.RunRecord) error {
	c := clone(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = c
	return nil
}

// Load returns a copy so callers cannot mutate the stored record.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return clone(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored run IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
