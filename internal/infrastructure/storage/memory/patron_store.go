package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"circulation-engine/internal/domain/patron"
)

type PatronStore struct {
	mu      sync.RWMutex
	patrons map[int64]*patron.Patron
	nextID  int64
	logger  *slog.Logger
}

var _ patron.Repository = (*PatronStore)(nil)

func NewPatronStore(logger *slog.Logger) *PatronStore {
	return &PatronStore{
		patrons: make(map[int64]*patron.Patron),
		nextID:  1,
		logger:  logger.With(slog.String("component", "patronStore")),
	}
}

func clonePatron(p *patron.Patron) *patron.Patron {
	cp := *p
	return &cp
}

// Save assigns the next sequence identifier on first save and stores a
// detached copy. The counter only moves forward; deleted identifiers
// are never reissued.
func (s *PatronStore) Save(ctx context.Context, p *patron.Patron) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextID
		s.nextID++
	}
	s.patrons[p.ID] = clonePatron(p)
	return nil
}

func (s *PatronStore) FindByID(ctx context.Context, patronID int64) (*patron.Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patrons[patronID]
	if !ok {
		return nil, patron.ErrNotFound
	}
	return clonePatron(p), nil
}

func (s *PatronStore) FindAll(ctx context.Context) ([]*patron.Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*patron.Patron, 0, len(s.patrons))
	for _, p := range s.patrons {
		out = append(out, clonePatron(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *PatronStore) Delete(ctx context.Context, patronID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patrons[patronID]; !ok {
		s.logger.WarnContext(ctx, "Delete requested for unknown patron ID", slog.Int64("patronID", patronID))
		return patron.ErrNotFound
	}
	delete(s.patrons, patronID)
	return nil
}
