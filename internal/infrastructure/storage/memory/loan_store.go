package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"circulation-engine/internal/domain/circulation"
)

type LoanStore struct {
	mu     sync.RWMutex
	loans  map[int64]*circulation.Loan
	nextID int64
	logger *slog.Logger
}

var _ circulation.Repository = (*LoanStore)(nil)

func NewLoanStore(logger *slog.Logger) *LoanStore {
	return &LoanStore{
		loans:  make(map[int64]*circulation.Loan),
		nextID: 1,
		logger: logger.With(slog.String("component", "loanStore")),
	}
}

func cloneLoan(l *circulation.Loan) *circulation.Loan {
	cp := *l
	return &cp
}

// Save assigns the next sequence identifier on first save and stores a
// detached copy; a re-save with an assigned identifier replaces the
// stored record.
func (s *LoanStore) Save(ctx context.Context, l *circulation.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == 0 {
		l.ID = s.nextID
		s.nextID++
	}
	s.loans[l.ID] = cloneLoan(l)
	return nil
}

func (s *LoanStore) FindByID(ctx context.Context, loanID int64) (*circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.loans[loanID]
	if !ok {
		return nil, circulation.ErrLoanNotFound
	}
	return cloneLoan(l), nil
}

func (s *LoanStore) FindOpenByPatronAndBook(ctx context.Context, patronID, bookID int64) (*circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.sortedLocked() {
		if l.PatronID == patronID && l.BookID == bookID && l.IsOpen() {
			return cloneLoan(l), nil
		}
	}
	return nil, circulation.ErrLoanNotFound
}

func (s *LoanStore) FindAnyByBook(ctx context.Context, bookID int64) (*circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.sortedLocked() {
		if l.BookID == bookID {
			return cloneLoan(l), nil
		}
	}
	return nil, circulation.ErrLoanNotFound
}

func (s *LoanStore) FindByPatron(ctx context.Context, patronID int64) ([]*circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*circulation.Loan, 0)
	for _, l := range s.sortedLocked() {
		if l.PatronID == patronID {
			out = append(out, cloneLoan(l))
		}
	}
	return out, nil
}

func (s *LoanStore) FindAll(ctx context.Context) ([]*circulation.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.sortedLocked()
	out := make([]*circulation.Loan, 0, len(stored))
	for _, l := range stored {
		out = append(out, cloneLoan(l))
	}
	return out, nil
}

func (s *LoanStore) Delete(ctx context.Context, loanID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[loanID]; !ok {
		s.logger.WarnContext(ctx, "Delete requested for unknown loan ID", slog.Int64("loanID", loanID))
		return circulation.ErrLoanNotFound
	}
	delete(s.loans, loanID)
	return nil
}

func (s *LoanStore) sortedLocked() []*circulation.Loan {
	out := make([]*circulation.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
