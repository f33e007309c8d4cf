package circulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"circulation-engine/internal/config"
	"circulation-engine/internal/domain/book"
	"circulation-engine/internal/domain/patron"
	"circulation-engine/internal/infrastructure/monitoring"
)

const (
	DefaultLoanPeriodDays    = 7
	DefaultMaxLoansPerPatron = 5
)

// LoanRecord is a Loan joined with the book and patron fields a
// reporting layer needs; the ledger never hands out raw references
// across the API boundary.
type LoanRecord struct {
	LoanID      int64     `json:"loanId"`
	BookID      int64     `json:"bookId"`
	BookTitle   string    `json:"bookTitle"`
	PatronID    int64     `json:"patronId"`
	PatronName  string    `json:"patronName"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	DaysOverdue int       `json:"daysOverdue"`
}

type LedgerService interface {
	CheckOut(ctx context.Context, patronID, bookID int64) (*Loan, error)

	CheckIn(ctx context.Context, patronID, bookID int64) error

	ReportLost(ctx context.Context, patronID, bookID int64) error

	ExtendDueDate(ctx context.Context, patronID, bookID int64) (*Loan, error)

	RefreshLoanStatuses(ctx context.Context) (int, error)

	ListOverdue(ctx context.Context) ([]LoanRecord, error)

	ListCheckedOut(ctx context.Context) ([]LoanRecord, error)

	ListForPatron(ctx context.Context, patronID int64) ([]LoanRecord, error)
}

var _ LedgerService = (*ledgerService)(nil)

type ledgerService struct {
	loans    Repository
	catalog  book.CatalogService
	registry patron.RegistryService
	logger   *slog.Logger

	loanPeriodDays int
	maxLoans       int

	// Every operation is one logical transaction touching a book, a
	// patron and the loan set; a ledger-wide lock keeps the invariants
	// observable under concurrent callers.
	mu sync.Mutex

	now func() time.Time
}

func NewLedgerService(loans Repository, catalog book.CatalogService, registry patron.RegistryService, cfg config.CirculationConfig, logger *slog.Logger) LedgerService {
	if loans == nil || catalog == nil || registry == nil {
		panic("ledger service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLedgerService, using default stderr handler")
	}

	periodDays := cfg.LoanPeriodDays
	if periodDays <= 0 {
		periodDays = DefaultLoanPeriodDays
	}
	maxLoans := cfg.MaxLoansPerPatron
	if maxLoans <= 0 {
		maxLoans = DefaultMaxLoansPerPatron
	}

	return &ledgerService{
		loans:          loans,
		catalog:        catalog,
		registry:       registry,
		logger:         logger.With(slog.String("component", "ledgerService")),
		loanPeriodDays: periodDays,
		maxLoans:       maxLoans,
		now:            time.Now,
	}
}

func (s *ledgerService) dueDateFrom(ref time.Time) time.Time {
	return truncateToDay(ref).AddDate(0, 0, s.loanPeriodDays)
}

func (s *ledgerService) CheckOut(ctx context.Context, patronID, bookID int64) (loan *Loan, err error) {
	s.logger.InfoContext(ctx, "Attempting checkout", slog.Int64("patronID", patronID), slog.Int64("bookID", bookID))

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		status := "success"
		switch {
		case errors.Is(err, ErrLoanLimitReached):
			status = "failure_limit"
		case errors.Is(err, ErrOutstandingFines):
			status = "failure_fines"
		case errors.Is(err, ErrBookUnavailable):
			status = "failure_unavailable"
		case err != nil:
			status = "failure_internal"
		}
		monitoring.RecordCheckout(status)
	}()

	p, err := s.registry.GetPatron(ctx, patronID)
	if err != nil {
		s.logger.WarnContext(ctx, "Checkout failed: patron lookup", slog.Any("error", err))
		return nil, err
	}

	// Eligibility checks run in contract order; the first failure wins
	// and nothing is mutated.
	if !p.CanBorrow(s.maxLoans) {
		s.logger.WarnContext(ctx, "Checkout rejected: loan limit reached",
			slog.Int64("patronID", patronID), slog.Int("onLoanCount", p.OnLoanCount))
		return nil, fmt.Errorf("%w: patron %d already has %d loans", ErrLoanLimitReached, patronID, p.OnLoanCount)
	}
	if p.HasOutstandingFines() {
		s.logger.WarnContext(ctx, "Checkout rejected: outstanding fines",
			slog.Int64("patronID", patronID), slog.String("fineBalance", p.FineBalance.StringFixed(2)))
		return nil, fmt.Errorf("%w: patron %d owes %s", ErrOutstandingFines, patronID, p.FineBalance.StringFixed(2))
	}

	b, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		s.logger.WarnContext(ctx, "Checkout failed: book lookup", slog.Any("error", err))
		return nil, err
	}
	if !b.IsAvailable() {
		s.logger.WarnContext(ctx, "Checkout rejected: book not available",
			slog.Int64("bookID", bookID), slog.String("status", string(b.Status)))
		return nil, fmt.Errorf("%w: book %d is %s", ErrBookUnavailable, bookID, b.Status)
	}

	loan = NewLoan(bookID, patronID, s.dueDateFrom(s.now()))
	if err = s.loans.Save(ctx, loan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save new loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new loan: %w", err)
	}

	if err = s.catalog.SetStatus(ctx, bookID, book.StatusOnLoan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark book on loan, undoing loan record", slog.Any("error", err))
		_ = s.loans.Delete(ctx, loan.ID)
		return nil, fmt.Errorf("failed to mark book %d on loan: %w", bookID, err)
	}

	if err = s.registry.IncrementLoanCount(ctx, patronID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to increment patron loan count, undoing checkout", slog.Any("error", err))
		_ = s.catalog.SetStatus(ctx, bookID, book.StatusAvailable)
		_ = s.loans.Delete(ctx, loan.ID)
		return nil, fmt.Errorf("failed to increment loan count for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Checkout completed",
		slog.Int64("loanID", loan.ID), slog.Time("dueDate", loan.DueDate))
	return loan, nil
}

func (s *ledgerService) CheckIn(ctx context.Context, patronID, bookID int64) (err error) {
	s.logger.InfoContext(ctx, "Attempting checkin", slog.Int64("patronID", patronID), slog.Int64("bookID", bookID))

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		monitoring.RecordCheckin(status)
	}()

	if _, err = s.registry.GetPatron(ctx, patronID); err != nil {
		s.logger.WarnContext(ctx, "Checkin failed: patron lookup", slog.Any("error", err))
		return err
	}
	if _, err = s.catalog.GetBook(ctx, bookID); err != nil {
		s.logger.WarnContext(ctx, "Checkin failed: book lookup", slog.Any("error", err))
		return err
	}

	loan, err := s.loans.FindOpenByPatronAndBook(ctx, patronID, bookID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			s.logger.WarnContext(ctx, "Checkin rejected: no open loan for pair")
			return ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding loan for checkin", slog.Any("error", err))
		return fmt.Errorf("failed to find loan for patron %d and book %d: %w", patronID, bookID, err)
	}

	if err = s.loans.Delete(ctx, loan.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove loan record", slog.Any("error", err))
		return fmt.Errorf("failed to remove loan %d: %w", loan.ID, err)
	}
	if err = s.catalog.SetStatus(ctx, bookID, book.StatusAvailable); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark book available", slog.Any("error", err))
		return fmt.Errorf("failed to mark book %d available: %w", bookID, err)
	}
	if err = s.registry.DecrementLoanCount(ctx, patronID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decrement patron loan count", slog.Any("error", err))
		return fmt.Errorf("failed to decrement loan count for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Checkin completed", slog.Int64("loanID", loan.ID))
	return nil
}

// ReportLost closes the loan in addition to marking the book LOST: an
// open loan on a book that is no longer ON_LOAN would break the
// one-open-loan invariant. The book's acquisition cost is charged to
// the patron as a replacement fine.
func (s *ledgerService) ReportLost(ctx context.Context, patronID, bookID int64) (err error) {
	s.logger.InfoContext(ctx, "Attempting lost report", slog.Int64("patronID", patronID), slog.Int64("bookID", bookID))

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		monitoring.RecordLostReport(status)
	}()

	if _, err = s.registry.GetPatron(ctx, patronID); err != nil {
		s.logger.WarnContext(ctx, "Lost report failed: patron lookup", slog.Any("error", err))
		return err
	}
	b, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		s.logger.WarnContext(ctx, "Lost report failed: book lookup", slog.Any("error", err))
		return err
	}

	loan, err := s.loans.FindAnyByBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			s.logger.WarnContext(ctx, "Lost report rejected: no loan references the book")
			return ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding loan for lost report", slog.Any("error", err))
		return fmt.Errorf("failed to find loan for book %d: %w", bookID, err)
	}

	if err = s.catalog.SetStatus(ctx, bookID, book.StatusLost); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark book lost", slog.Any("error", err))
		return fmt.Errorf("failed to mark book %d lost: %w", bookID, err)
	}

	if loan.IsOpen() {
		if err = s.loans.Delete(ctx, loan.ID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to remove loan record for lost book", slog.Any("error", err))
			return fmt.Errorf("failed to remove loan %d: %w", loan.ID, err)
		}
		if err = s.registry.DecrementLoanCount(ctx, loan.PatronID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to decrement patron loan count for lost book", slog.Any("error", err))
			return fmt.Errorf("failed to decrement loan count for patron %d: %w", loan.PatronID, err)
		}
	}

	if err = s.registry.AssessFine(ctx, loan.PatronID, b.Cost); err != nil {
		s.logger.ErrorContext(ctx, "Failed to assess replacement fine", slog.Any("error", err))
		return fmt.Errorf("failed to assess replacement fine for patron %d: %w", loan.PatronID, err)
	}

	s.logger.InfoContext(ctx, "Lost report completed",
		slog.Int64("loanID", loan.ID), slog.String("replacementFine", b.Cost.StringFixed(2)))
	return nil
}

// ExtendDueDate sets the due date to today plus the loan period,
// relative to now rather than additive to the prior due date.
func (s *ledgerService) ExtendDueDate(ctx context.Context, patronID, bookID int64) (*Loan, error) {
	s.logger.InfoContext(ctx, "Attempting due date extension", slog.Int64("patronID", patronID), slog.Int64("bookID", bookID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.GetPatron(ctx, patronID); err != nil {
		s.logger.WarnContext(ctx, "Extension failed: patron lookup", slog.Any("error", err))
		return nil, err
	}
	if _, err := s.catalog.GetBook(ctx, bookID); err != nil {
		s.logger.WarnContext(ctx, "Extension failed: book lookup", slog.Any("error", err))
		return nil, err
	}

	loan, err := s.loans.FindOpenByPatronAndBook(ctx, patronID, bookID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			s.logger.WarnContext(ctx, "Extension rejected: no open loan for pair")
			return nil, ErrLoanNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding loan for extension", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find loan for patron %d and book %d: %w", patronID, bookID, err)
	}

	loan.ExtendTo(s.dueDateFrom(s.now()))
	if err := s.loans.Save(ctx, loan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save extended loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save extended loan %d: %w", loan.ID, err)
	}

	s.logger.InfoContext(ctx, "Due date extended",
		slog.Int64("loanID", loan.ID), slog.Time("dueDate", loan.DueDate))
	return loan, nil
}

// RefreshLoanStatuses sweeps all loans and flips ACTIVE loans whose
// due date lies strictly before today to OVERDUE. The sweep is
// idempotent and monotonic; only a checkin removes an overdue loan.
func (s *ledgerService) RefreshLoanStatuses(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *ledgerService) refreshLocked(ctx context.Context) (int, error) {
	loans, err := s.loans.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing loans for status sweep", slog.Any("error", err))
		return 0, fmt.Errorf("failed to list loans for status sweep: %w", err)
	}

	today := s.now()
	transitioned := 0
	overdueTotal := 0
	for _, l := range loans {
		if l.Status == StatusActive && l.IsOverdueAt(today) {
			l.MarkOverdue()
			if err := s.loans.Save(ctx, l); err != nil {
				s.logger.ErrorContext(ctx, "Failed to save overdue transition", slog.Int64("loanID", l.ID), slog.Any("error", err))
				return transitioned, fmt.Errorf("failed to save overdue transition for loan %d: %w", l.ID, err)
			}
			transitioned++
		}
		if l.Status == StatusOverdue {
			overdueTotal++
		}
	}

	monitoring.RecordSweep(transitioned, overdueTotal)
	s.logger.InfoContext(ctx, "Loan status sweep completed",
		slog.Int("transitioned", transitioned), slog.Int("overdueTotal", overdueTotal))
	return transitioned, nil
}

// The listing queries treat the stored status as the single source of
// truth, refreshed by an implicit sweep at the top of each call.

func (s *ledgerService) ListOverdue(ctx context.Context) ([]LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	loans, err := s.loans.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	records := make([]LoanRecord, 0)
	for _, l := range loans {
		if l.Status == StatusOverdue {
			records = append(records, s.buildRecord(ctx, l))
		}
	}
	return records, nil
}

func (s *ledgerService) ListCheckedOut(ctx context.Context) ([]LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	loans, err := s.loans.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	records := make([]LoanRecord, 0)
	for _, l := range loans {
		if l.IsOpen() {
			records = append(records, s.buildRecord(ctx, l))
		}
	}
	return records, nil
}

func (s *ledgerService) ListForPatron(ctx context.Context, patronID int64) ([]LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.GetPatron(ctx, patronID); err != nil {
		s.logger.WarnContext(ctx, "Patron listing failed: patron lookup", slog.Any("error", err))
		return nil, err
	}

	if _, err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	loans, err := s.loans.FindByPatron(ctx, patronID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for patron %d: %w", patronID, err)
	}

	records := make([]LoanRecord, 0)
	for _, l := range loans {
		if l.IsOpen() {
			records = append(records, s.buildRecord(ctx, l))
		}
	}
	return records, nil
}

func (s *ledgerService) buildRecord(ctx context.Context, l *Loan) LoanRecord {
	rec := LoanRecord{
		LoanID:     l.ID,
		BookID:     l.BookID,
		BookTitle:  "<unknown>",
		PatronID:   l.PatronID,
		PatronName: "<unknown>",
		DueDate:    l.DueDate,
		Status:     l.Status,
	}

	if b, err := s.catalog.GetBook(ctx, l.BookID); err == nil {
		rec.BookTitle = b.Title
	}
	if p, err := s.registry.GetPatron(ctx, l.PatronID); err == nil {
		rec.PatronName = p.Name
	}
	if days := DaysUntilDue(l.DueDate, s.now()); days < 0 {
		rec.DaysOverdue = -days
	}
	return rec
}
