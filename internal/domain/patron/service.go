package patron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"circulation-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type RegistryService interface {
	Register(ctx context.Context, name string) (*Patron, error)
	GetPatron(ctx context.Context, patronID int64) (*Patron, error)
	FindByName(ctx context.Context, query string) (*Patron, error)
	ListPatrons(ctx context.Context) ([]*Patron, error)
	UpdateName(ctx context.Context, patronID int64, newName string) error
	PayFine(ctx context.Context, patronID int64, amount decimal.Decimal) (*Patron, error)
	AssessFine(ctx context.Context, patronID int64, amount decimal.Decimal) error
	IncrementLoanCount(ctx context.Context, patronID int64) error
	DecrementLoanCount(ctx context.Context, patronID int64) error
	DeletePatron(ctx context.Context, patronID int64) error
}

var _ RegistryService = (*registryService)(nil)

type registryService struct {
	repo   Repository
	logger *slog.Logger
}

func NewRegistryService(repo Repository, logger *slog.Logger) RegistryService {
	if repo == nil {
		panic("patron repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewRegistryService, using default stderr handler")
	}

	return &registryService{
		repo:   repo,
		logger: logger.With(slog.String("component", "registryService")),
	}
}

func (s *registryService) Register(ctx context.Context, name string) (*Patron, error) {
	s.logger.InfoContext(ctx, "Attempting to register new patron")

	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, fmt.Errorf("%w: patron name cannot be empty", apperrors.ErrInvalidArgument)
	}

	p := NewPatron(name)
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new patron", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new patron: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully registered patron", slog.Int64("patronID", p.ID))
	return p, nil
}

func (s *registryService) GetPatron(ctx context.Context, patronID int64) (*Patron, error) {
	p, err := s.repo.FindByID(ctx, patronID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository", slog.Int64("patronID", patronID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding patron", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get patron %d: %w", patronID, err)
	}
	return p, nil
}

// FindByName runs the tiered resolver over the full registry. An
// empty or whitespace-only query resolves to not-found without a scan.
func (s *registryService) FindByName(ctx context.Context, query string) (*Patron, error) {
	s.logger.InfoContext(ctx, "Attempting to resolve patron by name")

	if strings.TrimSpace(query) == "" {
		s.logger.WarnContext(ctx, "Empty name query, resolving to not-found")
		return nil, ErrNotFound
	}

	patrons, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing patrons for name search", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search patrons by name: %w", err)
	}

	res := ResolveByName(query, patrons)
	switch res.Outcome {
	case ResolutionFound:
		s.logger.InfoContext(ctx, "Resolved patron by name", slog.Int64("patronID", res.Patron.ID))
		return res.Patron, nil
	case ResolutionAmbiguous:
		s.logger.WarnContext(ctx, "Name query is ambiguous", slog.Int("candidates", len(res.Candidates)))
		return nil, &AmbiguousMatchError{Query: query, Candidates: res.Candidates}
	default:
		s.logger.WarnContext(ctx, "No patron matched name query")
		return nil, ErrNotFound
	}
}

func (s *registryService) ListPatrons(ctx context.Context) ([]*Patron, error) {
	patrons, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing patrons", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list patrons: %w", err)
	}
	s.logger.InfoContext(ctx, "Successfully listed patrons", slog.Int("count", len(patrons)))
	return patrons, nil
}

func (s *registryService) UpdateName(ctx context.Context, patronID int64, newName string) error {
	s.logger.InfoContext(ctx, "Attempting to update patron name", slog.Int64("patronID", patronID))

	newName = strings.TrimSpace(newName)
	if newName == "" {
		s.logger.WarnContext(ctx, "Validation failed: new name is empty")
		return fmt.Errorf("%w: new name cannot be empty", apperrors.ErrInvalidArgument)
	}

	p, err := s.repo.FindByID(ctx, patronID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository for rename", slog.Int64("patronID", patronID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding patron for rename", slog.Any("error", err))
		return fmt.Errorf("cannot find patron %d to rename: %w", patronID, err)
	}

	if p.Name == newName {
		s.logger.InfoContext(ctx, "No name change needed, skipping save")
		return nil
	}
	p.Name = newName

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save renamed patron", slog.Any("error", err))
		return fmt.Errorf("failed to save new name for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Successfully updated patron name", slog.Int64("patronID", patronID))
	return nil
}

func (s *registryService) PayFine(ctx context.Context, patronID int64, amount decimal.Decimal) (*Patron, error) {
	s.logger.InfoContext(ctx, "Attempting to apply fine payment", slog.Int64("patronID", patronID))

	if amount.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: payment amount is negative")
		return nil, fmt.Errorf("%w: payment amount cannot be negative", apperrors.ErrInvalidAmount)
	}

	p, err := s.repo.FindByID(ctx, patronID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository for payment", slog.Int64("patronID", patronID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding patron for payment", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find patron %d to apply payment: %w", patronID, err)
	}

	p.ApplyPayment(amount)

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save payment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save payment for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Successfully applied fine payment",
		slog.Int64("patronID", patronID), slog.String("newBalance", p.FineBalance.StringFixed(2)))
	return p, nil
}

func (s *registryService) AssessFine(ctx context.Context, patronID int64, amount decimal.Decimal) error {
	s.logger.InfoContext(ctx, "Attempting to assess fine", slog.Int64("patronID", patronID))

	if amount.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: fine amount is negative")
		return fmt.Errorf("%w: fine amount cannot be negative", apperrors.ErrInvalidAmount)
	}

	p, err := s.repo.FindByID(ctx, patronID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository for fine assessment", slog.Int64("patronID", patronID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding patron for fine assessment", slog.Any("error", err))
		return fmt.Errorf("cannot find patron %d to assess fine: %w", patronID, err)
	}

	p.AssessFine(amount)

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save assessed fine", slog.Any("error", err))
		return fmt.Errorf("failed to save assessed fine for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Successfully assessed fine", slog.Int64("patronID", patronID))
	return nil
}

func (s *registryService) IncrementLoanCount(ctx context.Context, patronID int64) error {
	return s.adjustLoanCount(ctx, patronID, true)
}

func (s *registryService) DecrementLoanCount(ctx context.Context, patronID int64) error {
	return s.adjustLoanCount(ctx, patronID, false)
}

func (s *registryService) adjustLoanCount(ctx context.Context, patronID int64, increment bool) error {
	p, err := s.repo.FindByID(ctx, patronID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository for loan count change", slog.Int64("patronID", patronID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding patron for loan count change", slog.Any("error", err))
		return fmt.Errorf("cannot find patron %d to adjust loan count: %w", patronID, err)
	}

	if increment {
		p.AddLoan()
	} else {
		p.RemoveLoan()
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save loan count change", slog.Any("error", err))
		return fmt.Errorf("failed to save loan count for patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Adjusted patron loan count",
		slog.Int64("patronID", patronID), slog.Int("onLoanCount", p.OnLoanCount))
	return nil
}

func (s *registryService) DeletePatron(ctx context.Context, patronID int64) error {
	s.logger.InfoContext(ctx, "Attempting to delete patron", slog.Int64("patronID", patronID))

	if err := s.repo.Delete(ctx, patronID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Patron not found by repository for deletion", slog.Int64("patronID", patronID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error deleting patron", slog.Any("error", err))
		return fmt.Errorf("failed to delete patron %d: %w", patronID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deleted patron", slog.Int64("patronID", patronID))
	return nil
}
