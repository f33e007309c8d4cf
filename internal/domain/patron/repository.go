package patron

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("patron not found")

	ErrAmbiguousMatch = errors.New("patron name matched multiple records")
)

// AmbiguousMatchError carries the candidate set so the caller can
// re-prompt for an identifier instead of guessing.
type AmbiguousMatchError struct {
	Query      string
	Candidates []*Patron
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("patron name %q matched %d records, disambiguate by ID", e.Query, len(e.Candidates))
}

func (e *AmbiguousMatchError) Unwrap() error {
	return ErrAmbiguousMatch
}

// Repository assigns sequence identifiers on first Save, starting at 1.
// Identifiers are never reclaimed, even after Delete.
type Repository interface {
	Save(ctx context.Context, p *Patron) error

	FindByID(ctx context.Context, patronID int64) (*Patron, error)

	FindAll(ctx context.Context) ([]*Patron, error)

	Delete(ctx context.Context, patronID int64) error
}
