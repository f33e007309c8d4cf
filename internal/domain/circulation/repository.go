package circulation

import (
	"context"
	"errors"
)

var (
	ErrLoanNotFound = errors.New("loan record not found")

	ErrLoanLimitReached = errors.New("patron has reached the loan limit")

	ErrOutstandingFines = errors.New("patron has outstanding fines")

	ErrBookUnavailable = errors.New("book is not available for checkout")
)

type Repository interface {
	Save(ctx context.Context, l *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	// FindOpenByPatronAndBook returns the ACTIVE or OVERDUE loan for the
	// pair; at most one should exist.
	FindOpenByPatronAndBook(ctx context.Context, patronID, bookID int64) (*Loan, error)

	// FindAnyByBook returns the first loan referencing the book,
	// regardless of status.
	FindAnyByBook(ctx context.Context, bookID int64) (*Loan, error)

	FindByPatron(ctx context.Context, patronID int64) ([]*Loan, error)

	FindAll(ctx context.Context) ([]*Loan, error)

	Delete(ctx context.Context, loanID int64) error
}
