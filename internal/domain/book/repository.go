package book

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("book not found")

	ErrDuplicateID = errors.New("book ID already in use")
)

type Repository interface {
	// Save inserts a new record; an occupied ID is ErrDuplicateID.
	Save(ctx context.Context, b *Book) error

	// Update replaces an existing record; a missing ID is ErrNotFound.
	Update(ctx context.Context, b *Book) error

	FindByID(ctx context.Context, bookID int64) (*Book, error)

	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	FindByTitle(ctx context.Context, title string) (*Book, error)

	FindAll(ctx context.Context) ([]*Book, error)

	Delete(ctx context.Context, bookID int64) error

	SetStatus(ctx context.Context, bookID int64, status Status) error
}
