package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"circulation-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CatalogService interface {
	AddBook(ctx context.Context, id int64, title, author, isbn string, cost decimal.Decimal) (*Book, error)
	GetBook(ctx context.Context, bookID int64) (*Book, error)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	FindByTitle(ctx context.Context, title string) (*Book, error)
	ListBooks(ctx context.Context) ([]*Book, error)
	UpdateDetails(ctx context.Context, bookID int64, title, author, isbn string, cost decimal.Decimal) (*Book, error)
	SetStatus(ctx context.Context, bookID int64, status Status) error
	RemoveBook(ctx context.Context, bookID int64) error
}

var _ CatalogService = (*catalogService)(nil)

type catalogService struct {
	repo   Repository
	logger *slog.Logger
}

func NewCatalogService(repo Repository, logger *slog.Logger) CatalogService {
	if repo == nil {
		panic("book repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCatalogService, using default stderr handler")
	}

	return &catalogService{
		repo:   repo,
		logger: logger.With(slog.String("component", "catalogService")),
	}
}

func (s *catalogService) AddBook(ctx context.Context, id int64, title, author, isbn string, cost decimal.Decimal) (*Book, error) {
	s.logger.InfoContext(ctx, "Attempting to add book", slog.Int64("bookID", id))

	if id <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: book ID must be positive")
		return nil, fmt.Errorf("%w: book ID must be a positive integer", apperrors.ErrInvalidArgument)
	}
	if cost.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: cost is negative")
		return nil, fmt.Errorf("%w: cost cannot be negative", apperrors.ErrInvalidAmount)
	}

	b := NewBook(id, title, author, isbn, cost)
	if err := s.repo.Save(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			s.logger.WarnContext(ctx, "Book ID already in use", slog.Int64("bookID", id))
			return nil, ErrDuplicateID
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new book: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully added book", slog.Int64("bookID", b.ID))
	return b, nil
}

func (s *catalogService) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by repository", slog.Int64("bookID", bookID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get book %d: %w", bookID, err)
	}
	return b, nil
}

func (s *catalogService) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	b, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by ISBN", slog.String("isbn", isbn))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding book by ISBN", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find book by ISBN %s: %w", isbn, err)
	}
	return b, nil
}

func (s *catalogService) FindByTitle(ctx context.Context, title string) (*Book, error) {
	b, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by title", slog.String("title", title))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding book by title", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find book by title %q: %w", title, err)
	}
	return b, nil
}

func (s *catalogService) ListBooks(ctx context.Context) ([]*Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing books", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	s.logger.InfoContext(ctx, "Successfully listed books", slog.Int("count", len(books)))
	return books, nil
}

func (s *catalogService) UpdateDetails(ctx context.Context, bookID int64, title, author, isbn string, cost decimal.Decimal) (*Book, error) {
	s.logger.InfoContext(ctx, "Attempting to update book details", slog.Int64("bookID", bookID))

	if cost.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: cost is negative")
		return nil, fmt.Errorf("%w: cost cannot be negative", apperrors.ErrInvalidAmount)
	}

	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by repository for update", slog.Int64("bookID", bookID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding book for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find book %d to update: %w", bookID, err)
	}

	b.Title = title
	b.Author = author
	b.ISBN = isbn
	b.Cost = cost

	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save updated book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save updated book %d: %w", bookID, err)
	}

	s.logger.InfoContext(ctx, "Successfully updated book details", slog.Int64("bookID", bookID))
	return b, nil
}

func (s *catalogService) SetStatus(ctx context.Context, bookID int64, status Status) error {
	s.logger.InfoContext(ctx, "Attempting to set book status", slog.Int64("bookID", bookID), slog.String("status", string(status)))

	if err := s.repo.SetStatus(ctx, bookID, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by repository for status change", slog.Int64("bookID", bookID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error setting book status", slog.Any("error", err))
		return fmt.Errorf("failed to set status for book %d: %w", bookID, err)
	}

	s.logger.InfoContext(ctx, "Successfully set book status", slog.Int64("bookID", bookID))
	return nil
}

func (s *catalogService) RemoveBook(ctx context.Context, bookID int64) error {
	s.logger.InfoContext(ctx, "Attempting to remove book", slog.Int64("bookID", bookID))

	if err := s.repo.Delete(ctx, bookID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found by repository for removal", slog.Int64("bookID", bookID))
			return ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error removing book", slog.Any("error", err))
		return fmt.Errorf("failed to remove book %d: %w", bookID, err)
	}

	s.logger.InfoContext(ctx, "Successfully removed book", slog.Int64("bookID", bookID))
	return nil
}
