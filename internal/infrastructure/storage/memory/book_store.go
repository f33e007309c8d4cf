// Package memory holds the process-lifetime stores backing the domain
// repositories. All state is discarded at process exit.
//
// The stores copy records on every boundary crossing: reads hand out
// detached copies and writes store a copy of the caller's record. A
// caller can never observe or cause a mutation through a previously
// returned pointer.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"circulation-engine/internal/domain/book"
)

type BookStore struct {
	mu     sync.RWMutex
	books  map[int64]*book.Book
	logger *slog.Logger
}

var _ book.Repository = (*BookStore)(nil)

func NewBookStore(logger *slog.Logger) *BookStore {
	return &BookStore{
		books:  make(map[int64]*book.Book),
		logger: logger.With(slog.String("component", "bookStore")),
	}
}

func cloneBook(b *book.Book) *book.Book {
	cp := *b
	return &cp
}

// Save inserts a new record. Book IDs are caller-assigned, so an
// occupied ID is always a rejection; updates go through Update.
func (s *BookStore) Save(ctx context.Context, b *book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[b.ID]; ok {
		s.logger.WarnContext(ctx, "Rejected save with duplicate book ID", slog.Int64("bookID", b.ID))
		return book.ErrDuplicateID
	}
	s.books[b.ID] = cloneBook(b)
	return nil
}

func (s *BookStore) Update(ctx context.Context, b *book.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[b.ID]; !ok {
		s.logger.WarnContext(ctx, "Rejected update for unknown book ID", slog.Int64("bookID", b.ID))
		return book.ErrNotFound
	}
	s.books[b.ID] = cloneBook(b)
	return nil
}

func (s *BookStore) FindByID(ctx context.Context, bookID int64) (*book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[bookID]
	if !ok {
		return nil, book.ErrNotFound
	}
	return cloneBook(b), nil
}

func (s *BookStore) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.sortedLocked() {
		if b.ISBN == isbn {
			return cloneBook(b), nil
		}
	}
	return nil, book.ErrNotFound
}

// FindByTitle is a case-insensitive, trimmed exact match; titles are
// not unique, the lowest-ID match wins.
func (s *BookStore) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return nil, book.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.sortedLocked() {
		if strings.ToLower(strings.TrimSpace(b.Title)) == key {
			return cloneBook(b), nil
		}
	}
	return nil, book.ErrNotFound
}

func (s *BookStore) FindAll(ctx context.Context) ([]*book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.sortedLocked()
	out := make([]*book.Book, 0, len(stored))
	for _, b := range stored {
		out = append(out, cloneBook(b))
	}
	return out, nil
}

func (s *BookStore) Delete(ctx context.Context, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[bookID]; !ok {
		s.logger.WarnContext(ctx, "Delete requested for unknown book ID", slog.Int64("bookID", bookID))
		return book.ErrNotFound
	}
	delete(s.books, bookID)
	return nil
}

func (s *BookStore) SetStatus(ctx context.Context, bookID int64, status book.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookID]
	if !ok {
		return book.ErrNotFound
	}
	b.SetStatus(status)
	return nil
}

func (s *BookStore) sortedLocked() []*book.Book {
	out := make([]*book.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
