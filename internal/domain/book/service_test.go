package book_test

import (
	"circulation-engine/internal/domain/book"
	"circulation-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTest() (*book.MockRepository, book.CatalogService) {
	mockRepo := new(book.MockRepository)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := book.NewCatalogService(mockRepo, logger)
	return mockRepo, service
}

func TestCatalogService_AddBook(t *testing.T) {
	ctx := context.Background()
	cost := decimal.NewFromFloat(12.50)

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()

		mockRepo.On("Save", ctx, mock.MatchedBy(func(b *book.Book) bool {
			return b.ID == 42 &&
				b.Title == "Moby Dick" &&
				b.Author == "Herman Melville" &&
				b.ISBN == "1503280780" &&
				b.Cost.Equal(cost) &&
				b.Status == book.StatusAvailable
		})).Return(nil).Once()

		b, err := service.AddBook(ctx, 42, "Moby Dick", "Herman Melville", "1503280780", cost)

		assert.NoError(t, err)
		assert.NotNil(t, b)
		assert.Equal(t, int64(42), b.ID)
		assert.Equal(t, book.StatusAvailable, b.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Non-Positive ID", func(t *testing.T) {
		mockRepo, service := setupTest()

		_, err := service.AddBook(ctx, 0, "Moby Dick", "Herman Melville", "1503280780", cost)

		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Negative Cost", func(t *testing.T) {
		mockRepo, service := setupTest()

		_, err := service.AddBook(ctx, 42, "Moby Dick", "Herman Melville", "1503280780", decimal.NewFromFloat(-1))

		assert.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error - Duplicate ID", func(t *testing.T) {
		mockRepo, service := setupTest()

		mockRepo.On("Save", ctx, mock.AnythingOfType("*book.Book")).Return(book.ErrDuplicateID).Once()

		_, err := service.AddBook(ctx, 42, "Moby Dick", "Herman Melville", "1503280780", cost)

		assert.ErrorIs(t, err, book.ErrDuplicateID)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_GetBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		expected := &book.Book{ID: 7, Title: "Dune", Status: book.StatusAvailable}
		mockRepo.On("FindByID", ctx, int64(7)).Return(expected, nil).Once()

		b, err := service.GetBook(ctx, 7)

		assert.NoError(t, err)
		assert.Same(t, expected, b)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(99)).Return(nil, book.ErrNotFound).Once()

		_, err := service.GetBook(ctx, 99)

		assert.ErrorIs(t, err, book.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_FindBySecondaryKey(t *testing.T) {
	ctx := context.Background()

	t.Run("By ISBN", func(t *testing.T) {
		mockRepo, service := setupTest()
		expected := &book.Book{ID: 1, ISBN: "1503280780"}
		mockRepo.On("FindByISBN", ctx, "1503280780").Return(expected, nil).Once()

		b, err := service.FindByISBN(ctx, "1503280780")

		assert.NoError(t, err)
		assert.Same(t, expected, b)
		mockRepo.AssertExpectations(t)
	})

	t.Run("By Title Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("FindByTitle", ctx, "No Such Title").Return(nil, book.ErrNotFound).Once()

		_, err := service.FindByTitle(ctx, "No Such Title")

		assert.ErrorIs(t, err, book.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_UpdateDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		existing := &book.Book{ID: 3, Title: "Old", Author: "Old", ISBN: "0000000000", Status: book.StatusAvailable}
		newCost := decimal.NewFromFloat(9.99)

		mockRepo.On("FindByID", ctx, int64(3)).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, existing).Return(nil).Once()

		b, err := service.UpdateDetails(ctx, 3, "New Title", "New Author", "1111111111", newCost)

		assert.NoError(t, err)
		assert.Equal(t, "New Title", b.Title)
		assert.Equal(t, "New Author", b.Author)
		assert.Equal(t, "1111111111", b.ISBN)
		assert.True(t, newCost.Equal(b.Cost))
		assert.Equal(t, book.StatusAvailable, b.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Negative Cost", func(t *testing.T) {
		mockRepo, service := setupTest()

		_, err := service.UpdateDetails(ctx, 3, "T", "A", "1111111111", decimal.NewFromFloat(-5))

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("SetStatus", ctx, int64(5), book.StatusOnLoan).Return(nil).Once()

		err := service.SetStatus(ctx, 5, book.StatusOnLoan)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("SetStatus", ctx, int64(5), book.StatusLost).Return(book.ErrNotFound).Once()

		err := service.SetStatus(ctx, 5, book.StatusLost)

		assert.ErrorIs(t, err, book.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_RemoveBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Delete", ctx, int64(8)).Return(nil).Once()

		assert.NoError(t, service.RemoveBook(ctx, 8))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository Failure", func(t *testing.T) {
		mockRepo, service := setupTest()
		repoErr := errors.New("store corrupted")
		mockRepo.On("Delete", ctx, int64(8)).Return(repoErr).Once()

		err := service.RemoveBook(ctx, 8)

		assert.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
		mockRepo.AssertExpectations(t)
	})
}
