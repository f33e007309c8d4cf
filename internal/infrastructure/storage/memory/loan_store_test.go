package memory_test

import (
	"circulation-engine/internal/domain/circulation"
	"circulation-engine/internal/infrastructure/storage/memory"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanStore() *memory.LoanStore {
	return memory.NewLoanStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func due(daysFromNow int) time.Time {
	return time.Now().AddDate(0, 0, daysFromNow)
}

func TestLoanStore_SaveAssignsSequenceIDs(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	first := circulation.NewLoan(1, 1, due(7))
	second := circulation.NewLoan(2, 1, due(7))
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	require.NoError(t, store.Delete(ctx, second.ID))
	third := circulation.NewLoan(3, 1, due(7))
	require.NoError(t, store.Save(ctx, third))
	assert.Equal(t, int64(3), third.ID, "loan IDs are never reused")
}

func TestLoanStore_FindOpenByPatronAndBook(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	l := circulation.NewLoan(10, 5, due(7))
	require.NoError(t, store.Save(ctx, l))

	t.Run("active loan matches", func(t *testing.T) {
		got, err := store.FindOpenByPatronAndBook(ctx, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, l.ID, got.ID)
	})

	t.Run("overdue loan still matches", func(t *testing.T) {
		l.MarkOverdue()
		require.NoError(t, store.Save(ctx, l))

		got, err := store.FindOpenByPatronAndBook(ctx, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, l.ID, got.ID)
		assert.Equal(t, circulation.StatusOverdue, got.Status)
	})

	t.Run("wrong pair does not match", func(t *testing.T) {
		_, err := store.FindOpenByPatronAndBook(ctx, 5, 11)
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)

		_, err = store.FindOpenByPatronAndBook(ctx, 6, 10)
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
	})

	t.Run("returned loan is not open", func(t *testing.T) {
		l.Status = circulation.StatusReturned
		require.NoError(t, store.Save(ctx, l))

		_, err := store.FindOpenByPatronAndBook(ctx, 5, 10)
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
	})
}

func TestLoanStore_FindAnyByBook(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	closed := circulation.NewLoan(10, 5, due(7))
	closed.Status = circulation.StatusReturned
	require.NoError(t, store.Save(ctx, closed))

	t.Run("matches regardless of status", func(t *testing.T) {
		got, err := store.FindAnyByBook(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, closed.ID, got.ID)
	})

	t.Run("lowest loan ID wins", func(t *testing.T) {
		later := circulation.NewLoan(10, 6, due(7))
		require.NoError(t, store.Save(ctx, later))

		got, err := store.FindAnyByBook(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, closed.ID, got.ID)
	})

	t.Run("no loan references the book", func(t *testing.T) {
		_, err := store.FindAnyByBook(ctx, 99)
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
	})
}

func TestLoanStore_FindByPatron(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	require.NoError(t, store.Save(ctx, circulation.NewLoan(1, 5, due(7))))
	require.NoError(t, store.Save(ctx, circulation.NewLoan(2, 6, due(7))))
	require.NoError(t, store.Save(ctx, circulation.NewLoan(3, 5, due(7))))

	loans, err := store.FindByPatron(ctx, 5)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, int64(1), loans[0].ID)
	assert.Equal(t, int64(3), loans[1].ID)

	loans, err = store.FindByPatron(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

// A status change on a fetched loan must not reach the store until it
// is written back through Save.
func TestLoanStore_ReadsAreDetached(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	l := circulation.NewLoan(10, 5, due(-1))
	require.NoError(t, store.Save(ctx, l))

	fetched, err := store.FindByID(ctx, l.ID)
	require.NoError(t, err)
	fetched.MarkOverdue()

	stored, err := store.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusActive, stored.Status)

	require.NoError(t, store.Save(ctx, fetched))
	stored, err = store.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.StatusOverdue, stored.Status)
}

func TestLoanStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newLoanStore()

	l := circulation.NewLoan(1, 1, due(7))
	require.NoError(t, store.Save(ctx, l))

	require.NoError(t, store.Delete(ctx, l.ID))
	_, err := store.FindByID(ctx, l.ID)
	assert.ErrorIs(t, err, circulation.ErrLoanNotFound)

	assert.ErrorIs(t, store.Delete(ctx, l.ID), circulation.ErrLoanNotFound)
}
