package patron

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPatron(t *testing.T) {
	p := NewPatron("Ada Lovelace")

	assert.Equal(t, int64(0), p.ID)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.True(t, p.FineBalance.IsZero())
	assert.Equal(t, 0, p.OnLoanCount)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestPatron_CanBorrow(t *testing.T) {
	p := NewPatron("Ada Lovelace")

	assert.True(t, p.CanBorrow(5))

	p.OnLoanCount = 4
	assert.True(t, p.CanBorrow(5))

	p.OnLoanCount = 5
	assert.False(t, p.CanBorrow(5))

	p.OnLoanCount = 6
	assert.False(t, p.CanBorrow(5))
}

func TestPatron_LoanCounter(t *testing.T) {
	p := NewPatron("Ada Lovelace")

	p.AddLoan()
	p.AddLoan()
	assert.Equal(t, 2, p.OnLoanCount)

	p.RemoveLoan()
	assert.Equal(t, 1, p.OnLoanCount)

	p.RemoveLoan()
	p.RemoveLoan()
	assert.Equal(t, 0, p.OnLoanCount, "counter never goes below zero")
}

func TestPatron_Fines(t *testing.T) {
	t.Run("assess accumulates", func(t *testing.T) {
		p := NewPatron("Ada Lovelace")

		p.AssessFine(decimal.NewFromFloat(10.50))
		p.AssessFine(decimal.NewFromFloat(4.50))

		assert.True(t, p.FineBalance.Equal(decimal.NewFromFloat(15.00)))
		assert.True(t, p.HasOutstandingFines())
	})

	t.Run("non-positive assessment is a no-op", func(t *testing.T) {
		p := NewPatron("Ada Lovelace")

		p.AssessFine(decimal.Zero)
		p.AssessFine(decimal.NewFromFloat(-3))

		assert.True(t, p.FineBalance.IsZero())
		assert.False(t, p.HasOutstandingFines())
	})

	t.Run("payment reduces balance", func(t *testing.T) {
		p := NewPatron("Ada Lovelace")
		p.AssessFine(decimal.NewFromFloat(10))

		p.ApplyPayment(decimal.NewFromFloat(4))

		assert.True(t, p.FineBalance.Equal(decimal.NewFromFloat(6)))
	})

	t.Run("overpayment clamps at zero", func(t *testing.T) {
		p := NewPatron("Ada Lovelace")
		p.AssessFine(decimal.NewFromFloat(10))

		p.ApplyPayment(decimal.NewFromFloat(25))

		assert.True(t, p.FineBalance.IsZero())
		assert.False(t, p.HasOutstandingFines())
	})
}
