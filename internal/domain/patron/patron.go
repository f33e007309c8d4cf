package patron

import (
	"time"

	"github.com/shopspring/decimal"
)

type Patron struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	FineBalance decimal.Decimal `json:"fineBalance"`
	OnLoanCount int             `json:"onLoanCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewPatron(name string) *Patron {
	now := time.Now()
	return &Patron{
		Name:        name,
		FineBalance: decimal.Zero,
		OnLoanCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Patron) HasOutstandingFines() bool {
	return p.FineBalance.IsPositive()
}

func (p *Patron) CanBorrow(maxLoans int) bool {
	return p.OnLoanCount < maxLoans
}

func (p *Patron) AddLoan() {
	p.OnLoanCount++
	p.UpdatedAt = time.Now()
}

// RemoveLoan never takes the counter below zero.
func (p *Patron) RemoveLoan() {
	if p.OnLoanCount > 0 {
		p.OnLoanCount--
		p.UpdatedAt = time.Now()
	}
}

func (p *Patron) AssessFine(amount decimal.Decimal) {
	if amount.IsPositive() {
		p.FineBalance = p.FineBalance.Add(amount)
		p.UpdatedAt = time.Now()
	}
}

// ApplyPayment reduces the fine balance, clamping at zero.
func (p *Patron) ApplyPayment(amount decimal.Decimal) {
	newBalance := p.FineBalance.Sub(amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}
	p.FineBalance = newBalance
	p.UpdatedAt = time.Now()
}
