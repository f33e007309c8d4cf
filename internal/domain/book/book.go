package book

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOnLoan    Status = "ON_LOAN"
	StatusLost      Status = "LOST"
)

type Book struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	ISBN      string          `json:"isbn"`
	Cost      decimal.Decimal `json:"cost"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewBook(id int64, title, author, isbn string, cost decimal.Decimal) *Book {
	now := time.Now()
	return &Book{
		ID:        id,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Cost:      cost,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Book) SetStatus(status Status) {
	if b.Status != status {
		b.Status = status
		b.UpdatedAt = time.Now()
	}
}

func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable
}
