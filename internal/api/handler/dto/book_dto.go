package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"circulation-engine/internal/domain/book"

	"github.com/shopspring/decimal"
)

// The HTTP boundary is where field validation lives; the domain
// services trust values that pass these checks.

func isAlphaSpace(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return hasLetter
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type CreateBookRequest struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Cost   string `json:"cost"`
}

func (r *CreateBookRequest) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("id must be a positive integer")
	}
	if !isAlphaSpace(strings.TrimSpace(r.Title)) {
		return fmt.Errorf("title must contain letters and spaces only")
	}
	if !isAlphaSpace(strings.TrimSpace(r.Author)) {
		return fmt.Errorf("author must contain letters and spaces only")
	}
	if !isTenDigits(r.ISBN) {
		return fmt.Errorf("isbn must be exactly 10 digits")
	}
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil || cost.IsNegative() {
		return fmt.Errorf("cost must be a non-negative decimal")
	}
	return nil
}

type UpdateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Cost   string `json:"cost"`
}

func (r *UpdateBookRequest) Validate() error {
	if !isAlphaSpace(strings.TrimSpace(r.Title)) {
		return fmt.Errorf("title must contain letters and spaces only")
	}
	if !isAlphaSpace(strings.TrimSpace(r.Author)) {
		return fmt.Errorf("author must contain letters and spaces only")
	}
	if !isTenDigits(r.ISBN) {
		return fmt.Errorf("isbn must be exactly 10 digits")
	}
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil || cost.IsNegative() {
		return fmt.Errorf("cost must be a non-negative decimal")
	}
	return nil
}

type BookResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Cost      string    `json:"cost"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewBookResponse(b *book.Book) BookResponse {
	if b == nil {
		return BookResponse{}
	}
	return BookResponse{
		ID:        strconv.FormatInt(b.ID, 10),
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Cost:      b.Cost.StringFixed(2),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
