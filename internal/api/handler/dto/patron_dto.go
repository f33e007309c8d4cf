package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"circulation-engine/internal/domain/patron"

	"github.com/shopspring/decimal"
)

type RegisterPatronRequest struct {
	Name string `json:"name"`
}

func (r *RegisterPatronRequest) Validate() error {
	if !isAlphaSpace(strings.TrimSpace(r.Name)) {
		return fmt.Errorf("name must contain letters and spaces only")
	}
	return nil
}

type UpdatePatronNameRequest struct {
	Name string `json:"name"`
}

func (r *UpdatePatronNameRequest) Validate() error {
	if !isAlphaSpace(strings.TrimSpace(r.Name)) {
		return fmt.Errorf("name must contain letters and spaces only")
	}
	return nil
}

type PayFineRequest struct {
	Amount string `json:"amount"`
}

func (r *PayFineRequest) Validate() error {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil || amount.IsNegative() {
		return fmt.Errorf("amount must be a non-negative decimal")
	}
	return nil
}

type PatronResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FineBalance string    `json:"fineBalance"`
	OnLoanCount int       `json:"onLoanCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewPatronResponse(p *patron.Patron) PatronResponse {
	if p == nil {
		return PatronResponse{}
	}
	return PatronResponse{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Name,
		FineBalance: p.FineBalance.StringFixed(2),
		OnLoanCount: p.OnLoanCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// AmbiguousMatchResponse is returned when a name search matches more
// than one patron at the winning tier; the client retries by ID.
type AmbiguousMatchResponse struct {
	Message    string           `json:"message"`
	Candidates []PatronResponse `json:"candidates"`
}

func NewAmbiguousMatchResponse(e *patron.AmbiguousMatchError) AmbiguousMatchResponse {
	resp := AmbiguousMatchResponse{
		Message:    e.Error(),
		Candidates: make([]PatronResponse, len(e.Candidates)),
	}
	for i, c := range e.Candidates {
		resp.Candidates[i] = NewPatronResponse(c)
	}
	return resp
}
