package dto

import (
	"fmt"
	"strconv"
	"time"

	"circulation-engine/internal/domain/circulation"
)

type CirculationRequest struct {
	PatronID int64 `json:"patronId"`
	BookID   int64 `json:"bookId"`
}

func (r *CirculationRequest) Validate() error {
	if r.PatronID <= 0 {
		return fmt.Errorf("patronId must be a positive number")
	}
	if r.BookID <= 0 {
		return fmt.Errorf("bookId must be a positive number")
	}
	return nil
}

type LoanResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	PatronID  string    `json:"patronId"`
	DueDate   string    `json:"dueDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewLoanResponse(l *circulation.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		ID:        strconv.FormatInt(l.ID, 10),
		BookID:    strconv.FormatInt(l.BookID, 10),
		PatronID:  strconv.FormatInt(l.PatronID, 10),
		DueDate:   l.DueDate.Format(time.RFC3339[:10]),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type LoanRecordResponse struct {
	LoanID      string `json:"loanId"`
	BookID      string `json:"bookId"`
	BookTitle   string `json:"bookTitle"`
	PatronID    string `json:"patronId"`
	PatronName  string `json:"patronName"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	DaysOverdue int    `json:"daysOverdue"`
}

func NewLoanRecordResponse(rec circulation.LoanRecord) LoanRecordResponse {
	return LoanRecordResponse{
		LoanID:      strconv.FormatInt(rec.LoanID, 10),
		BookID:      strconv.FormatInt(rec.BookID, 10),
		BookTitle:   rec.BookTitle,
		PatronID:    strconv.FormatInt(rec.PatronID, 10),
		PatronName:  rec.PatronName,
		DueDate:     rec.DueDate.Format(time.RFC3339[:10]),
		Status:      string(rec.Status),
		DaysOverdue: rec.DaysOverdue,
	}
}

func NewLoanRecordListResponse(records []circulation.LoanRecord) []LoanRecordResponse {
	out := make([]LoanRecordResponse, len(records))
	for i, rec := range records {
		out[i] = NewLoanRecordResponse(rec)
	}
	return out
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
