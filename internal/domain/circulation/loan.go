package circulation

import (
	"time"
)

const secondsPerDay = 24 * 60 * 60

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusOverdue  Status = "OVERDUE"
	StatusReturned Status = "RETURNED"
)

type Loan struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"bookId"`
	PatronID  int64     `json:"patronId"`
	DueDate   time.Time `json:"dueDate"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewLoan(bookID, patronID int64, dueDate time.Time) *Loan {
	now := time.Now()
	return &Loan{
		BookID:    bookID,
		PatronID:  patronID,
		DueDate:   dueDate,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOpen reports whether the loan still binds the book to the patron.
func (l *Loan) IsOpen() bool {
	return l.Status == StatusActive || l.Status == StatusOverdue
}

func (l *Loan) MarkOverdue() {
	if l.Status == StatusActive {
		l.Status = StatusOverdue
		l.UpdatedAt = time.Now()
	}
}

func (l *Loan) ExtendTo(dueDate time.Time) {
	l.DueDate = dueDate
	l.UpdatedAt = time.Now()
}

func (l *Loan) IsOverdueAt(ref time.Time) bool {
	return DaysUntilDue(l.DueDate, ref) < 0
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntilDue compares two dates at day granularity: both are reduced
// to day instants, subtracted, and the difference divided by
// seconds-per-day truncating toward zero. Negative means the due date
// lies before the reference date, i.e. the loan is overdue.
func DaysUntilDue(due, ref time.Time) int {
	diff := truncateToDay(due).Unix() - truncateToDay(ref).Unix()
	return int(diff / secondsPerDay)
}
