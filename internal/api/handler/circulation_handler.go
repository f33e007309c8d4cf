package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"circulation-engine/internal/api/handler/dto"
	"circulation-engine/internal/domain/book"
	"circulation-engine/internal/domain/circulation"
	"circulation-engine/internal/domain/patron"
	"circulation-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CirculationHandler struct {
	ledger circulation.LedgerService
	logger *slog.Logger
}

func NewCirculationHandler(ledger circulation.LedgerService, l *slog.Logger) *CirculationHandler {
	return &CirculationHandler{
		ledger: ledger,
		logger: l.With("component", "CirculationHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var ambiguousErr *patron.AmbiguousMatchError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &ambiguousErr):
		respondJSON(w, http.StatusConflict, dto.NewAmbiguousMatchResponse(ambiguousErr))
		return
	case errors.Is(err, book.ErrNotFound), errors.Is(err, patron.ErrNotFound),
		errors.Is(err, circulation.ErrLoanNotFound), errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, circulation.ErrLoanLimitReached), errors.Is(err, circulation.ErrOutstandingFines),
		errors.Is(err, circulation.ErrBookUnavailable):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, book.ErrDuplicateID):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func idFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%s not found in URL path", param)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// CheckOut creates a loan for a patron and a book, enforcing the loan
// limit, the zero-fines rule and book availability, in that order.
func (h *CirculationHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req dto.CirculationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	loan, err := h.ledger.CheckOut(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

func (h *CirculationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CirculationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.ledger.CheckIn(r.Context(), req.PatronID, req.BookID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "checked in"})
}

func (h *CirculationHandler) ReportLost(w http.ResponseWriter, r *http.Request) {
	var req dto.CirculationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.ledger.ReportLost(r.Context(), req.PatronID, req.BookID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "reported lost"})
}

func (h *CirculationHandler) ExtendDueDate(w http.ResponseWriter, r *http.Request) {
	var req dto.CirculationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	loan, err := h.ledger.ExtendDueDate(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

func (h *CirculationHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListOverdue(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanRecordListResponse(records))
}

func (h *CirculationHandler) ListCheckedOut(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListCheckedOut(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanRecordListResponse(records))
}

func (h *CirculationHandler) ListForPatron(w http.ResponseWriter, r *http.Request) {
	patronID, err := idFromURL(r, "patronID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	records, err := h.ledger.ListForPatron(r.Context(), patronID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanRecordListResponse(records))
}
