package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"circulation-engine/internal/api/handler/dto"
	"circulation-engine/internal/domain/book"
	"circulation-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type BookHandler struct {
	catalog book.CatalogService
	logger  *slog.Logger
}

func NewBookHandler(catalog book.CatalogService, l *slog.Logger) *BookHandler {
	return &BookHandler{
		catalog: catalog,
		logger:  l.With("component", "BookHandler"),
	}
}

func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	cost, _ := decimal.NewFromString(req.Cost)
	b, err := h.catalog.AddBook(r.Context(), req.ID, req.Title, req.Author, req.ISBN, cost)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewBookResponse(b))
}

// GetBook looks a book up by ID, or by ISBN or title when the
// corresponding query parameter is present on the collection route.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := idFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	b, err := h.catalog.GetBook(r.Context(), bookID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewBookResponse(b))
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if isbn := r.URL.Query().Get("isbn"); isbn != "" {
		b, err := h.catalog.FindByISBN(r.Context(), isbn)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, dto.NewBookResponse(b))
		return
	}
	if title := r.URL.Query().Get("title"); title != "" {
		b, err := h.catalog.FindByTitle(r.Context(), title)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, dto.NewBookResponse(b))
		return
	}

	books, err := h.catalog.ListBooks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.BookResponse, len(books))
	for i, b := range books {
		resp[i] = dto.NewBookResponse(b)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := idFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	cost, _ := decimal.NewFromString(req.Cost)
	b, err := h.catalog.UpdateDetails(r.Context(), bookID, req.Title, req.Author, req.ISBN, cost)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewBookResponse(b))
}

func (h *BookHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := idFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.catalog.RemoveBook(r.Context(), bookID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
