package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"circulation-engine/internal/api/handler/dto"
	"circulation-engine/internal/domain/patron"
	"circulation-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type PatronHandler struct {
	registry patron.RegistryService
	logger   *slog.Logger
}

func NewPatronHandler(registry patron.RegistryService, l *slog.Logger) *PatronHandler {
	return &PatronHandler{
		registry: registry,
		logger:   l.With("component", "PatronHandler"),
	}
}

func (h *PatronHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatronRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	p, err := h.registry.Register(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPatronResponse(p))
}

func (h *PatronHandler) GetPatron(w http.ResponseWriter, r *http.Request) {
	patronID, err := idFromURL(r, "patronID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	p, err := h.registry.GetPatron(r.Context(), patronID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPatronResponse(p))
}

// SearchByName resolves a name query through the tiered resolver. An
// ambiguous result comes back as 409 with the candidate set.
func (h *PatronHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("name")
	if query == "" {
		respondError(w, fmt.Errorf("%w: name query parameter is required", apperrors.ErrInvalidArgument))
		return
	}

	p, err := h.registry.FindByName(r.Context(), query)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPatronResponse(p))
}

func (h *PatronHandler) ListPatrons(w http.ResponseWriter, r *http.Request) {
	patrons, err := h.registry.ListPatrons(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.PatronResponse, len(patrons))
	for i, p := range patrons {
		resp[i] = dto.NewPatronResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *PatronHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	patronID, err := idFromURL(r, "patronID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdatePatronNameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.registry.UpdateName(r.Context(), patronID, req.Name); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "name updated"})
}

func (h *PatronHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	patronID, err := idFromURL(r, "patronID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.PayFineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err))
		return
	}

	amount, _ := decimal.NewFromString(req.Amount)
	p, err := h.registry.PayFine(r.Context(), patronID, amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPatronResponse(p))
}

func (h *PatronHandler) DeletePatron(w http.ResponseWriter, r *http.Request) {
	patronID, err := idFromURL(r, "patronID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.registry.DeletePatron(r.Context(), patronID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
