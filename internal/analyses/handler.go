package analyses

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/pkg/handlers"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/routes"
)

// Handler serves the analysis HTTP surface.
type Handler struct {
	analyses   System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates the analysis handler.
func NewHandler(analyses System, logger *slog.Logger, paging pagination.Config) *Handler {
	return &Handler{
		analyses:   analyses,
		logger:     logger.With("handler", "analyses"),
		pagination: paging,
	}
}

// Routes returns the analysis route group, mounted under /analyses.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyses",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Run},
			{Method: http.MethodPost, Pattern: "/batch", Handler: h.RunBatch},
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodPost, Pattern: "/search", Handler: h.Search},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodDelete, Pattern: "/{id}", Handler: h.Remove},
		},
	}
}

// Run analyzes one frame. The category is rejected before anything else
// happens; a recorded fault still responds 201 because the record exists.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ScanID     uuid.UUID `json:"scan_id"`
		Category   string    `json:"category"`
		FrameIndex int       `json:"frame_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	category, err := inference.ParseCategory(body.Category)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	analysis, err := h.analyses.Run(r.Context(), RunCommand{
		ScanID:     body.ScanID,
		Category:   category,
		FrameIndex: body.FrameIndex,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, analysis)
}

// RunBatch analyzes every frame of a scan.
func (h *Handler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ScanID   uuid.UUID `json:"scan_id"`
		Category string    `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	category, err := inference.ParseCategory(body.Category)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	results, err := h.analyses.RunAll(r.Context(), BatchCommand{
		ScanID:   body.ScanID,
		Category: category,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, results)
}

// List serves paged analyses from URL query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.analyses.List(r.Context(), req, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search serves paged analyses from a JSON request body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var body struct {
		pagination.PageRequest
		Filters Filters `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid search body: %w", err))
		return
	}
	body.Normalize(h.pagination)

	result, err := h.analyses.List(r.Context(), body.PageRequest, body.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find serves a single analysis by ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid analysis id: %w", err))
		return
	}

	analysis, err := h.analyses.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, analysis)
}

// Remove deletes an analysis record.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid analysis id: %w", err))
		return
	}

	if err := h.analyses.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
