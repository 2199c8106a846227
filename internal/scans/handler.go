package scans

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/imaging"
	"github.com/vantrel/medscan/pkg/handlers"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/routes"
)

// Handler serves the scan HTTP surface.
type Handler struct {
	scans         System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates the scan handler.
func NewHandler(scans System, logger *slog.Logger, paging pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		scans:         scans,
		logger:        logger.With("handler", "scans"),
		pagination:    paging,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the scan route group, mounted under /scans.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/scans",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Upload},
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodPost, Pattern: "/search", Handler: h.Search},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodDelete, Pattern: "/{id}", Handler: h.Remove},
			{Method: http.MethodGet, Pattern: "/{id}/frames/{index}", Handler: h.RenderFrame},
		},
	}
}

// Upload ingests a multipart upload under the "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, fmt.Errorf("read upload: %w", err))
		return
	}

	scan, err := h.scans.Create(r.Context(), CreateCommand{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, scan)
}

// List serves paged scans from URL query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.scans.List(r.Context(), req, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search serves paged scans from a JSON request body.
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

	result, err := h.scans.List(r.Context(), body.PageRequest, body.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find serves a single scan by ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid scan id: %w", err))
		return
	}

	scan, err := h.scans.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, scan)
}

// Remove deletes a scan and its stored bytes.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid scan id: %w", err))
		return
	}

	if err := h.scans.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RenderFrame serves one normalized frame of a scan as PNG.
func (h *Handler) RenderFrame(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid scan id: %w", err))
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid frame index: %w", err))
		return
	}

	seq, err := h.scans.Frames(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	frame, err := seq.Frame(index)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	png, err := imaging.EncodePNG(frame)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
