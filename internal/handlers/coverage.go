package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"brilho-bknd/internal/models"
	"brilho-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CoverageHandler struct {
	service *services.CoverageService
	logr    *zap.Logger
}

func NewCoverageHandler(svc *services.CoverageService, logr *zap.Logger) *CoverageHandler {
	return &CoverageHandler{service: svc, logr: logr}
}

// GET /coverage/zones
func (h *CoverageHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := models.ZoneQueryParams{
		Statuses: splitCSV(q.Get("status")),
		Regions:  splitCSV(q.Get("region")),
	}

	zones, err := h.service.ListZones(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to list zones", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve zones"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": zones, "count": len(zones)})
}

// POST /coverage/zones
func (h *CoverageHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req models.CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	zone, err := h.service.CreateZone(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidZone) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logr.Error("failed to create zone", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create zone"})
		return
	}

	writeJSON(w, http.StatusCreated, zone)
}

// PUT /coverage/zones/{id}
func (h *CoverageHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	var patch models.CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	zone, err := h.service.UpdateZone(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
		case errors.Is(err, services.ErrInvalidZone):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			h.logr.Error("failed to update zone", zap.Error(err), zap.Int64("id", id))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update zone"})
		}
		return
	}

	writeJSON(w, http.StatusOK, zone)
}

// DELETE /coverage/zones/{id}
func (h *CoverageHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	if err := h.service.DeleteZone(r.Context(), id); err != nil {
		h.logr.Error("failed to delete zone", zap.Error(err), zap.Int64("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete zone"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /coverage/check?lat=&lng=&address=
func (h *CoverageHandler) CheckCoverage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}

	result, err := h.service.CheckByCoordinates(r.Context(), lat, lng, q.Get("address"))
	if err != nil {
		h.logr.Error("coverage check failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "coverage check failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /coverage/check/cep?code=
func (h *CoverageHandler) CheckCEP(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}

	writeJSON(w, http.StatusOK, h.service.CheckByPostalCode(code))
}

// splitCSV splits a comma-separated query value into trimmed parts.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}
