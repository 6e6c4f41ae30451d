package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"brilho-bknd/internal/models"
	"brilho-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExpansionHandler struct {
	service *services.ExpansionService
	logr    *zap.Logger
}

func NewExpansionHandler(svc *services.ExpansionService, logr *zap.Logger) *ExpansionHandler {
	return &ExpansionHandler{service: svc, logr: logr}
}

// POST /expansion/waitlist
func (h *ExpansionHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req models.JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	entry, err := h.service.JoinWaitlist(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmailRequired) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logr.Error("failed to join waitlist", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join waitlist"})
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// GET /expansion/waitlist
func (h *ExpansionHandler) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListWaitlist(r.Context())
	if err != nil {
		h.logr.Error("failed to list waitlist", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve waitlist"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": entries, "count": len(entries)})
}

// POST /expansion/waitlist/notify?city=
func (h *ExpansionHandler) NotifyWaitlist(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city is required"})
		return
	}

	count, err := h.service.NotifyWaitlistForCity(r.Context(), city)
	if err != nil {
		h.logr.Error("failed to notify waitlist", zap.Error(err), zap.String("city", city))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to notify waitlist"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"city": city, "notified": count})
}

// GET /expansion/demand
func (h *ExpansionHandler) GetDemand(w http.ResponseWriter, r *http.Request) {
	demand, err := h.service.DemandByCity(r.Context())
	if err != nil {
		h.logr.Error("failed to aggregate demand", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to aggregate demand"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": demand, "count": len(demand)})
}

// GET /expansion/targets?limit=
func (h *ExpansionHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	targets, err := h.service.NextExpansionTargets(r.Context(), limit)
	if err != nil {
		h.logr.Error("failed to rank targets", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rank expansion targets"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": targets, "count": len(targets)})
}

// GET /expansion/phases
func (h *ExpansionHandler) ListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := h.service.ListPhases(r.Context())
	if err != nil {
		h.logr.Error("failed to list phases", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve phases"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": phases, "count": len(phases)})
}

// PUT /expansion/phases/{key}/status
func (h *ExpansionHandler) UpdatePhaseStatus(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	phase, err := h.service.UpdatePhaseStatus(r.Context(), key, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhaseStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "phase not found"})
		default:
			h.logr.Error("failed to update phase", zap.Error(err), zap.String("key", key))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update phase"})
		}
		return
	}

	writeJSON(w, http.StatusOK, phase)
}
