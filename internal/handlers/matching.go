package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"brilho-bknd/internal/matching"
	"brilho-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MatchingHandler struct {
	service *services.MatchingService
	logr    *zap.Logger
}

func NewMatchingHandler(svc *services.MatchingService, logr *zap.Logger) *MatchingHandler {
	return &MatchingHandler{service: svc, logr: logr}
}

// POST /matching/match
func (h *MatchingHandler) FindMatch(w http.ResponseWriter, r *http.Request) {
	var req matching.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "service_type is required"})
		return
	}

	result, err := h.service.FindBestMatch(r.Context(), req)
	if err != nil {
		h.logr.Error("match failed", zap.Error(err), zap.String("service_type", req.ServiceType))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "match failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type createAssignmentReq struct {
	ServiceID string           `json:"service_id"`
	Request   matching.Request `json:"request"`
}

// POST /matching/assignments
func (h *MatchingHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(req.ServiceID) == "" || strings.TrimSpace(req.Request.ServiceType) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "service_id and request.service_type are required"})
		return
	}

	assignment, result, err := h.service.CreateAssignment(r.Context(), req.ServiceID, req.Request)
	if err != nil {
		h.logr.Error("assignment failed", zap.Error(err), zap.String("service_id", req.ServiceID))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "assignment failed"})
		return
	}

	// No match is a normal outcome: the back-office dispatches manually.
	if assignment == nil {
		writeJSON(w, http.StatusOK, result)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"matched":    true,
		"assignment": assignment,
		"candidates": result.Candidates,
	})
}

// GET /matching/assignments
func (h *MatchingHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.ListAssignments(r.Context())
	if err != nil {
		h.logr.Error("failed to list assignments", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve assignments"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": assignments, "count": len(assignments)})
}

// PATCH /matching/assignments/{id}/status
func (h *MatchingHandler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	if err := h.service.UpdateAssignmentStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAssignmentStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "assignment not found"})
		default:
			h.logr.Error("failed to update assignment", zap.Error(err), zap.Int64("id", id))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update assignment"})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
