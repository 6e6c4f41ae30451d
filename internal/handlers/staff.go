package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"brilho-bknd/internal/models"
	"brilho-bknd/internal/services"
	"brilho-bknd/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StaffHandler struct {
	service *services.StaffService
	logr    *zap.Logger
}

func NewStaffHandler(svc *services.StaffService, logr *zap.Logger) *StaffHandler {
	return &StaffHandler{service: svc, logr: logr}
}

// GET /staff?specialty=&active=
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := models.StaffQueryParams{
		Specialties: utils.ParseQueryList(q, "specialty"),
		ActiveOnly:  q.Get("active") == "true" || q.Get("active") == "1",
	}

	staff, err := h.service.ListStaff(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to list staff", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve staff"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": staff, "count": len(staff)})
}

// GET /staff/{id}
func (h *StaffHandler) GetStaffByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	member, err := h.service.GetStaffByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff member not found"})
			return
		}
		h.logr.Error("failed to fetch staff member", zap.Error(err), zap.Int64("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch staff member"})
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// POST /staff
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var member models.StaffMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	created, err := h.service.CreateStaff(r.Context(), &member)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStaff) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logr.Error("failed to create staff member", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create staff member"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// PUT /staff/{id}
func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	var patch models.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	member, err := h.service.UpdateStaff(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff member not found"})
		case errors.Is(err, services.ErrInvalidStaff):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			h.logr.Error("failed to update staff member", zap.Error(err), zap.Int64("id", id))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update staff member"})
		}
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// DELETE /staff/{id}
func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	if err := h.service.DeleteStaff(r.Context(), id); err != nil {
		h.logr.Error("failed to delete staff member", zap.Error(err), zap.Int64("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete staff member"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /providers/apply
func (h *StaffHandler) ApplyAsProvider(w http.ResponseWriter, r *http.Request) {
	var app models.ProviderApplication
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	created, err := h.service.ApplyAsProvider(r.Context(), &app)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStaff) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logr.Error("failed to record provider application", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record application"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GET /providers/applications?status=
func (h *StaffHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListApplications(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logr.Error("failed to list applications", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve applications"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": apps, "count": len(apps)})
}

// POST /providers/applications/{id}/approve
func (h *StaffHandler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	member, err := h.service.ApproveApplication(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		case errors.Is(err, services.ErrApplicationReviewed):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			h.logr.Error("failed to approve application", zap.Error(err), zap.Int64("id", id))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to approve application"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

// POST /providers/applications/{id}/reject
func (h *StaffHandler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id parameter"})
		return
	}

	if err := h.service.RejectApplication(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pending application not found"})
			return
		}
		h.logr.Error("failed to reject application", zap.Error(err), zap.Int64("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reject application"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
