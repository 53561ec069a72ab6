package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/metrics"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/repo"
	"github.com/go-chi/chi/v5"
)

type AssignmentHandler struct {
	Repo *repo.AssignmentRepo
}

//
// ==========================
// List Assignments
// ==========================
//

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityAssignment) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLedgerFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	assignments, err := h.Repo.List(r.Context(), authz.ScopeFor(user), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assignments)
}

//
// ==========================
// Create Assignment
// ==========================
//

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityAssignment) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		BaseID          int       `json:"base_id" validate:"required"`
		EquipmentTypeID int       `json:"equipment_type_id" validate:"required"`
		AssignedTo      string    `json:"assigned_to" validate:"required,max=100"`
		Quantity        int       `json:"quantity" validate:"required,gt=0"`
		AssignedAt      time.Time `json:"assigned_at" validate:"required"`
		Purpose         string    `json:"purpose" validate:"max=1000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	if !authz.CanTouchBase(user, input.BaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	uid := user.ID
	assignment, err := h.Repo.Create(r.Context(), models.Assignment{
		BaseID:          input.BaseID,
		EquipmentTypeID: input.EquipmentTypeID,
		AssignedTo:      input.AssignedTo,
		Quantity:        input.Quantity,
		AssignedAt:      input.AssignedAt,
		CreatedBy:       &uid,
		Purpose:         input.Purpose,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}
	metrics.IncLedgerTransaction("assignment")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assignment)
}

//
// ==========================
// Delete Assignment
// ==========================
//

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityAssignment) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid assignment id", http.StatusBadRequest)
		return
	}

	assignment, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "assignment not found", http.StatusNotFound)
		return
	}
	if !authz.CanTouchBase(user, assignment.BaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
