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

type ExpenditureHandler struct {
	Repo *repo.ExpenditureRepo
}

//
// ==========================
// List Expenditures
// ==========================
//

func (h *ExpenditureHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityExpenditure) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLedgerFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	expenditures, err := h.Repo.List(r.Context(), authz.ScopeFor(user), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	if expenditures == nil {
		expenditures = []models.Expenditure{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenditures)
}

//
// ==========================
// Create Expenditure
// ==========================
//

func (h *ExpenditureHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityExpenditure) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		BaseID          int       `json:"base_id" validate:"required"`
		EquipmentTypeID int       `json:"equipment_type_id" validate:"required"`
		ExpendedBy      string    `json:"expended_by" validate:"required,max=100"`
		Quantity        int       `json:"quantity" validate:"required,gt=0"`
		ExpendedAt      time.Time `json:"expended_at" validate:"required"`
		Reason          string    `json:"reason" validate:"max=1000"`
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
	expenditure, err := h.Repo.Create(r.Context(), models.Expenditure{
		BaseID:          input.BaseID,
		EquipmentTypeID: input.EquipmentTypeID,
		ExpendedBy:      input.ExpendedBy,
		Quantity:        input.Quantity,
		ExpendedAt:      input.ExpendedAt,
		CreatedBy:       &uid,
		Reason:          input.Reason,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}
	metrics.IncLedgerTransaction("expenditure")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenditure)
}

//
// ==========================
// Delete Expenditure
// ==========================
//

func (h *ExpenditureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityExpenditure) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid expenditure id", http.StatusBadRequest)
		return
	}

	expenditure, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "expenditure not found", http.StatusNotFound)
		return
	}
	if !authz.CanTouchBase(user, expenditure.BaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
