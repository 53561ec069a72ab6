package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/repo"
	"github.com/go-chi/chi/v5"
)

// EquipmentTypeHandler serves equipment type reference data. Reads are open to
// any authenticated actor; mutation is admin-only.
type EquipmentTypeHandler struct {
	Repo *repo.EquipmentTypeRepo
}

func (h *EquipmentTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityEquipmentType) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	types, err := h.Repo.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if types == nil {
		types = []models.EquipmentType{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(types)
}

func (h *EquipmentTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityEquipmentType) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid equipment type id", http.StatusBadRequest)
		return
	}

	eq, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "equipment type not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eq)
}

func (h *EquipmentTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityEquipmentType) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		Name        string `json:"name" validate:"required,min=2,max=100"`
		Category    string `json:"category" validate:"max=100"`
		Description string `json:"description" validate:"max=1000"`
		Unit        string `json:"unit" validate:"max=50"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}
	if input.Unit == "" {
		input.Unit = "units"
	}

	eq, err := h.Repo.Create(r.Context(), input.Name, input.Category, input.Description, input.Unit)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eq)
}

func (h *EquipmentTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityEquipmentType) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid equipment type id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "equipment type not found", http.StatusNotFound)
			return
		}
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
