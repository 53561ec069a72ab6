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

// BaseHandler serves the base reference data. Reads are open to any
// authenticated actor; mutation is admin-only.
type BaseHandler struct {
	Repo *repo.BaseRepo
}

func (h *BaseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityBase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	bases, err := h.Repo.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if bases == nil {
		bases = []models.Base{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bases)
}

func (h *BaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityBase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid base id", http.StatusBadRequest)
		return
	}

	base, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "base not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(base)
}

func (h *BaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityBase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Code     string `json:"code" validate:"required,min=1,max=20"`
		Location string `json:"location" validate:"max=255"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	base, err := h.Repo.Create(r.Context(), input.Name, input.Code, input.Location)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(base)
}

// Delete removes a base and, via FK cascade, every transaction referencing it.
// Transaction log entries are kept; they carry their own details snapshot.
func (h *BaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityBase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid base id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "base not found", http.StatusNotFound)
			return
		}
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
