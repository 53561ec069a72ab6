package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/repo"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// UserHandler
// ==========================
// User administration is admin-only, except Get which allows self-reads.
type UserHandler struct {
	Repo *repo.UserRepo
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !actor.IsAdmin() {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		Username string `json:"username" validate:"required,min=2,max=150"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required"`
		BaseID   *int   `json:"base_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}
	if !models.ValidRole(input.Role) {
		JSONValidationError(w, "validation failed",
			map[string]string{"role": "must be ADMIN, COMMANDER, or LOGISTICS"}, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Repo.Create(r.Context(), input.Username, string(hash), input.Role, input.BaseID)
	if err != nil {
		writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !actor.IsAdmin() {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	users, err := h.Repo.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// ==========================
// Get User (admin, or self)
// ==========================
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if !actor.IsAdmin() && actor.ID != id {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Delete User
// ==========================
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !actor.IsAdmin() {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "user not found", http.StatusNotFound)
			return
		}
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
