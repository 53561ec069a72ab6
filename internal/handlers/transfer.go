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

type TransferHandler struct {
	Repo *repo.TransferRepo
}

//
// ==========================
// List Transfers
// ==========================
//

func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityTransfer) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLedgerFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	transfers, err := h.Repo.List(r.Context(), authz.ScopeFor(user), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transfers)
}

//
// ==========================
// Create Transfer
// ==========================
//

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityTransfer) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		FromBaseID      int       `json:"from_base_id" validate:"required"`
		ToBaseID        int       `json:"to_base_id" validate:"required"`
		EquipmentTypeID int       `json:"equipment_type_id" validate:"required"`
		Quantity        int       `json:"quantity" validate:"required,gt=0"`
		TransferAt      time.Time `json:"transfer_at" validate:"required"`
		Notes           string    `json:"notes" validate:"max=1000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}
	if input.FromBaseID == input.ToBaseID {
		WriteError(w, apperr.Validation("to_base_id", "must differ from from_base_id"))
		return
	}

	// Non-admins may only transfer stock out of their own base.
	if !authz.CanTransferFrom(user, input.FromBaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	uid := user.ID
	transfer, err := h.Repo.Create(r.Context(), models.Transfer{
		FromBaseID:      input.FromBaseID,
		ToBaseID:        input.ToBaseID,
		EquipmentTypeID: input.EquipmentTypeID,
		Quantity:        input.Quantity,
		TransferAt:      input.TransferAt,
		CreatedBy:       &uid,
		Notes:           input.Notes,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}
	metrics.IncLedgerTransaction("transfer")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transfer)
}

//
// ==========================
// Delete Transfer
// ==========================
//

func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityTransfer) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid transfer id", http.StatusBadRequest)
		return
	}

	transfer, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "transfer not found", http.StatusNotFound)
		return
	}
	if !authz.CanTouchTransfer(user, transfer.FromBaseID, transfer.ToBaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
