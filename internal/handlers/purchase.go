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
	"github.com/shopspring/decimal"
)

type PurchaseHandler struct {
	Repo *repo.PurchaseRepo
}

//
// ==========================
// List Purchases
// ==========================
//

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityPurchase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLedgerFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	purchases, err := h.Repo.List(r.Context(), authz.ScopeFor(user), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(purchases)
}

//
// ==========================
// Create Purchase
// ==========================
//

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionCreate, authz.EntityPurchase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	var input struct {
		BaseID          int                 `json:"base_id" validate:"required"`
		EquipmentTypeID int                 `json:"equipment_type_id" validate:"required"`
		Quantity        int                 `json:"quantity" validate:"required,gt=0"`
		UnitCost        decimal.NullDecimal `json:"unit_cost"`
		PurchasedAt     time.Time           `json:"purchased_at" validate:"required"`
		Notes           string              `json:"notes" validate:"max=1000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	// Non-admins may only record purchases for their own base.
	if !authz.CanTouchBase(user, input.BaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	uid := user.ID
	purchase, err := h.Repo.Create(r.Context(), models.Purchase{
		BaseID:          input.BaseID,
		EquipmentTypeID: input.EquipmentTypeID,
		Quantity:        input.Quantity,
		UnitCost:        input.UnitCost,
		PurchasedAt:     input.PurchasedAt,
		CreatedBy:       &uid,
		Notes:           input.Notes,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}
	metrics.IncLedgerTransaction("purchase")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(purchase)
}

//
// ==========================
// Delete Purchase
// ==========================
//

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionDelete, authz.EntityPurchase) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid purchase id", http.StatusBadRequest)
		return
	}

	purchase, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "purchase not found", http.StatusNotFound)
		return
	}
	if !authz.CanTouchBase(user, purchase.BaseID) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
