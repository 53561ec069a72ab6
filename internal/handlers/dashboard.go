package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/report"
)

// DashboardHandler serves the balance reconciliation report.
type DashboardHandler struct {
	Engine *report.Engine
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityDashboard) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLedgerFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rep, err := h.Engine.Reconcile(r.Context(), user, report.Request{
		BaseID:          f.BaseID,
		EquipmentTypeID: f.EquipmentTypeID,
		StartDate:       f.StartDate,
		EndDate:         f.EndDate,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}
