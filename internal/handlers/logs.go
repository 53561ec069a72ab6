package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/repo"
)

// LogHandler serves the transaction audit log, always newest first.
type LogHandler struct {
	Repo *repo.LogRepo
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, apperr.ErrAuthenticationRequired)
		return
	}
	if !authz.Can(user, authz.ActionRead, authz.EntityLog) {
		WriteError(w, apperr.ErrForbidden)
		return
	}

	f, err := parseLogFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.Repo.List(r.Context(), authz.ScopeFor(user), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []models.TransactionLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// parseLogFilter reads {action_type, base_id, start_date, end_date}.
func parseLogFilter(r *http.Request) (repo.LogFilter, error) {
	var f repo.LogFilter
	q := r.URL.Query()

	if v := q.Get("action_type"); v != "" {
		if !models.ValidAction(v) {
			return f, apperr.Validation("action_type", "must be PURCHASE, TRANSFER, ASSIGNMENT, or EXPENDITURE")
		}
		f.ActionType = &v
	}
	if v := q.Get("base_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, apperr.Validation("base_id", "must be an integer")
		}
		f.BaseID = &id
	}
	if v := q.Get("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, apperr.Validation("start_date", "must be a date (YYYY-MM-DD)")
		}
		f.StartDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, apperr.Validation("end_date", "must be a date (YYYY-MM-DD)")
		}
		f.EndDate = &d
	}
	return f, nil
}
