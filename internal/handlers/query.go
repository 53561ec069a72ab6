package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/repo"
)

// parseLedgerFilter reads the shared optional query parameters
// {base_id, equipment_type_id, start_date, end_date}. Dates are ISO calendar
// dates (YYYY-MM-DD); malformed values are a ValidationError, not a no-op.
func parseLedgerFilter(r *http.Request) (repo.LedgerFilter, error) {
	var f repo.LedgerFilter
	q := r.URL.Query()

	if v := q.Get("base_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, apperr.Validation("base_id", "must be an integer")
		}
		f.BaseID = &id
	}
	if v := q.Get("equipment_type_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, apperr.Validation("equipment_type_id", "must be an integer")
		}
		f.EquipmentTypeID = &id
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
