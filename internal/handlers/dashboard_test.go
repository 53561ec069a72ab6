package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/report"
)

func TestDashboardHandler_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, code, location FROM bases WHERE id = \$1 ORDER BY id LIMIT 2`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "location"}).
			AddRow(2, "Fort Alpha", "FA", "North"))
	mock.ExpectQuery(`SELECT id, name, category, description, unit FROM equipment_types WHERE id = \$1 ORDER BY id LIMIT 2`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "description", "unit"}).
			AddRow(3, "5.56mm rounds", "ammunition", "", "units"))
	for _, total := range []int{30, 10, 5, 4, 1} {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(total))
	}

	h := &DashboardHandler{Engine: report.NewEngine(db)}

	req := asUser(httptest.NewRequest("GET", "/api/dashboard?base_id=2&equipment_type_id=3", nil), adminUser())
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Get status: got %d, want 200", rr.Code)
	}
	var out struct {
		ClosingBalance int `json:"closing_balance"`
		NetMovement    struct {
			Total int `json:"total"`
		} `json:"net_movement"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.NetMovement.Total != 35 {
		t.Errorf("net movement: got %d, want 35", out.NetMovement.Total)
	}
	if out.ClosingBalance != 30 {
		t.Errorf("closing balance: got %d, want 30", out.ClosingBalance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDashboardHandler_Get_AmbiguousSelection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &DashboardHandler{Engine: report.NewEngine(db)}

	// Commander without a home base and no explicit base filter.
	u := &models.User{ID: 5, Username: "floater", Role: models.RoleCommander}
	req := asUser(httptest.NewRequest("GET", "/api/dashboard", nil), u)
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Get status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDashboardHandler_Get_MalformedDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &DashboardHandler{Engine: report.NewEngine(db)}

	req := asUser(httptest.NewRequest("GET", "/api/dashboard?start_date=02-01-2025", nil), adminUser())
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Get status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
