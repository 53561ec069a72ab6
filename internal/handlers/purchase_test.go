package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/middleware"
	"github.com/crucial707/milstock/internal/models"
	"github.com/crucial707/milstock/internal/repo"
	"github.com/go-chi/chi/v5"
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

// ts is a fixed timestamp for mock rows.
var ts = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func asUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

func adminUser() *models.User {
	return &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin, IsSuperuser: true}
}

func commanderUser(baseID int) *models.User {
	return &models.User{ID: 2, Username: "cmdr", Role: models.RoleCommander, BaseID: &baseID}
}

func logisticsUser(baseID int) *models.User {
	return &models.User{ID: 3, Username: "logi", Role: models.RoleLogistics, BaseID: &baseID}
}

func TestPurchaseHandler_List_ScopedToHomeBase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE base_id = \$1 ORDER BY id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_id", "equipment_type_id", "quantity", "unit_cost", "purchased_at", "created_by", "notes", "created_at"}).
			AddRow(1, 2, 3, 100, nil, ts, 2, "", ts))

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	req := asUser(httptest.NewRequest("GET", "/api/purchases", nil), commanderUser(2))
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("List status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID       int `json:"id"`
		BaseID   int `json:"base_id"`
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].BaseID != 2 || list[0].Quantity != 100 {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_List_NoHomeBaseReturnsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	// Commander with no base assignment sees nothing, not an error.
	u := &models.User{ID: 5, Username: "floater", Role: models.RoleCommander}
	req := asUser(httptest.NewRequest("GET", "/api/purchases", nil), u)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("List status: got %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("expected empty array, got %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_List_Unauthenticated(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	req := httptest.NewRequest("GET", "/api/purchases", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("List status: got %d, want 401", rr.Code)
	}
}

func TestPurchaseHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases \(base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes\)`).
		WithArgs(2, 3, 50, sqlmock.AnyArg(), sqlmock.AnyArg(), 2, "initial stock").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, ts))
	mock.ExpectExec(`INSERT INTO transaction_logs \(user_id, action_type, model_name, object_id, details\)`).
		WithArgs(2, "PURCHASE", "Purchase", 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"base_id":           2,
		"equipment_type_id": 3,
		"quantity":          50,
		"purchased_at":      "2025-01-10T00:00:00Z",
		"notes":             "initial stock",
	})
	req := asUser(httptest.NewRequest("POST", "/api/purchases", bytes.NewReader(body)), commanderUser(2))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Create status: got %d, want 200", rr.Code)
	}
	var out struct {
		ID       int `json:"id"`
		BaseID   int `json:"base_id"`
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != 7 || out.BaseID != 2 || out.Quantity != 50 {
		t.Errorf("unexpected purchase: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_Create_WrongBaseForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"base_id":           9,
		"equipment_type_id": 3,
		"quantity":          50,
		"purchased_at":      "2025-01-10T00:00:00Z",
	})
	req := asUser(httptest.NewRequest("POST", "/api/purchases", bytes.NewReader(body)), commanderUser(2))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Create status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_Create_NonPositiveQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"base_id":           2,
		"equipment_type_id": 3,
		"quantity":          -4,
		"purchased_at":      "2025-01-10T00:00:00Z",
	})
	req := asUser(httptest.NewRequest("POST", "/api/purchases", bytes.NewReader(body)), commanderUser(2))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Create status: got %d, want 400", rr.Code)
	}
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Fields["quantity"] == "" {
		t.Errorf("expected quantity field error, got %v", out.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_id", "equipment_type_id", "quantity", "unit_cost", "purchased_at", "created_by", "notes", "created_at"}).
			AddRow(7, 2, 3, 50, nil, ts, 2, "", ts))
	mock.ExpectExec(`DELETE FROM purchases WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	req := asUser(requestWithChiURLParams("DELETE", "/api/purchases/7", nil, map[string]string{"id": "7"}), commanderUser(2))
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Delete status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE id = \$1`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	req := asUser(requestWithChiURLParams("DELETE", "/api/purchases/999", nil, map[string]string{"id": "999"}), adminUser())
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Delete status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "purchase not found" {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseHandler_Delete_OtherBaseForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_id", "equipment_type_id", "quantity", "unit_cost", "purchased_at", "created_by", "notes", "created_at"}).
			AddRow(7, 9, 3, 50, nil, ts, 2, "", ts))

	h := &PurchaseHandler{Repo: repo.NewPurchaseRepo(db)}

	req := asUser(requestWithChiURLParams("DELETE", "/api/purchases/7", nil, map[string]string{"id": "7"}), commanderUser(2))
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Delete status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
