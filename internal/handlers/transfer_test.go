package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/repo"
)

func TestTransferHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO transfers \(from_base_id, to_base_id, equipment_type_id, quantity, transfer_at, created_by, notes\)`).
		WithArgs(2, 4, 3, 10, sqlmock.AnyArg(), 3, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, ts))
	mock.ExpectExec(`INSERT INTO transaction_logs \(user_id, action_type, model_name, object_id, details\)`).
		WithArgs(3, "TRANSFER", "Transfer", 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	h := &TransferHandler{Repo: repo.NewTransferRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"from_base_id":      2,
		"to_base_id":        4,
		"equipment_type_id": 3,
		"quantity":          10,
		"transfer_at":       "2025-01-10T00:00:00Z",
	})
	req := asUser(httptest.NewRequest("POST", "/api/transfers", bytes.NewReader(body)), logisticsUser(2))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Create status: got %d, want 200", rr.Code)
	}
	var out struct {
		ID         int `json:"id"`
		FromBaseID int `json:"from_base_id"`
		ToBaseID   int `json:"to_base_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != 5 || out.FromBaseID != 2 || out.ToBaseID != 4 {
		t.Errorf("unexpected transfer: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTransferHandler_Create_SameBase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &TransferHandler{Repo: repo.NewTransferRepo(db)}

	body, _ := json.Marshal(map[string]interface{}{
		"from_base_id":      2,
		"to_base_id":        2,
		"equipment_type_id": 3,
		"quantity":          10,
		"transfer_at":       "2025-01-10T00:00:00Z",
	})
	req := asUser(httptest.NewRequest("POST", "/api/transfers", bytes.NewReader(body)), adminUser())
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
	if out.Fields["to_base_id"] == "" {
		t.Errorf("expected to_base_id field error, got %v", out.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTransferHandler_Create_NotFromHomeBase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &TransferHandler{Repo: repo.NewTransferRepo(db)}

	// Commander at base 2 may not push stock out of base 4.
	body, _ := json.Marshal(map[string]interface{}{
		"from_base_id":      4,
		"to_base_id":        2,
		"equipment_type_id": 3,
		"quantity":          10,
		"transfer_at":       "2025-01-10T00:00:00Z",
	})
	req := asUser(httptest.NewRequest("POST", "/api/transfers", bytes.NewReader(body)), commanderUser(2))
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

func TestTransferHandler_List_EitherEnd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, from_base_id, to_base_id, equipment_type_id, quantity, transfer_at, created_by, notes, created_at FROM transfers WHERE \(from_base_id = \$1 OR to_base_id = \$1\) ORDER BY id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_base_id", "to_base_id", "equipment_type_id", "quantity", "transfer_at", "created_by", "notes", "created_at"}).
			AddRow(1, 4, 2, 3, 10, ts, 3, "", ts))

	h := &TransferHandler{Repo: repo.NewTransferRepo(db)}

	req := asUser(httptest.NewRequest("GET", "/api/transfers", nil), commanderUser(2))
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("List status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID       int `json:"id"`
		ToBaseID int `json:"to_base_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].ToBaseID != 2 {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTransferHandler_Delete_NeitherEndForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, from_base_id, to_base_id, equipment_type_id, quantity, transfer_at, created_by, notes, created_at FROM transfers WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_base_id", "to_base_id", "equipment_type_id", "quantity", "transfer_at", "created_by", "notes", "created_at"}).
			AddRow(5, 7, 8, 3, 10, ts, 3, "", ts))

	h := &TransferHandler{Repo: repo.NewTransferRepo(db)}

	req := asUser(requestWithChiURLParams("DELETE", "/api/transfers/5", nil, map[string]string{"id": "5"}), commanderUser(2))
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Delete status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
