package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

var ts = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func TestPurchaseRepo_Create_WritesLogAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	uid := 2
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases \(base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes\)`).
		WithArgs(2, 3, 100, sqlmock.AnyArg(), ts, uid, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, ts))
	mock.ExpectExec(`INSERT INTO transaction_logs \(user_id, action_type, model_name, object_id, details\)`).
		WithArgs(uid, "PURCHASE", "Purchase", 1, []byte(`{"base":2,"from_base":null,"to_base":null,"equipment_type":3,"quantity":100}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := NewPurchaseRepo(db)
	p, err := r.Create(context.Background(), models.Purchase{
		BaseID:          2,
		EquipmentTypeID: 3,
		Quantity:        100,
		PurchasedAt:     ts,
		CreatedBy:       &uid,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 1 {
		t.Errorf("id: got %d, want 1", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseRepo_Create_RollsBackWhenLogFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	uid := 2
	logErr := errors.New("log table gone")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, ts))
	mock.ExpectExec(`INSERT INTO transaction_logs`).
		WillReturnError(logErr)
	mock.ExpectRollback()

	r := NewPurchaseRepo(db)
	_, err = r.Create(context.Background(), models.Purchase{
		BaseID:          2,
		EquipmentTypeID: 3,
		Quantity:        100,
		PurchasedAt:     ts,
		CreatedBy:       &uid,
	})
	if !errors.Is(err, logErr) {
		t.Fatalf("expected log error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseRepo_List_CombinesScopeAndFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE base_id = \$1 AND equipment_type_id = \$2 AND purchased_at::date >= \$3::date ORDER BY id`).
		WithArgs(2, 3, start).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_id", "equipment_type_id", "quantity", "unit_cost", "purchased_at", "created_by", "notes", "created_at"}).
			AddRow(1, 2, 3, 100, nil, ts, 2, "", ts))

	r := NewPurchaseRepo(db)
	equipmentID := 3
	got, err := r.List(context.Background(), authz.Scope{BaseID: 2}, LedgerFilter{
		EquipmentTypeID: &equipmentID,
		StartDate:       &start,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 100 {
		t.Errorf("unexpected rows: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPurchaseRepo_List_EmptyScopeSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := NewPurchaseRepo(db)
	got, err := r.List(context.Background(), authz.Scope{Empty: true}, LedgerFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
