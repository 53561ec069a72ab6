package repo

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/authz"
)

func TestLogRepo_List_NewestFirstWithDetailsScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Base scoping matches the details snapshot on any of the three base keys,
	// with a single placeholder referenced three times.
	mock.ExpectQuery(`FROM transaction_logs WHERE \(\(details->>'base'\)::int = \$1 OR \(details->>'from_base'\)::int = \$1 OR \(details->>'to_base'\)::int = \$1\) AND action_type = \$2 ORDER BY timestamp DESC`).
		WithArgs(2, "TRANSFER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action_type", "model_name", "object_id", "timestamp", "details"}).
			AddRow(8, 3, "TRANSFER", "Transfer", 5, ts.Add(1), []byte(`{"from_base":2,"to_base":4,"equipment_type":3,"quantity":10}`)).
			AddRow(7, 3, "TRANSFER", "Transfer", 4, ts, []byte(`{"from_base":4,"to_base":2,"equipment_type":3,"quantity":5}`)))

	r := NewLogRepo(db)
	action := "TRANSFER"
	got, err := r.List(context.Background(), authz.Scope{BaseID: 2}, LogFilter{ActionType: &action})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 8 || got[1].ID != 7 {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].Details.FromBase == nil || *got[0].Details.FromBase != 2 {
		t.Errorf("unexpected details: %+v", got[0].Details)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLogRepo_List_EmptyScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := NewLogRepo(db)
	got, err := r.List(context.Background(), authz.Scope{Empty: true}, LogFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
