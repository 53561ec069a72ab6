package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

// ==========================
// Transaction log
// ==========================

// insertLog appends one transaction log row inside the caller's transaction.
// Creation of a ledger row and its log entry commit or abort together.
func insertLog(ctx context.Context, tx *sql.Tx, userID *int, actionType, modelName string, objectID int, details models.LogDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transaction_logs (user_id, action_type, model_name, object_id, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, actionType, modelName, objectID, payload,
	)
	return err
}

// LogFilter carries the optional filters of the audit listing endpoint.
type LogFilter struct {
	ActionType *string
	BaseID     *int
	StartDate  *time.Time
	EndDate    *time.Time
}

type LogRepo struct {
	DB *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo {
	return &LogRepo{DB: db}
}

// List returns log entries newest first. Scoping and the base_id filter match
// the details snapshot (base, from_base, to_base), not a live foreign key, so
// entries stay visible after the transaction they describe is deleted.
func (r *LogRepo) List(ctx context.Context, scope authz.Scope, f LogFilter) ([]models.TransactionLog, error) {
	if scope.Empty {
		return []models.TransactionLog{}, nil
	}

	var b condBuilder
	if !scope.All {
		b.add(detailsBaseMatch, scope.BaseID)
	}
	if f.ActionType != nil {
		b.add("action_type = $%d", *f.ActionType)
	}
	if f.BaseID != nil {
		b.add(detailsBaseMatch, *f.BaseID)
	}
	if f.StartDate != nil {
		b.add("timestamp::date >= $%d::date", *f.StartDate)
	}
	if f.EndDate != nil {
		b.add("timestamp::date <= $%d::date", *f.EndDate)
	}

	q := `SELECT id, user_id, action_type, model_name, object_id, timestamp, details FROM transaction_logs` +
		b.where() + ` ORDER BY timestamp DESC`

	rows, err := r.DB.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TransactionLog
	for rows.Next() {
		var e models.TransactionLog
		var raw []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &e.ModelName, &e.ObjectID, &e.Timestamp, &raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Details); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const detailsBaseMatch = `((details->>'base')::int = $%[1]d OR (details->>'from_base')::int = $%[1]d OR (details->>'to_base')::int = $%[1]d)`
