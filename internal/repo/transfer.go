package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

// ========================
// TRANSFER REPOSITORY
// ========================

type TransferRepo struct {
	DB *sql.DB
}

func NewTransferRepo(db *sql.DB) *TransferRepo {
	return &TransferRepo{DB: db}
}

const transferCols = `id, from_base_id, to_base_id, equipment_type_id, quantity, transfer_at, created_by, notes, created_at`

// baseInvolved matches rows where the given base is on either end of the transfer.
const baseInvolved = `(from_base_id = $%[1]d OR to_base_id = $%[1]d)`

// Create inserts the transfer and its transaction log entry atomically.
func (r *TransferRepo) Create(ctx context.Context, t models.Transfer) (models.Transfer, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Transfer{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO transfers (from_base_id, to_base_id, equipment_type_id, quantity, transfer_at, created_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		t.FromBaseID, t.ToBaseID, t.EquipmentTypeID, t.Quantity, t.TransferAt, t.CreatedBy, t.Notes,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return models.Transfer{}, err
	}

	qty := t.Quantity
	details := models.LogDetails{
		FromBase:      &t.FromBaseID,
		ToBase:        &t.ToBaseID,
		EquipmentType: &t.EquipmentTypeID,
		Quantity:      &qty,
	}
	if err := insertLog(ctx, tx, t.CreatedBy, models.ActionTransfer, "Transfer", t.ID, details); err != nil {
		return models.Transfer{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Transfer{}, err
	}
	return t, nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id int) (models.Transfer, error) {
	var t models.Transfer
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+transferCols+` FROM transfers WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.FromBaseID, &t.ToBaseID, &t.EquipmentTypeID, &t.Quantity, &t.TransferAt, &t.CreatedBy, &t.Notes, &t.CreatedAt)
	return t, err
}

// List returns transfers where the scope base (and the optional base_id
// filter) is on either end.
func (r *TransferRepo) List(ctx context.Context, scope authz.Scope, f LedgerFilter) ([]models.Transfer, error) {
	if scope.Empty {
		return []models.Transfer{}, nil
	}

	var b condBuilder
	if !scope.All {
		b.add(baseInvolved, scope.BaseID)
	}
	if f.BaseID != nil {
		b.add(baseInvolved, *f.BaseID)
	}
	if f.EquipmentTypeID != nil {
		b.add("equipment_type_id = $%d", *f.EquipmentTypeID)
	}
	b.dateRange("transfer_at", f)

	q := `SELECT ` + transferCols + ` FROM transfers` + b.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.FromBaseID, &t.ToBaseID, &t.EquipmentTypeID, &t.Quantity, &t.TransferAt, &t.CreatedBy, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *TransferRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
