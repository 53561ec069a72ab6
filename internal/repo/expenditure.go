package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

// ========================
// EXPENDITURE REPOSITORY
// ========================

type ExpenditureRepo struct {
	DB *sql.DB
}

func NewExpenditureRepo(db *sql.DB) *ExpenditureRepo {
	return &ExpenditureRepo{DB: db}
}

const expenditureCols = `id, base_id, equipment_type_id, expended_by, quantity, expended_at, created_by, reason, created_at`

// Create inserts the expenditure and its transaction log entry atomically.
func (r *ExpenditureRepo) Create(ctx context.Context, e models.Expenditure) (models.Expenditure, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Expenditure{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO expenditures (base_id, equipment_type_id, expended_by, quantity, expended_at, created_by, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.BaseID, e.EquipmentTypeID, e.ExpendedBy, e.Quantity, e.ExpendedAt, e.CreatedBy, e.Reason,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return models.Expenditure{}, err
	}

	qty := e.Quantity
	details := models.LogDetails{Base: &e.BaseID, EquipmentType: &e.EquipmentTypeID, Quantity: &qty}
	if err := insertLog(ctx, tx, e.CreatedBy, models.ActionExpenditure, "Expenditure", e.ID, details); err != nil {
		return models.Expenditure{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Expenditure{}, err
	}
	return e, nil
}

func (r *ExpenditureRepo) GetByID(ctx context.Context, id int) (models.Expenditure, error) {
	var e models.Expenditure
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+expenditureCols+` FROM expenditures WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.BaseID, &e.EquipmentTypeID, &e.ExpendedBy, &e.Quantity, &e.ExpendedAt, &e.CreatedBy, &e.Reason, &e.CreatedAt)
	return e, err
}

func (r *ExpenditureRepo) List(ctx context.Context, scope authz.Scope, f LedgerFilter) ([]models.Expenditure, error) {
	if scope.Empty {
		return []models.Expenditure{}, nil
	}

	var b condBuilder
	if !scope.All {
		b.add("base_id = $%d", scope.BaseID)
	}
	if f.BaseID != nil {
		b.add("base_id = $%d", *f.BaseID)
	}
	if f.EquipmentTypeID != nil {
		b.add("equipment_type_id = $%d", *f.EquipmentTypeID)
	}
	b.dateRange("expended_at", f)

	q := `SELECT ` + expenditureCols + ` FROM expenditures` + b.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenditures []models.Expenditure
	for rows.Next() {
		var e models.Expenditure
		if err := rows.Scan(&e.ID, &e.BaseID, &e.EquipmentTypeID, &e.ExpendedBy, &e.Quantity, &e.ExpendedAt, &e.CreatedBy, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenditures = append(expenditures, e)
	}
	return expenditures, rows.Err()
}

func (r *ExpenditureRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM expenditures WHERE id = $1`, id)
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
