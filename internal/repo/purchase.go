package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

// ========================
// PURCHASE REPOSITORY
// ========================

type PurchaseRepo struct {
	DB *sql.DB
}

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo {
	return &PurchaseRepo{DB: db}
}

const purchaseCols = `id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at`

// Create inserts the purchase and its transaction log entry in one database
// transaction. If the log write fails the purchase is rolled back.
func (r *PurchaseRepo) Create(ctx context.Context, p models.Purchase) (models.Purchase, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Purchase{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO purchases (base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		p.BaseID, p.EquipmentTypeID, p.Quantity, p.UnitCost, p.PurchasedAt, p.CreatedBy, p.Notes,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return models.Purchase{}, err
	}

	qty := p.Quantity
	details := models.LogDetails{Base: &p.BaseID, EquipmentType: &p.EquipmentTypeID, Quantity: &qty}
	if err := insertLog(ctx, tx, p.CreatedBy, models.ActionPurchase, "Purchase", p.ID, details); err != nil {
		return models.Purchase{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Purchase{}, err
	}
	p.FillTotalCost()
	return p, nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id int) (models.Purchase, error) {
	var p models.Purchase
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+purchaseCols+` FROM purchases WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.BaseID, &p.EquipmentTypeID, &p.Quantity, &p.UnitCost, &p.PurchasedAt, &p.CreatedBy, &p.Notes, &p.CreatedAt)
	if err != nil {
		return models.Purchase{}, err
	}
	p.FillTotalCost()
	return p, nil
}

func (r *PurchaseRepo) List(ctx context.Context, scope authz.Scope, f LedgerFilter) ([]models.Purchase, error) {
	if scope.Empty {
		return []models.Purchase{}, nil
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
	b.dateRange("purchased_at", f)

	q := `SELECT ` + purchaseCols + ` FROM purchases` + b.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.BaseID, &p.EquipmentTypeID, &p.Quantity, &p.UnitCost, &p.PurchasedAt, &p.CreatedBy, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.FillTotalCost()
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *PurchaseRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
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
