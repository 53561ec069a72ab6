package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/authz"
	"github.com/crucial707/milstock/internal/models"
)

// ========================
// ASSIGNMENT REPOSITORY
// ========================

type AssignmentRepo struct {
	DB *sql.DB
}

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{DB: db}
}

const assignmentCols = `id, base_id, equipment_type_id, assigned_to, quantity, assigned_at, created_by, purpose, created_at`

// Create inserts the assignment and its transaction log entry atomically.
func (r *AssignmentRepo) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Assignment{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO assignments (base_id, equipment_type_id, assigned_to, quantity, assigned_at, created_by, purpose)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		a.BaseID, a.EquipmentTypeID, a.AssignedTo, a.Quantity, a.AssignedAt, a.CreatedBy, a.Purpose,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return models.Assignment{}, err
	}

	qty := a.Quantity
	details := models.LogDetails{Base: &a.BaseID, EquipmentType: &a.EquipmentTypeID, Quantity: &qty}
	if err := insertLog(ctx, tx, a.CreatedBy, models.ActionAssignment, "Assignment", a.ID, details); err != nil {
		return models.Assignment{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Assignment{}, err
	}
	return a, nil
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id int) (models.Assignment, error) {
	var a models.Assignment
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+assignmentCols+` FROM assignments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.BaseID, &a.EquipmentTypeID, &a.AssignedTo, &a.Quantity, &a.AssignedAt, &a.CreatedBy, &a.Purpose, &a.CreatedAt)
	return a, err
}

func (r *AssignmentRepo) List(ctx context.Context, scope authz.Scope, f LedgerFilter) ([]models.Assignment, error) {
	if scope.Empty {
		return []models.Assignment{}, nil
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
	b.dateRange("assigned_at", f)

	q := `SELECT ` + assignmentCols + ` FROM assignments` + b.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.BaseID, &a.EquipmentTypeID, &a.AssignedTo, &a.Quantity, &a.AssignedAt, &a.CreatedBy, &a.Purpose, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *AssignmentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
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
