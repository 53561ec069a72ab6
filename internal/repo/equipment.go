package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/models"
)

// ========================
// EQUIPMENT TYPE REPOSITORY
// ========================

type EquipmentTypeRepo struct {
	DB *sql.DB
}

func NewEquipmentTypeRepo(db *sql.DB) *EquipmentTypeRepo {
	return &EquipmentTypeRepo{DB: db}
}

func (r *EquipmentTypeRepo) Create(ctx context.Context, name, category, description, unit string) (models.EquipmentType, error) {
	var e models.EquipmentType
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO equipment_types (name, category, description, unit)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, category, description, unit`,
		name, category, description, unit,
	).Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.Unit)
	return e, err
}

func (r *EquipmentTypeRepo) GetByID(ctx context.Context, id int) (models.EquipmentType, error) {
	var e models.EquipmentType
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, category, description, unit FROM equipment_types WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.Unit)
	return e, err
}

func (r *EquipmentTypeRepo) List(ctx context.Context) ([]models.EquipmentType, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, category, description, unit FROM equipment_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.EquipmentType
	for rows.Next() {
		var e models.EquipmentType
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.Unit); err != nil {
			return nil, err
		}
		types = append(types, e)
	}
	return types, rows.Err()
}

func (r *EquipmentTypeRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM equipment_types WHERE id = $1`, id)
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
