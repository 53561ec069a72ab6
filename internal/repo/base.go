package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/models"
)

// ========================
// BASE REPOSITORY
// ========================

type BaseRepo struct {
	DB *sql.DB
}

func NewBaseRepo(db *sql.DB) *BaseRepo {
	return &BaseRepo{DB: db}
}

func (r *BaseRepo) Create(ctx context.Context, name, code, location string) (models.Base, error) {
	var b models.Base
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO bases (name, code, location)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, code, location`,
		name, code, location,
	).Scan(&b.ID, &b.Name, &b.Code, &b.Location)
	return b, err
}

func (r *BaseRepo) GetByID(ctx context.Context, id int) (models.Base, error) {
	var b models.Base
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, code, location FROM bases WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.Code, &b.Location)
	return b, err
}

func (r *BaseRepo) List(ctx context.Context) ([]models.Base, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, code, location FROM bases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bases []models.Base
	for rows.Next() {
		var b models.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.Location); err != nil {
			return nil, err
		}
		bases = append(bases, b)
	}
	return bases, rows.Err()
}

// Delete removes a base. Transactions referencing it cascade away (schema FK).
func (r *BaseRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM bases WHERE id = $1`, id)
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
