package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/milstock/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userCols = `id, username, password_hash, role, base_id, is_superuser`

func (r *UserRepo) Create(ctx context.Context, username, passwordHash, role string, baseID *int) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role, base_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userCols,
		username, passwordHash, role, baseID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.BaseID, &user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.BaseID, &user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.BaseID, &user.IsSuperuser)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.BaseID, &u.IsSuperuser); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
