package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/google/uuid"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const selectUser = `SELECT id, name, email, role, department, phone, COALESCE(password_hash, ''), created_at FROM users`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, name, email, role, department, phone, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.Role, u.Department, u.Phone, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		return models.User{}, mapWriteError(err)
	}
	return u, nil
}

// ==========================
// Update User
// ==========================
func (r *UserRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	err := r.DB.QueryRowContext(ctx,
		`UPDATE users SET name = $2, email = $3, role = $4, department = $5, phone = $6, password_hash = $7
		 WHERE id = $1
		 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.Role, u.Department, u.Phone, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user")
	}
	if err != nil {
		return models.User{}, mapWriteError(err)
	}
	return u, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user")
	}
	return u, err
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+` WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user")
	}
	return u, err
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser+` ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
