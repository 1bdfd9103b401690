package repository

import (
	"database/sql"
	"time"

	"github.com/adityarw/nasabah-scoring-backend/internal/model"
)

// UserRepositoryInterface defines the identity lookups used by the
// request middleware and the seeder.
type UserRepositoryInterface interface {
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	Create(u *model.User) error
}

// UserRepository is the concrete implementation
type UserRepository struct {
	DB *sql.DB
}

// GetByID fetches a user by ID; nil without error when absent.
func (r *UserRepository) GetByID(id string) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at
        FROM users
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at
        FROM users
        WHERE email = $1
    `
	row := r.DB.QueryRow(query, email)

	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *model.User) error {
	u.CreatedAt = time.Now()
	query := `
        INSERT INTO users (id, name, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.DB.Exec(query, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	return err
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
