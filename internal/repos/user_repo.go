package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sweetshop/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, email, username, password_hash, is_admin, created_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new non-admin user. The caller is responsible for
// hashing the password.
func (r *UserRepo) Create(email, username, hash string) (*domain.User, error) {
	u := domain.User{ID: uuid.NewString(), Email: email, Username: username, Hash: hash}
	_, err := r.DB.Exec(`
	  INSERT INTO users(id, email, username, password_hash, is_admin)
	  VALUES(?, ?, ?, ?, 0)
	`, u.ID, u.Email, u.Username, u.Hash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Taken reports whether the email or username is already registered.
func (r *UserRepo) Taken(email, username string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `
	  SELECT COUNT(*) FROM users
	  WHERE LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)
	`, email, username)
	return n > 0, err
}
