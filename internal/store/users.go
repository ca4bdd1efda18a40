package store

import (
	"context"
	"time"

	"goblog/internal/model"
)

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

const createUser = `
INSERT INTO users (email, name, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, email, name, password_hash, created_at
`

// CreateUser inserts a new user. A duplicate email yields
// ErrDuplicateEmail and no row is created.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.Name, arg.PasswordHash, arg.CreatedAt)
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, constraintError(err, "users.email", ErrDuplicateEmail)
}

const getUserByID = `
SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?
`

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?
`

// GetUserByEmail fetches a user by unique email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const countUsers = `
SELECT COUNT(*) FROM users
`

// CountUsers returns the total number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUsers)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const updateUserPassword = `
UPDATE users SET password_hash = ? WHERE id = ?
`

// UpdateUserPassword replaces a user's password hash. Used for
// transparent re-hashing when KDF parameters change.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, id)
	return err
}
