package repository

import (
	"context"

	"vwds/internal/models"
)

const (
	userColumns = `id, username, email, password_hash, role, created_at`
	userDup     = "Username or email already exists"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// Create inserts u (PasswordHash already set) and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, string(u.Role))
	created, err := scanUser(row)
	if err != nil {
		return nil, translate(err, userDup)
	}
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "User")
	}
	return u, nil
}

// GetByUsernameAndRole is the login lookup: both must match.
func (r *UserRepository) GetByUsernameAndRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND role = $2`, username, string(role)))
	if err != nil {
		return nil, notFoundOr(err, "User")
	}
	return u, nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update overwrites username, email and role, and the password hash when
// passwordHash is non-empty.
func (r *UserRepository) Update(ctx context.Context, id int64, u *models.User, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE users SET username = $1, email = $2, role = $3 WHERE id = $4`
	args := []any{u.Username, u.Email, string(u.Role), id}
	if passwordHash != "" {
		query = `UPDATE users SET username = $1, email = $2, role = $3, password_hash = $4 WHERE id = $5`
		args = []any{u.Username, u.Email, string(u.Role), passwordHash, id}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, userDup)
	}
	return rowsAffected(res, "User")
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res, "User")
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "users")
}
