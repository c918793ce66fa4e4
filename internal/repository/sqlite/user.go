package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/arefin/blog-api/internal/apperror"
	"github.com/arefin/blog-api/internal/model"
	"github.com/arefin/blog-api/internal/repository"
)

// UserDB implements repository.UserRepository on the shared connection
// pool. Obtain one via DB.Users().
type UserDB struct {
	db *DB
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{db: db}
}

// Create inserts a new user. The ID (an xid — 20 chars, URL-safe,
// time-sortable) and timestamps are generated here and written back into
// the passed struct.
//
// A violation of the UNIQUE(email) constraint is translated to
// apperror.ErrConflict so the service layer can report "email already
// registered" without knowing any SQL.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.get(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email — the login lookup.
// Returns apperror.ErrNotFound if no user is registered with that email.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.get(ctx, `WHERE email = ?`, email)
}

func (u *UserDB) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var usr model.User

	err := u.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&usr.ID,
		&usr.Name,
		&usr.Email,
		&usr.PasswordHash,
		&usr.CreatedAt,
		&usr.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &usr, nil
}

// Upsert creates the user when no account with the email exists and
// otherwise refreshes the name, keeping the existing internal ID and
// password hash. Used by the OAuth login path, where the email is the
// stable external key.
func (u *UserDB) Upsert(ctx context.Context, user *model.User) error {
	existing, err := u.GetByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return u.Create(ctx, user)
		}
		return err
	}

	user.ID = existing.ID
	user.PasswordHash = existing.PasswordHash
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()

	_, err = u.db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		user.Name,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for this, so
// we match the stable message the engine produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
