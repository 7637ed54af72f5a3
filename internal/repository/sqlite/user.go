package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The caller supplies Username, PasswordHash,
// and Role; ID and CreatedAt are generated here.
//
// The users table has a UNIQUE constraint on username, but callers
// should not rely on it for the conflict response: the service layer
// does its own existence check first (see service.AuthService.Register).
// A violation that slips through surfaces as a plain storage error.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByUsername does a case-sensitive exact-match lookup.
// SQLite's = on TEXT is case-sensitive by default, which is exactly the
// uniqueness rule we want ("Alice" and "alice" are different accounts).
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user by username %q: %w", username, err)
	}

	return &u, nil
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// CountUsers returns the total number of registered users. The registration
// flow uses it for the first-user-becomes-admin bootstrap rule.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return count, nil
}
