package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/repository"
)

// User is an account row. Activity owned by the user is attributed to it.
type User struct {
	activity.Actor
	Role activity.Role
}

// UserRepository stores users and their API keys.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, u User) error {
	if u.ID == "" {
		return repository.ErrInvalidInput
	}
	role := u.Role
	if role == "" {
		role = activity.RoleUser
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, username, email, role) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Username, u.Email, role)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Get returns a user by id.
func (r *UserRepository) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, username, email, role FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, repository.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateAPIKey stores the hash of token for userID.
func (r *UserRepository) CreateAPIKey(ctx context.Context, userID, token, description string) error {
	if token == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), userID, time.Now().UTC(), description)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return repository.ErrForeignKeyViolation
		case isUniqueViolation(err):
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolvePrincipal maps a bearer token to the user it was issued to.
func (r *UserRepository) ResolvePrincipal(ctx context.Context, token string) (activity.Principal, error) {
	hash := HashToken(token)
	var p activity.Principal
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.role
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key_hash = ?`, hash).Scan(&p.UserID, &p.Role)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && p.UserID == "") {
		return activity.Principal{}, repository.ErrNotFound
	}
	if err != nil {
		return activity.Principal{}, fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return activity.Principal{}, fmt.Errorf("failed to touch api key: %w", err)
	}
	return p, nil
}

// HashToken returns the stored form of an API key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
