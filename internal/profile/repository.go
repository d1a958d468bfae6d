// Package profile manages operator accounts and their persistence.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile represents a registered operator account.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"displayName,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a profile does not exist.
var ErrNotFound = errors.New("profile not found")

// ErrAlreadyExists is returned when an email is already registered.
var ErrAlreadyExists = errors.New("profile already exists")

// Repository handles all profile database operations. It must be
// constructed on the service-role pool; the anonymous read role has no
// access to the profiles table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile and returns the created record.
func (r *Repository) Create(ctx context.Context, email, passwordHash string, displayName *string) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO profiles (email, password_hash, display_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, password_hash, display_name, created_at, updated_at`,
		email, passwordHash, displayName,
	).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// GetByID fetches a profile by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.get(ctx,
		`SELECT id, email, password_hash, display_name, created_at, updated_at
		 FROM profiles WHERE id = $1`, id)
}

// GetByEmail fetches a profile by its email address.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.get(ctx,
		`SELECT id, email, password_hash, display_name, created_at, updated_at
		 FROM profiles WHERE email = $1`, email)
}

// Update changes a profile's display name and returns the updated record.
func (r *Repository) Update(ctx context.Context, id string, displayName *string) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(ctx,
		`UPDATE profiles SET display_name = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING id, email, password_hash, display_name, created_at, updated_at`,
		displayName, id,
	).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (r *Repository) get(ctx context.Context, query string, arg any) (*Profile, error) {
	p := &Profile{}
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
