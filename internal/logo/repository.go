package logo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const logoColumns = "id, name, category, png_url, svg_url, description, user_id, created_at, updated_at"

// Repository handles all logo database operations. Its privilege level
// is whatever the injected pool carries: the composition root builds one
// repository on the anonymous read credential for public queries and one
// on the service-role credential for mutations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAll returns logos in the given order. A zero page returns the
// entire catalog.
func (r *Repository) ListAll(ctx context.Context, order Order, page Page) ([]Logo, error) {
	q := "SELECT " + logoColumns + " FROM logos ORDER BY " + order.clause() + page.clause()
	return r.list(ctx, q)
}

// ListByCategory returns logos in one category, ordered by name.
func (r *Repository) ListByCategory(ctx context.Context, category string, page Page) ([]Logo, error) {
	q := "SELECT " + logoColumns + " FROM logos WHERE category = $1 ORDER BY name ASC" + page.clause()
	return r.list(ctx, q, category)
}

// GetByID fetches a single logo by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Logo, error) {
	l := &Logo{}
	err := r.db.QueryRow(ctx,
		"SELECT "+logoColumns+" FROM logos WHERE id = $1", id,
	).Scan(&l.ID, &l.Name, &l.Category, &l.PNGURL, &l.SVGURL, &l.Description, &l.UserID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get logo by id: %w", err)
	}
	return l, nil
}

// SearchByName returns logos whose name contains the substring,
// case-insensitively, ordered by name.
func (r *Repository) SearchByName(ctx context.Context, query string, page Page) ([]Logo, error) {
	return r.Search(ctx, query, "", page)
}

// Search is SearchByName additionally narrowed to logos that carry a
// file of the given format ("png" or "svg"; empty means no narrowing).
func (r *Repository) Search(ctx context.Context, query, format string, page Page) ([]Logo, error) {
	conds := []string{"name ILIKE '%' || $1 || '%'"}
	switch format {
	case "":
	case "png":
		conds = append(conds, "png_url IS NOT NULL")
	case "svg":
		conds = append(conds, "svg_url IS NOT NULL")
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrValidation, format)
	}

	q := "SELECT " + logoColumns + " FROM logos WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY name ASC" + page.clause()
	return r.list(ctx, q, query)
}

// Insert creates a logo record and returns the row with its
// server-assigned id and timestamps.
func (r *Repository) Insert(ctx context.Context, l *Logo) (*Logo, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !ValidCategory(l.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, l.Category)
	}

	created := &Logo{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO logos (name, category, png_url, svg_url, description, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+logoColumns,
		l.Name, l.Category, l.PNGURL, l.SVGURL, l.Description, l.UserID,
	).Scan(&created.ID, &created.Name, &created.Category, &created.PNGURL, &created.SVGURL,
		&created.Description, &created.UserID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert logo: %w", err)
	}
	return created, nil
}

// UpdateFields holds the subset of columns a partial update may touch.
// Nil fields are left unchanged.
type UpdateFields struct {
	Name        *string
	Category    *string
	PNGURL      *string
	SVGURL      *string
	Description *string
}

// Update applies a partial update by id and returns the updated row.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (*Logo, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", fields.Name)
	add("category", fields.Category)
	add("png_url", fields.PNGURL)
	add("svg_url", fields.SVGURL)
	add("description", fields.Description)

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if fields.Category != nil && !ValidCategory(*fields.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *fields.Category)
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE logos SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), logoColumns)

	updated := &Logo{}
	err := r.db.QueryRow(ctx, q, args...).
		Scan(&updated.ID, &updated.Name, &updated.Category, &updated.PNGURL, &updated.SVGURL,
			&updated.Description, &updated.UserID, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update logo: %w", err)
	}
	return updated, nil
}

// Delete removes a logo record by id. Deleting an id that does not exist
// is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM logos WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete logo: %w", err)
	}
	return nil
}

// Count returns the number of catalog records. Used by the database
// diagnostics endpoint.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM logos").Scan(&n); err != nil {
		return 0, fmt.Errorf("count logos: %w", err)
	}
	return n, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Logo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logos: %w", err)
	}
	defer rows.Close()

	logos := []Logo{}
	for rows.Next() {
		var l Logo
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.PNGURL, &l.SVGURL,
			&l.Description, &l.UserID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan logo: %w", err)
		}
		logos = append(logos, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read logos: %w", err)
	}
	return logos, nil
}
