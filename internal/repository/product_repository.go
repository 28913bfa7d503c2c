package repository

import (
	"context"
	"database/sql"

	"github.com/rentle/smart-locker/internal/model"
)

// ProductRepo provides read access to the product catalog.  Catalog writes
// happen through the admin UI and are out of scope here.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the provided database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, name, description, city, price_cents, is_active, created_at`

// ListActive returns all active products, optionally filtered by city.
func (r *ProductRepo) ListActive(ctx context.Context, city string) ([]model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE is_active = 1`
	args := []any{}
	if city != "" {
		q += ` AND city = ?`
		args = append(args, city)
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.City, &p.PriceCents, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches one product.  sql.ErrNoRows is passed through for the
// handler to translate into a 404.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ? LIMIT 1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.City, &p.PriceCents, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
