package catalog

import (
	"context"
	"database/sql"
	"errors"

	"wholesale-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	ListAvailable(ctx context.Context) ([]Product, error)
	ListByDistributor(ctx context.Context, distributorID string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID, distributorID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, distributor_id, name, description, image_url, price, quantity, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.DistributorID,
		&p.Name,
		&p.Description,
		&p.ImageURL,
		&p.Price,
		&p.Quantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) ListAvailable(ctx context.Context) ([]Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE quantity > 0
		ORDER BY created_at DESC
	`)
}

func (r *repository) ListByDistributor(ctx context.Context, distributorID string) ([]Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE distributor_id = $1
		ORDER BY created_at DESC
	`, distributorID)
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, distributor_id, name, description, image_url, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`,
		p.ID,
		p.DistributorID,
		p.Name,
		p.Description,
		p.ImageURL,
		p.Price,
		p.Quantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update is a single UPDATE, so it takes the same row lock a checkout takes and
// the two serialize.
func (r *repository) Update(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", p.ID),
	)

	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, image_url = $3, price = $4, quantity = $5, updated_at = NOW()
		WHERE id = $6 AND distributor_id = $7
		RETURNING created_at, updated_at
	`,
		p.Name,
		p.Description,
		p.ImageURL,
		p.Price,
		p.Quantity,
		p.ID,
		p.DistributorID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("product not found for distributor")
		return ErrProductNotFound
	}
	return err
}

// Delete removes the product; order line items keep their snapshot and lose
// only the live reference (ON DELETE SET NULL).
func (r *repository) Delete(ctx context.Context, productID, distributorID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND distributor_id = $2`,
		productID, distributorID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
