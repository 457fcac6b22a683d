package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wholesale-be/internal/catalog"
	"wholesale-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// TxRepository is the set of writes that must share one transaction.
type TxRepository interface {
	ProductLocker
	InsertOrder(ctx context.Context, o *Order) error
	DecrementStock(ctx context.Context, productID string, qty int) error
	LockOrder(ctx context.Context, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status, at time.Time) error
}

type Repository interface {
	// WithinTx runs fn in one transaction. Any error from fn rolls back every
	// write fn made.
	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error

	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListByOutlet(ctx context.Context, outletID string) ([]Order, error)
	ListByDistributor(ctx context.Context, distributorID string, filter Filter) ([]Order, error)
	OutletSummary(ctx context.Context, outletID string) (*Summary, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type txRepository struct {
	q querier
}

func (r *repository) WithinTx(ctx context.Context, fn func(tx TxRepository) error) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "WithinTx"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if err := fn(&txRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// LockProducts takes row locks in id order so concurrent checkouts over the
// same products cannot deadlock.
func (t *txRepository) LockProducts(ctx context.Context, productIDs []string) (map[string]catalog.Product, error) {
	rows, err := t.q.QueryContext(ctx, `
		SELECT id, distributor_id, name, description, image_url, price, quantity, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[string]catalog.Product, len(productIDs))
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(
			&p.ID, &p.DistributorID, &p.Name, &p.Description, &p.ImageURL,
			&p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

func (t *txRepository) InsertOrder(ctx context.Context, o *Order) error {
	err := t.q.QueryRowContext(ctx, `
		INSERT INTO orders (id, outlet_id, distributor_id, total, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, o.ID, o.OutletID, o.DistributorID, o.Total, o.Status).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for i, item := range o.Items {
		_, err := t.q.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, line_no, product_id, quantity, unit_price,
				product_name, product_description, product_image_url, distributor_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			item.ID,
			o.ID,
			i+1,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Snapshot.Name,
			item.Snapshot.Description,
			item.Snapshot.ImageURL,
			item.Snapshot.DistributorID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// DecrementStock never lets quantity go negative; a short row is reported as
// insufficient stock.
func (t *txRepository) DecrementStock(ctx context.Context, productID string, qty int) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock.With("productId", productID)
	}
	return nil
}

// LockOrder returns the order with its line items and a row lock on the
// header, or nil when missing.
func (t *txRepository) LockOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(t.q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	orders := []Order{*o}
	if err := attachItems(ctx, t.q, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (t *txRepository) UpdateStatus(ctx context.Context, orderID string, status Status, at time.Time) error {
	_, err := t.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, status, at, orderID)
	return err
}

const orderColumns = `id, outlet_id, distributor_id, total, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OutletID, &o.DistributorID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Items = []LineItem{}
	return &o, nil
}

func (r *repository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	orders := []Order{*o}
	if err := attachItems(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *repository) ListByOutlet(ctx context.Context, outletID string) ([]Order, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE outlet_id = $1
		ORDER BY created_at DESC
	`, outletID)
}

func (r *repository) ListByDistributor(ctx context.Context, distributorID string, filter Filter) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByDistributor"),
		zap.Int("limit", filter.Limit),
		zap.Int("page", filter.Page),
	)

	query := `SELECT ` + orderColumns + ` FROM orders WHERE distributor_id = $1`
	args := []any{distributorID}
	argIndex := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.DateFrom)
		argIndex++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.DateTo)
		argIndex++
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	log.Debug("executing list orders query", zap.String("query", query), zap.Any("args", args))

	return r.listOrders(ctx, query, args...)
}

func (r *repository) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachItems(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the line items of all orders with a single query.
func attachItems(ctx context.Context, q querier, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT
			oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price,
			oi.product_name, oi.product_description, oi.product_image_url, oi.distributor_id,
			p.id IS NOT NULL AS reorderable
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.line_no
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&item.Snapshot.Name, &item.Snapshot.Description, &item.Snapshot.ImageURL, &item.Snapshot.DistributorID,
			&item.Reorderable,
		); err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) OutletSummary(ctx context.Context, outletID string) (*Summary, error) {
	var (
		s    Summary
		last sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COALESCE(SUM(total) FILTER (WHERE status <> 'CANCELLED'), 0),
			MAX(created_at)
		FROM orders
		WHERE outlet_id = $1
	`, outletID).Scan(&s.TotalOrders, &s.Pending, &s.Completed, &s.TotalValue, &last)
	if err != nil {
		return nil, err
	}

	if last.Valid {
		t := last.Time
		s.LastOrderAt = &t
	}
	return &s, nil
}
