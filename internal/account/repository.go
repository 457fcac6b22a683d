package account

import (
	"context"
	"database/sql"
	"errors"

	"wholesale-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetOutlet(ctx context.Context, outletID string) (*Outlet, error)
	GetOutletStatus(ctx context.Context, outletID string) (OutletStatus, error)
	ListOutlets(ctx context.Context) ([]Outlet, error)
	CreateOutlet(ctx context.Context, o *Outlet) error
	ActivateOutlet(ctx context.Context, outletID string, u *User) (*Outlet, error)
	UpdateOutletStatus(ctx context.Context, outletID string, status OutletStatus) (*Outlet, error)
	HasLoginIdentity(ctx context.Context, outletID string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const outletColumns = `id, name, status, phone, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOutlet(row scanner) (*Outlet, error) {
	var o Outlet
	err := row.Scan(&o.ID, &o.Name, &o.Status, &o.Phone, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOutletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByEmail returns nil, nil when no identity has the email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, role, outlet_id, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.OutletID, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetOutlet(ctx context.Context, outletID string) (*Outlet, error) {
	return scanOutlet(r.db.QueryRowContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE id = $1`, outletID))
}

func (r *repository) GetOutletStatus(ctx context.Context, outletID string) (OutletStatus, error) {
	var status OutletStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM outlets WHERE id = $1`, outletID,
	).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOutletNotFound
	}
	return status, err
}

func (r *repository) ListOutlets(ctx context.Context) ([]Outlet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+outletColumns+` FROM outlets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlets := []Outlet{}
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, err
		}
		outlets = append(outlets, *o)
	}
	return outlets, rows.Err()
}

func (r *repository) CreateOutlet(ctx context.Context, o *Outlet) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO outlets (id, name, status, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, o.ID, o.Name, o.Status, o.Phone).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// ActivateOutlet provisions the login identity and flips the outlet to ACTIVE
// in one transaction.
func (r *repository) ActivateOutlet(ctx context.Context, outletID string, u *User) (*Outlet, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ActivateOutlet"),
		zap.String("outlet_id", outletID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM outlets WHERE id = $1 FOR UPDATE`, outletID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOutletNotFound
	}
	if err != nil {
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password, role, outlet_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, u.ID, u.Email, u.Password, u.Role, outletID).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Warn("email already registered", zap.String("email", u.Email))
			return nil, ErrEmailExists
		}
		return nil, err
	}

	outlet, err := scanOutlet(tx.QueryRowContext(ctx, `
		UPDATE outlets
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+outletColumns,
		StatusActive, outletID,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("outlet activated", zap.String("user_id", u.ID))
	return outlet, nil
}

func (r *repository) UpdateOutletStatus(ctx context.Context, outletID string, status OutletStatus) (*Outlet, error) {
	return scanOutlet(r.db.QueryRowContext(ctx, `
		UPDATE outlets
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+outletColumns,
		status, outletID,
	))
}

func (r *repository) HasLoginIdentity(ctx context.Context, outletID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE outlet_id = $1)`, outletID,
	).Scan(&exists)
	return exists, err
}
