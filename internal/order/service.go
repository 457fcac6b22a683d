package order

import (
	"context"
	"time"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/metrics"
	"wholesale-be/internal/utils"
	"wholesale-be/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AccountGate decides whether an outlet may transact right now.
type AccountGate interface {
	RequireActiveOutlet(ctx context.Context, outletID string) error
}

type Service interface {
	PlaceOrder(ctx context.Context, outletID string, req PlaceOrderRequest) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, distributorID string, status Status) (*Order, error)

	ListOutletOrders(ctx context.Context, outletID string) ([]Order, error)
	GetOrder(ctx context.Context, orderID string, caller Caller) (*Order, error)
	ListDistributorOrders(ctx context.Context, distributorID string, filter Filter) ([]Order, error)
	OutletSummary(ctx context.Context, outletID string) (*Summary, error)
}

type service struct {
	repo Repository
	gate AccountGate
	now  func() time.Time
}

func NewService(repo Repository, gate AccountGate) Service {
	return &service{repo: repo, gate: gate, now: time.Now}
}

// PlaceOrder splits one checkout into an order per distributor. Locking,
// validation, inserts and stock decrements share one transaction, so either
// every order persists or none does.
func (s *service) PlaceOrder(ctx context.Context, outletID string, req PlaceOrderRequest) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("outlet_id", outletID),
	)
	timer := metrics.StartTimer()

	if outletID == "" {
		return nil, ErrUnauthorized
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.gate.RequireActiveOutlet(ctx, outletID); err != nil {
		return nil, err
	}

	lines := make([]CheckoutLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = CheckoutLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}

	var orders []Order
	err := s.repo.WithinTx(ctx, func(tx TxRepository) error {
		products, err := ValidateStock(ctx, tx, lines)
		if err != nil {
			return err
		}

		merged := mergeLines(lines)
		orders = buildOrders(outletID, SplitByDistributor(merged, products), products, s.now())

		for i := range orders {
			if err := tx.InsertOrder(ctx, &orders[i]); err != nil {
				return err
			}
		}
		for _, l := range merged {
			if err := tx.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.Default.Counter("checkout_failed_total").Add(ctx, 1)
		if apperror.KindOf(err) == "" {
			log.Error("checkout failed", zap.Error(err))
		} else {
			log.Info("checkout rejected", zap.String("kind", string(apperror.KindOf(err))))
		}
		return nil, apperror.Persistence(err)
	}

	metrics.Default.Counter("orders_placed_total").Add(ctx, int64(len(orders)))
	log.Info("checkout completed",
		zap.Int("orders", len(orders)),
		zap.Int("lines", len(lines)),
		zap.Duration("duration", timer.Duration()),
	)
	return orders, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Only the owning
// distributor may do so.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID, distributorID string, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", orderID),
	)

	if distributorID == "" {
		return nil, ErrUnauthorized
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus.With("status", string(status))
	}

	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrOrderNotFound.With("orderId", orderID)
	}

	var updated *Order
	err := s.repo.WithinTx(ctx, func(tx TxRepository) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound.With("orderId", orderID)
		}
		if o.DistributorID != distributorID {
			return ErrUnauthorized
		}
		if err := Transition(o.Status, status); err != nil {
			return err
		}

		at := s.now()
		if err := tx.UpdateStatus(ctx, orderID, status, at); err != nil {
			return err
		}
		log = log.With(zap.String("from", string(o.Status)))
		o.Status = status
		o.UpdatedAt = at
		updated = o
		return nil
	})
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	metrics.Default.Counter("order_transitions_total").Add(ctx, 1,
		metric.WithAttributes(attribute.String("to", string(status))))
	log.Info("order status changed", zap.String("to", string(status)))
	return updated, nil
}

func (s *service) ListOutletOrders(ctx context.Context, outletID string) ([]Order, error) {
	if outletID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.gate.RequireActiveOutlet(ctx, outletID); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListByOutlet(ctx, outletID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return orders, nil
}

// GetOrder returns an order to its outlet or its distributor. Other callers
// get ErrUnauthorized.
func (s *service) GetOrder(ctx context.Context, orderID string, caller Caller) (*Order, error) {
	if caller.Role == utils.RoleOutlet {
		if caller.OutletID == "" {
			return nil, ErrUnauthorized
		}
		if err := s.gate.RequireActiveOutlet(ctx, caller.OutletID); err != nil {
			return nil, err
		}
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrOrderNotFound.With("orderId", orderID)
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	switch caller.Role {
	case utils.RoleOutlet:
		if o.OutletID == caller.OutletID {
			return o, nil
		}
	case utils.RoleDistributor:
		if o.DistributorID == caller.UserID {
			return o, nil
		}
	}
	return nil, ErrUnauthorized
}

func (s *service) ListDistributorOrders(ctx context.Context, distributorID string, filter Filter) ([]Order, error) {
	if distributorID == "" {
		return nil, ErrUnauthorized
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus.With("status", string(*filter.Status))
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	orders, err := s.repo.ListByDistributor(ctx, distributorID, filter)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return orders, nil
}

func (s *service) OutletSummary(ctx context.Context, outletID string) (*Summary, error) {
	if outletID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.gate.RequireActiveOutlet(ctx, outletID); err != nil {
		return nil, err
	}

	summary, err := s.repo.OutletSummary(ctx, outletID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return summary, nil
}
