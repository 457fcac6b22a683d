package account

import (
	"context"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CheckAccountStatus is a pure read of the outlet's lifecycle status.
func (s *service) CheckAccountStatus(ctx context.Context, outletID string) (OutletStatus, error) {
	if outletID == "" {
		return "", ErrUnauthorized
	}

	status, err := s.repo.GetOutletStatus(ctx, outletID)
	if err != nil {
		return "", apperror.Persistence(err)
	}
	return status, nil
}

// RequireActiveOutlet fails closed unless the outlet is ACTIVE right now. It is
// evaluated on every outlet request; a valid session token is not enough.
func (s *service) RequireActiveOutlet(ctx context.Context, outletID string) error {
	status, err := s.CheckAccountStatus(ctx, outletID)
	if apperror.Is(err, apperror.KindOutletNotFound) {
		status, err = "", nil
	}
	if err != nil {
		return err
	}

	if gateErr := statusError(status); gateErr != nil {
		metrics.Default.Counter("gate_denied_total").Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", string(status))))
		logger.FromCtx(ctx).Warn("outlet gate denied",
			zap.String("outlet_id", outletID),
			zap.String("status", string(status)),
		)
		return gateErr
	}
	return nil
}

// statusError maps a lifecycle status to the caller-visible gate outcome.
// Unknown or missing statuses are treated as deactivated.
func statusError(status OutletStatus) error {
	switch status {
	case StatusActive:
		return nil
	case StatusPending:
		return ErrAccountPending
	default:
		return ErrAccountDeactivated
	}
}
