package catalog

import (
	"context"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Browse lists products an outlet can order. Callers must have passed the outlet gate.
	Browse(ctx context.Context) ([]Product, error)
	ListOwn(ctx context.Context, distributorID string) ([]Product, error)
	Create(ctx context.Context, distributorID string, input ProductInput) (*Product, error)
	Update(ctx context.Context, distributorID, productID string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, distributorID, productID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Browse(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return products, nil
}

func (s *service) ListOwn(ctx context.Context, distributorID string) ([]Product, error) {
	if distributorID == "" {
		return nil, ErrUnauthorized
	}

	products, err := s.repo.ListByDistributor(ctx, distributorID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, distributorID string, input ProductInput) (*Product, error) {
	if distributorID == "" {
		return nil, ErrUnauthorized
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	p := &Product{
		ID:            uuid.New().String(),
		DistributorID: distributorID,
	}
	applyInput(p, input)

	if err := s.repo.Create(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to create product",
			zap.String("layer", "service"),
			zap.String("distributor_id", distributorID),
			zap.Error(err),
		)
		return nil, apperror.Persistence(err)
	}

	return p, nil
}

func (s *service) Update(ctx context.Context, distributorID, productID string, input ProductInput) (*Product, error) {
	if distributorID == "" {
		return nil, ErrUnauthorized
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, ErrProductNotFound.With("productId", productID)
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	p := &Product{ID: productID, DistributorID: distributorID}
	applyInput(p, input)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperror.Persistence(err)
	}

	logger.FromCtx(ctx).Info("product updated",
		zap.String("product_id", productID),
		zap.Int("quantity", p.Quantity),
	)
	return p, nil
}

func (s *service) Delete(ctx context.Context, distributorID, productID string) error {
	if distributorID == "" {
		return ErrUnauthorized
	}
	if _, err := uuid.Parse(productID); err != nil {
		return ErrProductNotFound.With("productId", productID)
	}
	if err := s.repo.Delete(ctx, productID, distributorID); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

func applyInput(p *Product, input ProductInput) {
	p.Name = input.Name
	p.Description = input.Description
	p.ImageURL = input.ImageURL
	p.Price = input.Price.Round(2)
	p.Quantity = input.Quantity
}
