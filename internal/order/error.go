package order

import "wholesale-be/internal/apperror"

var (
	ErrUnauthorized      = apperror.New(apperror.KindUnauthorized, "unauthorized")
	ErrOrderNotFound     = apperror.New(apperror.KindOrderNotFound, "order not found")
	ErrProductNotFound   = apperror.New(apperror.KindProductNotFound, "product not found")
	ErrInsufficientStock = apperror.New(apperror.KindInsufficientStock, "insufficient stock")
	ErrPriceMismatch     = apperror.New(apperror.KindPriceMismatch, "price has changed, refresh the catalog")
	ErrInvalidTransition = apperror.New(apperror.KindInvalidTransition, "invalid status transition")
	ErrInvalidStatus     = apperror.New(apperror.KindValidation, "invalid order status")
	ErrInvalidQuantity   = apperror.New(apperror.KindValidation, "invalid quantity")
)
