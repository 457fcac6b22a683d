package catalog

import "wholesale-be/internal/apperror"

var (
	ErrProductNotFound = apperror.New(apperror.KindProductNotFound, "product not found")
	ErrUnauthorized    = apperror.New(apperror.KindUnauthorized, "unauthorized")
)
