package account

import "wholesale-be/internal/apperror"

var (
	ErrUnauthorized       = apperror.New(apperror.KindUnauthorized, "unauthorized")
	ErrAccountDeactivated = apperror.New(apperror.KindAccountDeactivated, "outlet account has been deactivated")
	ErrAccountPending     = apperror.New(apperror.KindAccountPending, "outlet account is awaiting approval")
	ErrInvalidCredentials = apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
	ErrOutletNotFound     = apperror.New(apperror.KindOutletNotFound, "outlet not found")
	ErrEmailExists        = apperror.New(apperror.KindEmailExists, "email already registered")
	ErrNoLoginIdentity    = apperror.New(apperror.KindInvalidTransition, "outlet has no login identity; activate it first")
)
