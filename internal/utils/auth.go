package utils

import "context"

// SetUserContext stores the authenticated caller (called by the auth middleware).
// outletID is empty for non-outlet roles.
func SetUserContext(ctx context.Context, id, email, role, outletID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	if outletID != "" {
		ctx = context.WithValue(ctx, OutletIDKey, outletID)
	}
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

// GetOutletIDFromContext returns the outlet account bound to an OUTLET caller.
func GetOutletIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OutletIDKey).(string)
	return id, ok && id != ""
}
