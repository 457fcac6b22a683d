package middleware

import (
	"context"
	"net/http"

	"wholesale-be/internal/auth"
	"wholesale-be/internal/utils"
)

type OutletGate interface {
	RequireActiveOutlet(ctx context.Context, outletID string) error
}

// RequireActiveOutlet re-reads the outlet's status on every request. When the
// outlet is not ACTIVE the session is terminated along with the denial.
func RequireActiveOutlet(gate OutletGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outletID, ok := utils.GetOutletIDFromContext(r.Context())
			if !ok {
				auth.TerminateSession(w)
				utils.WriteError(r.Context(), w, errUnauthorized)
				return
			}

			if err := gate.RequireActiveOutlet(r.Context(), outletID); err != nil {
				utils.WriteError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
