package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("Outlet caller", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), "u-1", "shop@example.com", RoleOutlet, "o-1")

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "u-1", id)
		assert.Equal(t, "shop@example.com", GetUserEmailFromContext(ctx))
		assert.Equal(t, RoleOutlet, GetUserRoleFromContext(ctx))

		outletID, ok := GetOutletIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "o-1", outletID)
	})

	t.Run("Distributor caller has no outlet", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), "d-1", "dist@example.com", RoleDistributor, "")
		_, ok := GetOutletIDFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("Empty context", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, "", GetUserRoleFromContext(context.Background()))
	})
}

func TestWriteError(t *testing.T) {
	ctx := logger.WithRequestID(context.Background(), "req-9")

	t.Run("Domain error keeps details", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := apperror.New(apperror.KindInsufficientStock, "insufficient stock").With("productId", "p-1")

		WriteError(ctx, w, err)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
		assert.Equal(t, "p-1", resp.Error.Details["productId"])
		assert.Equal(t, "req-9", resp.RequestID)
	})

	t.Run("Unknown error is generic", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(ctx, w, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "PERSISTENCE_FAILURE", resp.Error.Code)
		assert.Equal(t, "internal server error", resp.Error.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Empty(t, w.Header().Get("X-Session-Terminated"))
	})

	t.Run("Account status denial ends the session", func(t *testing.T) {
		for _, kind := range []apperror.Kind{apperror.KindAccountDeactivated, apperror.KindAccountPending} {
			w := httptest.NewRecorder()

			WriteError(ctx, w, fmt.Errorf("gate: %w", apperror.New(kind, "account not active")))

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "true", w.Header().Get("X-Session-Terminated"))
			cookie := w.Result().Cookies()
			require.Len(t, cookie, 1)
			assert.Equal(t, "access_token", cookie[0].Name)
			assert.Less(t, cookie[0].MaxAge, 0)
		}
	})
}
