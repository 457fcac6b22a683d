package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Counter("orders_placed_total").Add(ctx, 1)
		}()
	}
	wg.Wait()
	r.Counter("orders_placed_total").Add(ctx, 5)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(55), snap["orders_placed_total"])
}

func TestCounter_SumsAcrossAttributes(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	denied := r.Counter("gate_denied_total")
	denied.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "PENDING")))
	denied.Add(ctx, 2, metric.WithAttributes(attribute.String("status", "INACTIVE")))

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap["gate_denied_total"])
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	r.Counter("orders_placed_total").Add(ctx, 1)
	r.Counter("orders_placed_total").Add(ctx, 1)
	r.Counter("gate_denied_total").Add(ctx, 1)

	assert.Equal(t, r.Counter("gate_denied_total"), r.Counter("gate_denied_total"))
	names, err := r.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gate_denied_total", "orders_placed_total"}, names)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body["orders_placed_total"])
}

func TestRegistry_Shutdown(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	r.Counter("rate_limited_total").Add(ctx, 1)

	require.NoError(t, r.Shutdown(ctx))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
