package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Record(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.RecordTransactionApplied("create", "INCOME", 5*time.Millisecond)
	m.RecordTransactionApplied("create", "INCOME", 7*time.Millisecond)
	m.RecordTransactionError("remove", "LEND", "TRANSACTION_NOT_FOUND")
	m.RecordSyncBatch("locked", time.Second)
	m.RecordSyncBatch("applied", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransactionsApplied.WithLabelValues("create", "INCOME")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionErrors.WithLabelValues("remove", "LEND", "TRANSACTION_NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncBatches.WithLabelValues("locked")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SyncBatchDuration))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(metrics.HTTPMetricsMiddleware(m, zap.NewNop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}
