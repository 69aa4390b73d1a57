package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RegistryOp("register", "LOCAL")
		m.RegistrySize(3)
		m.Evicted(1)
		m.SelfPreservation(1, 2, true)
		m.ReplicationBatch("peer", "ok")
		m.ReplicationDropped("peer", "overflow")
		m.TransportRequest("register", "ok", time.Millisecond)
		m.QuarantineSize(1)
		m.CacheFetch("full", "ok")
		m.CacheHashMismatch()
		m.SubscriberAdded()
		m.SubscriberRemoved()
		m.SelfRegistration("accepted")
	})
}

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.Evicted(2)
	m.Evicted(1)
	m.SelfPreservation(10, 17, true)
	m.RegistryOp("register", "LOCAL")
	m.CacheHashMismatch()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.evictions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selfPreservation))
	assert.Equal(t, 17.0, testutil.ToFloat64(m.renewThreshold))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registryOps.WithLabelValues("register", "LOCAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHashMismatch))

	m.SelfPreservation(20, 17, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.selfPreservation))
}

func TestInstrument(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(Instrument(m))
	e.GET("/apps/:appName", func(c echo.Context) error {
		if c.Param("appName") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	for _, path := range []string{"/apps/a", "/apps/b", "/apps/missing", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/apps/:appName", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/apps/:appName", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/boom", "5xx")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RegistrySize(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "myregistry_registry_instances 4"))
}
