package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
)

func TestCollectors_Registran(t *testing.T) {
	c := metrics.New()
	c.ObserveRequest("POST", "/api/invoices/:id/payments", 409, 20*time.Millisecond)
	c.Notification("delivered")
	c.Notification("dropped")
	c.AuditFailure()

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	series := map[string]int{}
	for _, f := range families {
		names[f.GetName()] = true
		series[f.GetName()] = len(f.GetMetric())
	}
	assert.True(t, names["gestion_http_requests_total"])
	assert.True(t, names["gestion_notify_notifications_total"])
	assert.True(t, names["gestion_audit_write_failures_total"])
	assert.Equal(t, 2, series["gestion_notify_notifications_total"], "delivered y dropped")
}

func TestCollectors_NilEsNop(t *testing.T) {
	var c *metrics.Collectors
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", "/health", 200, time.Millisecond)
		c.Notification("failed")
		c.AuditFailure()
		c.InFlight(1)
	})
}
