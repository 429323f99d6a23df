package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/x", "GET", 200, time.Millisecond)
		m.InvitationsCreated("single", 1)
		m.RsvpAccepted("confirmed")
		m.RsvpRejected("OUT_OF_RANGE")
		m.CodeCollision()
	})
}

func TestCounters(t *testing.T) {
	m := New()
	m.InvitationsCreated("bulk", 3)
	m.InvitationsCreated("bulk", 0)
	m.RsvpAccepted("declined")
	m.CodeCollision()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.invitations.WithLabelValues("bulk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rsvps.WithLabelValues("declined")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codeCollisions))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/stats/view-stats", "GET", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/api/v1/stats/view-stats",status="200"} 1`)
}
