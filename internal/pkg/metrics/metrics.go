package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry with the HTTP and invitation collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	invitations    *prometheus.CounterVec
	rsvps          *prometheus.CounterVec
	codeCollisions prometheus.Counter
	rejectedRsvps  *prometheus.CounterVec
}

// New builds a registry with Go runtime and process collectors plus the app metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invitations_created_total",
			Help: "Invitations created, by source (single or bulk).",
		}, []string{"source"}),
		rsvps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_submissions_total",
			Help: "Accepted RSVP submissions by resulting status.",
		}, []string{"status"}),
		rejectedRsvps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_rejections_total",
			Help: "Rejected RSVP submissions by reason.",
		}, []string{"reason"}),
		codeCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invitation_code_collisions_total",
			Help: "Generated codes discarded because they were already taken.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.invitations, m.rsvps, m.rejectedRsvps, m.codeCollisions)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) InvitationsCreated(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invitations.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) RsvpAccepted(status string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(status).Inc()
}

func (m *Metrics) RsvpRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedRsvps.WithLabelValues(reason).Inc()
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}
	m.codeCollisions.Inc()
}
