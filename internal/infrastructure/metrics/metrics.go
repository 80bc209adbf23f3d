package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "givora"

// Verification outcomes
const (
	VerifyPaid      = "paid"
	VerifyDuplicate = "duplicate"
	VerifyRejected  = "rejected"
	VerifyConflict  = "conflict"
)

// Recorder owns the service collectors. A nil Recorder records nothing.
type Recorder struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	donationsCreated *prometheus.CounterVec
	verifications    *prometheus.CounterVec
	gatewayFailures  prometheus.Counter
}

// New registers the collectors on a private registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		donationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donations_created_total",
			Help:      "Donations created by type.",
		}, []string{"type"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Payment verification outcomes.",
		}, []string{"result"}),
		gatewayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_order_failures_total",
			Help:      "Failed gateway order creations.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.donationsCreated,
		r.verifications,
		r.gatewayFailures,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) DonationCreated(donationType string) {
	if r == nil {
		return
	}
	r.donationsCreated.WithLabelValues(donationType).Inc()
}

func (r *Recorder) PaymentVerification(result string) {
	if r == nil {
		return
	}
	r.verifications.WithLabelValues(result).Inc()
}

func (r *Recorder) GatewayFailure() {
	if r == nil {
		return
	}
	r.gatewayFailures.Inc()
}
