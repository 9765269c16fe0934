package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohdfarhan7/michelanglo/internal/health"
)

var (
	// Auth metrics

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "authsvc",
		Name:      "registrations_total",
		Help:      "Total successful user registrations.",
	})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authsvc",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	OTPSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "authsvc",
		Name:      "otp_sent_total",
		Help:      "Total one-time codes issued.",
	})

	OTPVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authsvc",
		Name:      "otp_verifications_total",
		Help:      "Total one-time code verification attempts, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "authsvc",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authsvc",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		OTPSentTotal,
		OTPVerificationsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	status := http.StatusOK
	if result.Status != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
