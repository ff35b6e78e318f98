package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validator_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "validator_http_request_duration_seconds",
		Help:    "Request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "validator_http_in_flight",
		Help: "In-flight HTTP requests",
	})
	RequestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validator_http_request_errors_total",
			Help: "Total errors by type",
		}, []string{"type"},
	)
	Validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_validations_total",
			Help: "Campaign validations by family and outcome",
		}, []string{"family", "outcome"},
	)
	PolicyReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_policy_reloads_total",
			Help: "Policy table reloads by result",
		}, []string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, Latency, InFlight, RequestErrors, Validations, PolicyReloads)
}

// ObserveValidation counts one result. outcome is "valid" or the violation kind.
func ObserveValidation(family string, valid bool, kind string) {
	outcome := "valid"
	if !valid {
		outcome = kind
	}
	Validations.WithLabelValues(family, outcome).Inc()
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
