package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	admissionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admissions_created_total",
			Help: "Total number of admissions created",
		},
	)

	ipdPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ipd_promotions_total",
			Help: "Total number of admissions promoted to inpatient",
		},
	)

	discharges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discharges_total",
			Help: "Total number of discharge attempts by outcome",
		},
		[]string{"outcome"},
	)

	treatmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treatment_transitions_total",
			Help: "Total number of treatment item transitions",
		},
		[]string{"type", "status"},
	)

	archivalRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archival_repairs_total",
			Help: "Total number of half-finished discharges completed by reconciliation",
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordAdmissionCreated() {
	admissionsCreated.Inc()
}

func RecordIPDPromotion() {
	ipdPromotions.Inc()
}

func RecordDischarge(outcome string) {
	discharges.WithLabelValues(outcome).Inc()
}

func RecordTreatmentTransition(treatmentType string, status string) {
	treatmentTransitions.WithLabelValues(treatmentType, status).Inc()
}

func RecordArchivalRepair() {
	archivalRepairs.Inc()
}
