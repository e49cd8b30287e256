package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PresentationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prezentic", Name: "presentation_ops_total", Help: "Number of presentation service operations by name and result."},
		[]string{"op", "result"},
	)
	CorruptRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prezentic", Name: "corrupt_records_total", Help: "Number of stored values that failed to decode and were treated as absent."},
		[]string{"key"},
	)
	ExportsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prezentic", Name: "exports_rendered_total", Help: "Number of rendered exports by format."},
		[]string{"format"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prezentic", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prezentic", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PresentationOps)
	reg.MustRegister(CorruptRecords)
	reg.MustRegister(ExportsRendered)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
