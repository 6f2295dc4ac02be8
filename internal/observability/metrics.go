package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store-call metrics share one name and label set across the three services
// so dashboards can be reused: {service, target, operation}.
var (
	storeCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loom_store_call_duration_seconds",
		Help:    "Latency of data-store and cache calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "target", "operation"})

	storeCallErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loom_store_call_errors_total",
		Help: "Failed data-store and cache calls.",
	}, []string{"service", "target", "operation"})
)

// Annotator records uniform metrics around store and cache calls. Services
// construct one per process and wrap repository calls with Observe.
type Annotator struct {
	service string
}

// NewAnnotator returns a call-site annotator labelled with the service name.
func NewAnnotator(service string) *Annotator {
	return &Annotator{service: service}
}

// Observe runs fn and records its duration under (target, operation).
// Failures additionally bump the error counter. The inner error is returned
// unchanged.
func (a *Annotator) Observe(ctx context.Context, target, operation string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	storeCallDuration.WithLabelValues(a.service, target, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		storeCallErrors.WithLabelValues(a.service, target, operation).Inc()
	}
	return err
}
