package benchmark

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver receives sweep progress. Implementations must be safe
// for concurrent use; workers report from their own goroutines.
type MetricsObserver interface {
	// OnInstance is called after mapper tried to embed one instance.
	OnInstance(mapper string, mapped bool, d time.Duration)
	// OnValidation is called after an embedded instance was cross
	// validated; validated is false when it was too large to solve.
	OnValidation(mapper string, validated bool)
	// OnShape is called when a worker finished one shape.
	OnShape(d time.Duration)
}

// NoopMetricsObserver discards every observation.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnInstance(string, bool, time.Duration) {}
func (NoopMetricsObserver) OnValidation(string, bool)              {}
func (NoopMetricsObserver) OnShape(time.Duration)                  {}

// PrometheusObserver exports sweep progress as Prometheus metrics.
type PrometheusObserver struct {
	instances   *prometheus.CounterVec
	transform   *prometheus.HistogramVec
	validations *prometheus.CounterVec
	shapes      prometheus.Histogram
}

// NewPrometheusObserver creates the collectors and registers them with reg.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		instances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quboembed_instances_total",
			Help: "Instances offered to a mapper, by outcome",
		}, []string{"mapper", "outcome"}),
		transform: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quboembed_transform_seconds",
			Help:    "Latency of one embedding attempt",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"mapper"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quboembed_validations_total",
			Help: "Cross validations of embedded instances, by outcome",
		}, []string{"mapper", "outcome"}),
		shapes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quboembed_shape_seconds",
			Help:    "Time a worker spent on one shape",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{o.instances, o.transform, o.validations, o.shapes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) OnInstance(mapper string, mapped bool, d time.Duration) {
	outcome := "mapped"
	if !mapped {
		outcome = "infeasible"
	}
	o.instances.WithLabelValues(mapper, outcome).Inc()
	o.transform.WithLabelValues(mapper).Observe(d.Seconds())
}

func (o *PrometheusObserver) OnValidation(mapper string, validated bool) {
	outcome := "validated"
	if !validated {
		outcome = "skipped"
	}
	o.validations.WithLabelValues(mapper, outcome).Inc()
}

func (o *PrometheusObserver) OnShape(d time.Duration) { o.shapes.Observe(d.Seconds()) }
