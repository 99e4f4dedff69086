package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drakos74/multilang-experiments/internal/model"
)

const (
	namespace = "experiments"

	StatusOK    = "ok"
	StatusError = "error"
)

// Observer records the progress of the experiment runner.
type Observer struct {
	phases    *prometheus.CounterVec
	trainings prometheus.Counter
	durations *prometheus.HistogramVec
	gatherer  prometheus.Gatherer
}

// NewObserver creates the runner metrics and registers them on a new registry.
func NewObserver() *Observer {
	registry := prometheus.NewRegistry()
	o, err := NewObserverWith(registry, registry)
	if err != nil {
		// a fresh registry has no collectors to collide with
		panic(err.Error())
	}
	return o
}

// NewObserverWith creates the runner metrics on the given registry.
func NewObserverWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Observer, error) {
	o := &Observer{
		phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "phases_total",
				Help:      "Number of runner phases by outcome.",
			}, []string{"phase", "status"}),
		trainings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trainings_total",
				Help:      "Number of models trained.",
			}),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of the runner phases.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			}, []string{"phase"}),
		gatherer: gatherer,
	}
	for _, c := range []prometheus.Collector{o.phases, o.trainings, o.durations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Phase records the outcome and duration of a runner phase.
func (o *Observer) Phase(phase model.Phase, duration time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	o.phases.WithLabelValues(string(phase), status).Inc()
	o.durations.WithLabelValues(string(phase)).Observe(duration.Seconds())
}

// Trained counts a completed training.
func (o *Observer) Trained() {
	o.trainings.Inc()
}

// Handler exposes the metrics for scraping.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})
}
