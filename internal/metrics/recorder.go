package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the planner's Prometheus collectors on a private registry.
// A nil *Recorder records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	plannedMeals  prometheus.Gauge
	shoppingBuild prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_planner_operations_total",
				Help: "Planner operations by name and result",
			},
			[]string{"operation", "result"},
		),
		plannedMeals: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "recipe_planner_planned_meals",
				Help: "Entries currently in the meal plan",
			},
		),
		shoppingBuild: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_planner_shopping_list_build_seconds",
				Help:    "Time spent deriving the shopping list",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}
}

// Operation counts one call of op. result is "ok" for a nil err, "error"
// otherwise.
func (r *Recorder) Operation(op string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.operations.WithLabelValues(op, result).Inc()
}

// Rejected counts an operation refused without an error condition, such as a
// duplicate meal.
func (r *Recorder) Rejected(op string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op, "rejected").Inc()
}

// SetPlannedMeals records the current meal count.
func (r *Recorder) SetPlannedMeals(n int) {
	if r == nil {
		return
	}
	r.plannedMeals.Set(float64(n))
}

// ObserveShoppingBuild records how long one shopping list build took.
func (r *Recorder) ObserveShoppingBuild(d time.Duration) {
	if r == nil {
		return
	}
	r.shoppingBuild.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
