package live

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics is the process-wide instrument set for live sessions.
type metrics struct {
	activeSessions prometheus.Gauge
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	patchesSent    prometheus.Counter
	errorsTotal    *prometheus.CounterVec
}

var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// RegisterMetrics initializes the package metrics on r. The first
// initialization wins; sessions fall back to the default registerer
// when nothing was registered explicitly.
func RegisterMetrics(r prometheus.Registerer) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = newMetrics(r)
	}
}

func activeMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = newMetrics(prometheus.DefaultRegisterer)
	}
	return globalMetrics
}

func newMetrics(r prometheus.Registerer) *metrics {
	factory := promauto.With(r)

	return &metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "knobs",
			Name:      "active_sessions",
			Help:      "Number of active WebSocket sessions",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knobs",
			Name:      "events_total",
			Help:      "Total number of widget events processed",
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "knobs",
			Name:      "event_duration_seconds",
			Help:      "Event dispatch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "knobs",
			Name:      "patches_sent_total",
			Help:      "Total number of patches sent to clients",
		}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knobs",
			Name:      "session_errors_total",
			Help:      "Total number of session errors by kind",
		}, []string{"kind"}),
	}
}

func recordSessionOpen()  { activeMetrics().activeSessions.Inc() }
func recordSessionClose() { activeMetrics().activeSessions.Dec() }

func recordEvent(eventType, status string, d time.Duration) {
	m := activeMetrics()
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
	m.eventDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

func recordPatches(count int) {
	if count > 0 {
		activeMetrics().patchesSent.Add(float64(count))
	}
}

func recordError(kind string) {
	activeMetrics().errorsTotal.WithLabelValues(kind).Inc()
}
