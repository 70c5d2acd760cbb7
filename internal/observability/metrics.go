package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verbridge",
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "verbridge",
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	packetsTranslated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verbridge",
			Subsystem: "translate",
			Name:      "packets_total",
			Help:      "Input packets handled by session translation.",
		},
		[]string{"direction", "target", "outcome"},
	)
	packetsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verbridge",
			Subsystem: "translate",
			Name:      "emitted_total",
			Help:      "Packets emitted after translation, counting fan-out.",
		},
		[]string{"direction", "target"},
	)
	translateErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verbridge",
			Subsystem: "translate",
			Name:      "errors_total",
			Help:      "Per-packet translation errors by kind.",
		},
		[]string{"direction", "kind"},
	)
	translateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "verbridge",
			Subsystem: "translate",
			Name:      "duration_seconds",
			Help:      "Time to decode, translate and encode one packet.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"direction"},
	)
	chainBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verbridge",
			Subsystem: "session",
			Name:      "chain_builds_total",
			Help:      "Translation chain builds at session open.",
		},
		[]string{"native", "target", "success"},
	)
	sessionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verbridge",
			Subsystem: "session",
			Name:      "open",
			Help:      "Sessions currently open.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			packetsTranslated,
			packetsEmitted,
			translateErrors,
			translateDuration,
			chainBuilds,
			sessionsOpen,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordPacket counts one translated input packet and the packets it became.
func RecordPacket(direction, target string, emitted int, duration time.Duration) {
	RegisterMetrics()
	packetsTranslated.WithLabelValues(direction, target, "ok").Inc()
	packetsEmitted.WithLabelValues(direction, target).Add(float64(emitted))
	translateDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// RecordDrop counts one input packet dropped by a per-packet error.
func RecordDrop(direction, target, kind string) {
	RegisterMetrics()
	packetsTranslated.WithLabelValues(direction, target, "dropped").Inc()
	translateErrors.WithLabelValues(direction, kind).Inc()
}

func RecordChainBuild(native, target string, success bool) {
	RegisterMetrics()
	chainBuilds.WithLabelValues(native, target, strconv.FormatBool(success)).Inc()
}

func SessionOpened() {
	RegisterMetrics()
	sessionsOpen.Inc()
}

func SessionClosed() {
	RegisterMetrics()
	sessionsOpen.Dec()
}
