package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentsync",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "talentsync",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "talentsync",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	roomDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentsync",
		Name:      "room_delete_failures_total",
		Help:      "Best-effort room deletions that failed; each one is a potentially leaked remote room",
	})

	llmFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentsync",
		Name:      "llm_fallbacks_total",
		Help:      "Operations that substituted a deterministic fallback after LLM retry exhaustion",
	}, []string{"operation"})

	roomsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentsync",
		Name:      "rooms_reaped_total",
		Help:      "Stale rooms deleted by the reaper job",
	})
)

// RoomDeleteFailure records a swallowed room-deletion error so operators can
// detect leaked rooms.
func RoomDeleteFailure() { roomDeleteFailures.Inc() }

// LLMFallback records a fallback substitution for the given operation
// ("score" or "feedback").
func LLMFallback(operation string) { llmFallbacks.WithLabelValues(operation).Inc() }

// RoomReaped records one stale room cleaned up by the reaper.
func RoomReaped() { roomsReaped.Inc() }

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request counts and latency with Prometheus labels.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}
