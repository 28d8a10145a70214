// Package metrics exposes the Prometheus collectors of the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{
	0.001, 0.002, 0.005,
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5, 10,
}

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "listview",
		Subsystem: "tools",
		Name:      "calls_total",
		Help:      "Total number of tool calls broken down by tool and result.",
	}, []string{"tool", "result"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "listview",
		Subsystem: "tools",
		Name:      "latency_seconds",
		Help:      "Latency distribution for tool calls.",
		Buckets:   latencyBuckets,
	}, []string{"tool", "result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "listview",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by route and status class.",
	}, []string{"route", "result"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "listview",
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "Latency distribution for HTTP requests.",
		Buckets:   latencyBuckets,
	}, []string{"route", "result"})

	viewCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "listview",
		Subsystem: "views",
		Name:      "cache_events_total",
		Help:      "Live view cache events: hit, miss, restore, evict.",
	}, []string{"event"})

	collectionReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "listview",
		Subsystem: "views",
		Name:      "collection_reloads_total",
		Help:      "Number of times a view reloaded its collection.",
	}, []string{"kind"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveTool records one tool call.
func ObserveTool(tool string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	toolCalls.WithLabelValues(tool, result).Inc()
	toolLatency.WithLabelValues(tool, result).Observe(elapsed.Seconds())
}

// ViewCacheEvent counts a live view cache event.
func ViewCacheEvent(event string) {
	viewCache.WithLabelValues(event).Inc()
}

// CollectionReload counts a collection load by a view.
func CollectionReload(kind string) {
	collectionReloads.WithLabelValues(kind).Inc()
}

// Instrument records request count and latency for route.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		result := statusClass(ww.Status())
		httpRequests.WithLabelValues(route, result).Inc()
		httpLatency.WithLabelValues(route, result).Observe(time.Since(start).Seconds())
	})
}

// statusClass buckets a response status; 0 means nothing was written and
// net/http answers 200.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	}
	return "2xx"
}
