// Package metrics exposes Prometheus counters for data source traffic,
// viewport fetches and selections.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	SourceRequests *prometheus.CounterVec // endpoint, status
	SourceDuration *prometheus.HistogramVec
	DroppedRecords *prometheus.CounterVec // kind: stop|route|trip

	ViewportResults *prometheus.CounterVec // result: applied|stale|failed|aborted|rejected
	Selections      *prometheus.CounterVec // mode: trip|route|failed

	CacheEntries *prometheus.GaugeVec // cache: route|trip
	Groups       prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busmap_source_requests_total",
			Help: "Requests made to the transit data source.",
		}, []string{"endpoint", "status"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "busmap_source_request_duration_seconds",
			Help:    "Duration of data source requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"endpoint"}),
		DroppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busmap_dropped_records_total",
			Help: "Records dropped because they failed to decode or validate.",
		}, []string{"kind"}),
		ViewportResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busmap_viewport_results_total",
			Help: "Outcome of viewport fetches.",
		}, []string{"result"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "busmap_selections_total",
			Help: "Stop selections by the geometry used to draw them.",
		}, []string{"mode"}),
		CacheEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "busmap_cache_entries",
			Help: "Entries held by the session caches.",
		}, []string{"cache"}),
		Groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "busmap_stop_groups",
			Help: "Stop groups in the current viewport.",
		}),
	}

	reg.MustRegister(
		c.SourceRequests, c.SourceDuration, c.DroppedRecords,
		c.ViewportResults, c.Selections,
		c.CacheEntries, c.Groups,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// ObserveRequest records a data source request. A status of 0 means the
// request never got a response.
func (c *Collector) ObserveRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.SourceRequests.WithLabelValues(endpoint, label).Inc()
	c.SourceDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (c *Collector) ObserveDropped(kind string) {
	c.DroppedRecords.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveViewport(result string) {
	c.ViewportResults.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveSelection(mode string) {
	c.Selections.WithLabelValues(mode).Inc()
}

func (c *Collector) SetCacheEntries(cache string, n int) {
	c.CacheEntries.WithLabelValues(cache).Set(float64(n))
}

func (c *Collector) SetGroups(n int) {
	c.Groups.Set(float64(n))
}
