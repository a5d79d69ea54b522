package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks upstream signal providers and the signal cache.
type ProviderMetrics struct {
	calls     *prometheus.CounterVec
	failures  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	cacheHit  *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
}

// NewProviderMetrics registers upstream-provider metrics on the registerer.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	if reg == nil {
		return &ProviderMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_calls_total",
		Help: "Upstream provider calls attempted.",
	}, []string{"provider"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_failures_total",
		Help: "Upstream provider calls that failed or timed out.",
	}, []string{"provider"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_latency_seconds",
		Help:    "Upstream provider call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_cache_hits_total",
		Help: "Signal cache hits by signal type.",
	}, []string{"signal"})
	cacheMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_cache_misses_total",
		Help: "Signal cache misses by signal type.",
	}, []string{"signal"})
	reg.MustRegister(calls, failures, latency, cacheHit, cacheMiss)
	return &ProviderMetrics{
		calls:     calls,
		failures:  failures,
		latency:   latency,
		cacheHit:  cacheHit,
		cacheMiss: cacheMiss,
	}
}

// ObserveCall records one provider round trip.
func (p *ProviderMetrics) ObserveCall(provider string, duration time.Duration, err error) {
	if p == nil || p.calls == nil {
		return
	}
	label := normalizeLabel(provider)
	p.calls.WithLabelValues(label).Inc()
	p.latency.WithLabelValues(label).Observe(duration.Seconds())
	if err != nil {
		p.failures.WithLabelValues(label).Inc()
	}
}

// IncCacheHit increments the cache hit counter for the signal type.
func (p *ProviderMetrics) IncCacheHit(signal string) {
	if p == nil || p.cacheHit == nil {
		return
	}
	p.cacheHit.WithLabelValues(normalizeLabel(signal)).Inc()
}

// IncCacheMiss increments the cache miss counter for the signal type.
func (p *ProviderMetrics) IncCacheMiss(signal string) {
	if p == nil || p.cacheMiss == nil {
		return
	}
	p.cacheMiss.WithLabelValues(normalizeLabel(signal)).Inc()
}
