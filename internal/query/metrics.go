package query

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache traffic per resource family. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	refetches     *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics registers the cache counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_hits_total",
			Help: "Cache reads served from the store, stale hits included.",
		}, []string{"resource"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_misses_total",
			Help: "Cache reads that required a synchronous fetch.",
		}, []string{"resource"}),
		refetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_refetches_total",
			Help: "Upstream fetches, synchronous and background.",
		}, []string{"resource"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "query_cache_invalidations_total",
			Help: "Key-family invalidations triggered by mutations.",
		}, []string{"resource"}),
	}
	reg.MustRegister(m.hits, m.misses, m.refetches, m.invalidations)
	return m
}

func (m *Metrics) hit(resource string) {
	if m != nil {
		m.hits.WithLabelValues(resource).Inc()
	}
}

func (m *Metrics) miss(resource string) {
	if m != nil {
		m.misses.WithLabelValues(resource).Inc()
	}
}

func (m *Metrics) refetch(resource string) {
	if m != nil {
		m.refetches.WithLabelValues(resource).Inc()
	}
}

func (m *Metrics) invalidate(resource string) {
	if m != nil {
		m.invalidations.WithLabelValues(resource).Inc()
	}
}
