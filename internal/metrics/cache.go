package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "blockinsight7000",
	Subsystem: "cache",
	Name:      "events_total",
	Help:      "Count of confirmation-gated cache events (hit, miss, stored, rejected, evicted).",
}, []string{"cache", "event"})

// Cache counts confirmation-gated cache events per cache name.
type Cache struct{}

// NewCache constructs a Cache metrics collector.
func NewCache() *Cache {
	return &Cache{}
}

func (Cache) Hit(cache string)      { cacheEventsTotal.WithLabelValues(cache, "hit").Inc() }
func (Cache) Miss(cache string)     { cacheEventsTotal.WithLabelValues(cache, "miss").Inc() }
func (Cache) Stored(cache string)   { cacheEventsTotal.WithLabelValues(cache, "stored").Inc() }
func (Cache) Rejected(cache string) { cacheEventsTotal.WithLabelValues(cache, "rejected").Inc() }
func (Cache) Evicted(cache string)  { cacheEventsTotal.WithLabelValues(cache, "evicted").Inc() }
