package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// requests counts cache lookups by result.
var requests = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "permgate_cache_requests_total",
		Help: "Number of tagged cache lookups, differentiated by result.",
	},
	[]string{"result"},
)
