package render

import "github.com/prometheus/client_golang/prometheus"

var (
	tilesLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tilemap",
		Name:      "tiles_loaded_total",
		Help:      "Number of tiles loaded or created in memory",
	})
	tilesSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tilemap",
		Name:      "tiles_saved_total",
		Help:      "Number of tile persist operations",
	})
	tilesEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tilemap",
		Name:      "tiles_evicted_total",
		Help:      "Number of tiles evicted from the cache",
	})
	draws = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilemap",
		Name:      "draws_total",
		Help:      "Number of executed drawing commands by primitive",
	}, []string{"primitive"})
)

func init() {
	prometheus.MustRegister(tilesLoaded, tilesSaved, tilesEvicted, draws)
}
