package mirror

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gitscope",
		Subsystem: "mirror",
		Name:      "runs_total",
		Help:      "Number of synchronization runs started.",
	})

	syncedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gitscope",
		Subsystem: "mirror",
		Name:      "commits_synced_total",
		Help:      "Number of commits fetched and staged for persistence.",
	})

	prunedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gitscope",
		Subsystem: "mirror",
		Name:      "commits_pruned_total",
		Help:      "Number of commits deleted because they left remote history.",
	})

	flushesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gitscope",
		Subsystem: "mirror",
		Name:      "flushes_total",
		Help:      "Number of staged commit batches flushed to the database.",
	})
)
