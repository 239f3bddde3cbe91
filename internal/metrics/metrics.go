// Package metrics exposes Prometheus collectors for the backup lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapvault_backups_created_total",
		Help: "Total number of snapshots created",
	})

	BackupsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapvault_backups_deleted_total",
		Help: "Total number of snapshots deleted on request",
	})

	SnapshotsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapvault_snapshots_pruned_total",
		Help: "Total number of snapshots removed by retention pruning",
	})

	OperationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapvault_operation_failures_total",
		Help: "Total number of failed backup operations",
	}, []string{"operation"})

	SnapshotCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapvault_snapshots",
		Help: "Number of snapshots currently stored",
	})

	SnapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapvault_snapshot_bytes",
		Help: "Total size in bytes of stored snapshots",
	})
)

// SetSnapshotTotals updates the stored-snapshot gauges from a fresh listing.
func SetSnapshotTotals(count int, bytes int64) {
	SnapshotCount.Set(float64(count))
	SnapshotBytes.Set(float64(bytes))
}
