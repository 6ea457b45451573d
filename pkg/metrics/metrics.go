// Package metrics provides Prometheus metrics for backup console operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
)

// Prometheus metrics
var (
	// RemoteRequestCount tracks calls made to the backup inventory service
	RemoteRequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backup_console_remote_requests_total",
		Help: "The total number of requests sent to the backup inventory service",
	}, []string{"operation", "status"})

	// RemoteRequestDuration measures time taken by inventory service calls
	RemoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backup_console_remote_request_duration_seconds",
		Help:    "Time taken by requests to the backup inventory service",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// InventoryRecords tracks the number of records held by the inventory store
	InventoryRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backup_console_inventory_records",
		Help: "Number of backup records currently held by the console",
	})

	// InventoryStatus is 1 for the current inventory status and 0 for the others
	InventoryStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backup_console_inventory_status",
		Help: "Current load status of the backup inventory",
	}, []string{"status"})

	// LastLoadTimestamp records the time of the last successful inventory load
	LastLoadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backup_console_last_load_timestamp",
		Help: "Timestamp of the last successful inventory load",
	})
)

// Outcome labels for RemoteRequestCount
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// SetInventoryStatus flips the status gauge to the given status
func SetInventoryStatus(status types.Status) {
	for _, s := range []types.Status{types.StatusLoading, types.StatusReady, types.StatusFailed} {
		value := 0.0
		if s == status {
			value = 1
		}
		InventoryStatus.WithLabelValues(string(s)).Set(value)
	}
}
