// Package types defines the backup record and inventory state types
package types

import (
	"context"
	"time"
)

// Status represents the load status of the backup inventory
type Status string

const (
	// StatusLoading indicates a fetch of the inventory is in flight
	StatusLoading Status = "loading"
	// StatusReady indicates the last fetch succeeded
	StatusReady Status = "ready"
	// StatusFailed indicates the last fetch failed
	StatusFailed Status = "failed"
)

// Known backup categories. The remote service may add others; categories are
// compared as opaque strings.
const (
	CategoryAutomatic = "Automatic"
	CategoryManual    = "Manual"
)

// KnownCategories lists the categories the console always offers as filters
var KnownCategories = []string{CategoryAutomatic, CategoryManual}

// BackupRecord represents a single backup snapshot as reported by the inventory service
type BackupRecord struct {
	ID        string    `json:"_id"`       // Opaque identifier, restore target
	Filename  string    `json:"filename"`  // Display label, not unique
	Category  string    `json:"type"`      // Automatic, Manual or a server-defined category
	Timestamp time.Time `json:"timestamp"` // When the backup was captured
}

// InventoryState is a point-in-time copy of the inventory store
type InventoryState struct {
	Records      []BackupRecord `json:"records"`
	Status       Status         `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	LoadedAt     time.Time      `json:"loadedAt"`
}

// Service defines the remote backup inventory operations
type Service interface {
	// ListBackups fetches the full record set
	ListBackups(ctx context.Context) ([]BackupRecord, error)

	// CreateBackup asks the service to create a backup of the given category
	CreateBackup(ctx context.Context, category string) error

	// RestoreBackup asks the service to restore the identified backup
	RestoreBackup(ctx context.Context, id string) error
}
