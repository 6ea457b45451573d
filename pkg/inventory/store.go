// Package inventory holds the console's authoritative copy of the remote
// backup inventory and orchestrates remote mutations against it.
package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/metrics"
)

// LoadErrorMessage is shown to the operator when the inventory cannot be fetched
const LoadErrorMessage = "Failed to load backups. Please try again later."

// ErrEmptyID is returned by Restore when no backup id is given
var ErrEmptyID = errors.New("backup id is required")

// Store maintains the inventory state. The lock is held only while the state
// is read or written, never across a remote call, so overlapping loads are
// not serialized: whichever response lands last wins.
type Store struct {
	mu      sync.RWMutex
	state   types.InventoryState
	service types.Service
	logger  *logrus.Logger
	now     func() time.Time
}

// NewStore creates a store backed by the given service. A new store is
// Loading until its first Load completes.
func NewStore(service types.Service, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	metrics.SetInventoryStatus(types.StatusLoading)
	return &Store{
		state: types.InventoryState{
			Records: []types.BackupRecord{},
			Status:  types.StatusLoading,
		},
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Load fetches the full record set and replaces the held records wholesale.
// On failure the store moves to Failed with no records; the returned error
// carries the underlying cause for diagnostics.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state.Status = types.StatusLoading
	s.state.ErrorMessage = ""
	s.mu.Unlock()
	metrics.SetInventoryStatus(types.StatusLoading)

	records, err := s.service.ListBackups(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.WithError(err).Error("Error fetching backups")
		s.state.Status = types.StatusFailed
		s.state.Records = []types.BackupRecord{}
		s.state.ErrorMessage = LoadErrorMessage
		metrics.SetInventoryStatus(types.StatusFailed)
		metrics.InventoryRecords.Set(0)
		return errors.Wrap(err, "failed to load backups")
	}

	s.state.Status = types.StatusReady
	s.state.Records = records
	s.state.ErrorMessage = ""
	s.state.LoadedAt = s.now()
	metrics.SetInventoryStatus(types.StatusReady)
	metrics.InventoryRecords.Set(float64(len(records)))
	metrics.LastLoadTimestamp.Set(float64(s.state.LoadedAt.Unix()))
	s.logger.WithField("count", len(records)).Debug("Backups loaded")
	return nil
}

// CreateManualBackup asks the service for a new Manual backup and, once it is
// accepted, reloads the inventory exactly once. A rejected request leaves the
// state untouched and is the only error returned: a failed reload is a read
// failure, reflected by the Failed status, and the backup still exists.
func (s *Store) CreateManualBackup(ctx context.Context) error {
	if err := s.service.CreateBackup(ctx, types.CategoryManual); err != nil {
		s.logger.WithError(err).Error("Error creating backup")
		return errors.Wrap(err, "failed to create manual backup")
	}
	s.logger.Info("Manual backup created, refreshing backup list")
	if err := s.Load(ctx); err != nil {
		s.logger.WithError(err).Warn("Backup list refresh after manual backup failed")
	}
	return nil
}

// Restore asks the service to restore the identified backup. Restoring does
// not change the inventory, so no reload follows.
func (s *Store) Restore(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	log := s.logger.WithField("backup_id", id)
	if err := s.service.RestoreBackup(ctx, id); err != nil {
		log.WithError(err).Error("Error restoring backup")
		return errors.Wrapf(err, "failed to restore backup %s", id)
	}
	log.Info("Restore requested")
	return nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() types.InventoryState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Records = make([]types.BackupRecord, len(s.state.Records))
	copy(snap.Records, s.state.Records)
	return snap
}

// Find returns the held record with the given id
func (s *Store) Find(id string) (types.BackupRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.state.Records {
		if r.ID == id {
			return r, true
		}
	}
	return types.BackupRecord{}, false
}
