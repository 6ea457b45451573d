package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
)

// fakeService is an in-memory inventory service
type fakeService struct {
	mu         sync.Mutex
	records    []types.BackupRecord
	listErr    error
	createErr  error
	restoreErr error

	listCalls    int
	createCalls  []string
	restoreCalls []string
}

func (f *fakeService) ListBackups(ctx context.Context) ([]types.BackupRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.BackupRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeService) CreateBackup(ctx context.Context, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, category)
	if f.createErr != nil {
		return f.createErr
	}
	n := len(f.records) + 1
	f.records = append([]types.BackupRecord{{
		ID:        fmt.Sprintf("new-%d", n),
		Filename:  fmt.Sprintf("backup-%d.tar.gz", n),
		Category:  category,
		Timestamp: time.Now(),
	}}, f.records...)
	return nil
}

func (f *fakeService) RestoreBackup(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restoreCalls = append(f.restoreCalls, id)
	return f.restoreErr
}

func seed(n int) []types.BackupRecord {
	records := make([]types.BackupRecord, 0, n)
	for i := 1; i <= n; i++ {
		category := types.CategoryAutomatic
		if i%2 == 0 {
			category = types.CategoryManual
		}
		records = append(records, types.BackupRecord{
			ID:        fmt.Sprintf("id-%d", i),
			Filename:  fmt.Sprintf("backup-%d.tar.gz", i),
			Category:  category,
			Timestamp: time.Date(2025, 1, i, 0, 0, 0, 0, time.UTC),
		})
	}
	return records
}

func TestNewStoreStartsLoading(t *testing.T) {
	store := NewStore(&fakeService{}, nil)

	snap := store.Snapshot()
	assert.Equal(t, types.StatusLoading, snap.Status)
	assert.Empty(t, snap.Records)
	assert.Empty(t, snap.ErrorMessage)
}

func TestLoadSuccess(t *testing.T) {
	svc := &fakeService{records: seed(7)}
	store := NewStore(svc, nil)

	require.NoError(t, store.Load(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, types.StatusReady, snap.Status)
	assert.Equal(t, seed(7), snap.Records)
	assert.Empty(t, snap.ErrorMessage)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoadFailureClearsRecords(t *testing.T) {
	svc := &fakeService{records: seed(3)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	svc.listErr = errors.New("dial tcp: connection refused")
	err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	snap := store.Snapshot()
	assert.Equal(t, types.StatusFailed, snap.Status)
	assert.Empty(t, snap.Records)
	assert.Equal(t, LoadErrorMessage, snap.ErrorMessage)
}

func TestLoadRecoversAfterFailure(t *testing.T) {
	svc := &fakeService{listErr: errors.New("boom")}
	store := NewStore(svc, nil)
	require.Error(t, store.Load(context.Background()))

	svc.listErr = nil
	svc.records = seed(2)
	require.NoError(t, store.Load(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, types.StatusReady, snap.Status)
	assert.Empty(t, snap.ErrorMessage)
	assert.Len(t, snap.Records, 2)
}

func TestLoadReplacesRecordsWholesale(t *testing.T) {
	svc := &fakeService{records: seed(5)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	svc.records = seed(5)[3:]
	require.NoError(t, store.Load(context.Background()))

	assert.Equal(t, []string{"id-4", "id-5"}, recordIDs(store.Snapshot().Records))
}

func TestLoadIsIdempotent(t *testing.T) {
	svc := &fakeService{records: seed(6)}
	store := NewStore(svc, nil)

	require.NoError(t, store.Load(context.Background()))
	first := store.Snapshot().Records
	require.NoError(t, store.Load(context.Background()))
	second := store.Snapshot().Records

	assert.Equal(t, first, second)
}

func TestCreateManualBackupReloadsOnce(t *testing.T) {
	svc := &fakeService{records: seed(4)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, 1, svc.listCalls)

	require.NoError(t, store.CreateManualBackup(context.Background()))

	assert.Equal(t, []string{types.CategoryManual}, svc.createCalls)
	assert.Equal(t, 2, svc.listCalls)
	snap := store.Snapshot()
	assert.Equal(t, types.StatusReady, snap.Status)
	assert.Len(t, snap.Records, 5)
	assert.Equal(t, types.CategoryManual, snap.Records[0].Category)
}

func TestCreateManualBackupFailureLeavesState(t *testing.T) {
	svc := &fakeService{records: seed(4)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))
	before := store.Snapshot()

	svc.createErr = errors.New("500 Internal Server Error")
	err := store.CreateManualBackup(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, before, store.Snapshot())
}

func TestRestoreDoesNotReload(t *testing.T) {
	svc := &fakeService{records: seed(3)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	require.NoError(t, store.Restore(context.Background(), "id-2"))

	assert.Equal(t, []string{"id-2"}, svc.restoreCalls)
	assert.Equal(t, 1, svc.listCalls)
}

func TestRestoreFailure(t *testing.T) {
	svc := &fakeService{records: seed(3), restoreErr: errors.New("404 Not Found")}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))
	before := store.Snapshot()

	err := store.Restore(context.Background(), "id-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id-9")
	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, 1, svc.listCalls)
}

func TestRestoreRequiresID(t *testing.T) {
	svc := &fakeService{}
	store := NewStore(svc, nil)

	assert.Equal(t, ErrEmptyID, store.Restore(context.Background(), ""))
	assert.Empty(t, svc.restoreCalls)
}

func TestSnapshotIsACopy(t *testing.T) {
	svc := &fakeService{records: seed(2)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	snap := store.Snapshot()
	snap.Records[0].Filename = "changed"

	assert.Equal(t, "backup-1.tar.gz", store.Snapshot().Records[0].Filename)
}

func TestFind(t *testing.T) {
	svc := &fakeService{records: seed(3)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	rec, ok := store.Find("id-3")
	assert.True(t, ok)
	assert.Equal(t, "backup-3.tar.gz", rec.Filename)

	_, ok = store.Find("missing")
	assert.False(t, ok)
}

func TestLoadingClearsPreviousError(t *testing.T) {
	block := make(chan struct{})
	svc := &blockingService{fakeService: fakeService{listErr: errors.New("down")}, release: block}
	store := NewStore(svc, nil)

	close(block)
	require.Error(t, store.Load(context.Background()))
	require.Equal(t, types.StatusFailed, store.Snapshot().Status)

	svc.release = make(chan struct{})
	svc.started = make(chan struct{})
	done := make(chan error)
	go func() { done <- store.Load(context.Background()) }()

	<-svc.started
	snap := store.Snapshot()
	assert.Equal(t, types.StatusLoading, snap.Status)
	assert.Empty(t, snap.ErrorMessage)

	close(svc.release)
	assert.Error(t, <-done)
}

// blockingService holds ListBackups until release is closed
type blockingService struct {
	fakeService
	started chan struct{}
	release chan struct{}
}

func (b *blockingService) ListBackups(ctx context.Context) ([]types.BackupRecord, error) {
	if b.started != nil {
		close(b.started)
	}
	<-b.release
	return b.fakeService.ListBackups(ctx)
}

func recordIDs(records []types.BackupRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestCreateManualBackupReloadFailureIsNotACreateFailure(t *testing.T) {
	svc := &fakeService{records: seed(4)}
	store := NewStore(svc, nil)
	require.NoError(t, store.Load(context.Background()))

	svc.listErr = errors.New("list down")
	require.NoError(t, store.CreateManualBackup(context.Background()))

	assert.Equal(t, []string{types.CategoryManual}, svc.createCalls)
	assert.Equal(t, 2, svc.listCalls)
	snap := store.Snapshot()
	assert.Equal(t, types.StatusFailed, snap.Status)
	assert.Equal(t, LoadErrorMessage, snap.ErrorMessage)
	assert.Empty(t, snap.Records)
}
