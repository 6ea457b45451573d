package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
)

// recordedRequest captures what the fake service received
type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        string
}

// newFakeService starts a server answering with the given status and body and
// recording every request it sees
func newFakeService(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get(RequestIDHeader),
			Body:        string(b),
		})
		mu.Unlock()
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestListBackups(t *testing.T) {
	body := `[
		{"_id": "65f1", "filename": "db-2025-03-01.gz", "type": "Automatic", "timestamp": "2025-03-01T10:00:00Z"},
		{"_id": "65f2", "filename": "db-2025-03-02.gz", "type": "Manual", "timestamp": "2025-03-02T11:30:00.000Z", "size": 1024}
	]`
	srv, seen := newFakeService(t, http.StatusOK, body)

	c := New(srv.URL+"/", 0, nil)
	records, err := c.ListBackups(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, types.BackupRecord{
		ID:        "65f1",
		Filename:  "db-2025-03-01.gz",
		Category:  types.CategoryAutomatic,
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}, records[0])
	assert.Equal(t, types.CategoryManual, records[1].Category)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/backups", req.Path)
	assert.NotEmpty(t, req.RequestID)
}

func TestListBackupsEmpty(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, `null`)

	records, err := New(srv.URL, 0, nil).ListBackups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListBackupsErrorStatus(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusServiceUnavailable, "down for maintenance")

	_, err := New(srv.URL, 0, nil).ListBackups(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, OpList, statusErr.Operation)
}

func TestListBackupsInvalidJSON(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusOK, `{"not": "a list"}`)

	_, err := New(srv.URL, 0, nil).ListBackups(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestListBackupsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 0, nil).ListBackups(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestListBackupsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond, nil).ListBackups(context.Background())
	assert.Error(t, err)
}

func TestCreateBackup(t *testing.T) {
	srv, seen := newFakeService(t, http.StatusCreated, "Backup created")

	err := New(srv.URL, 0, nil).CreateBackup(context.Background(), types.CategoryManual)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/backup", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"type": "Manual"}`, req.Body)
}

func TestCreateBackupErrorStatus(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusInternalServerError, "")

	err := New(srv.URL, 0, nil).CreateBackup(context.Background(), types.CategoryManual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRestoreBackup(t *testing.T) {
	srv, seen := newFakeService(t, http.StatusOK, "Inserted")

	err := New(srv.URL, 0, nil).RestoreBackup(context.Background(), "65f1")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/restore", req.Path)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Body), &payload))
	assert.Equal(t, map[string]string{"backupId": "65f1"}, payload)
}

func TestRestoreBackupErrorStatus(t *testing.T) {
	srv, _ := newFakeService(t, http.StatusNotFound, "no such backup")

	err := New(srv.URL, 0, nil).RestoreBackup(context.Background(), "missing")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, OpRestore, statusErr.Operation)
}

func TestRequestIDsAreUnique(t *testing.T) {
	srv, seen := newFakeService(t, http.StatusOK, `[]`)
	c := New(srv.URL, 0, nil)

	_, err := c.ListBackups(context.Background())
	require.NoError(t, err)
	_, err = c.ListBackups(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	assert.NotEqual(t, (*seen)[0].RequestID, (*seen)[1].RequestID)
}

func TestBaseURLTrimsSlash(t *testing.T) {
	assert.Equal(t, "http://backups.local", New("http://backups.local/", 0, nil).BaseURL())
}
