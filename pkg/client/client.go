// Package client talks to the remote backup inventory service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/metrics"
)

// Operation names, used for logging and metric labels
const (
	OpList    = "list"
	OpCreate  = "create"
	OpRestore = "restore"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Operation, e.Status)
}

// Client is an HTTP client for the backup inventory service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// createRequest is the body of POST /backup
type createRequest struct {
	Type string `json:"type"`
}

// restoreRequest is the body of POST /restore
type restoreRequest struct {
	BackupID string `json:"backupId"`
}

// New creates a client for the service rooted at baseURL. A zero timeout
// leaves requests bounded only by their context.
func New(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the service root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBackups fetches the full record set from GET /backups
func (c *Client) ListBackups(ctx context.Context) ([]types.BackupRecord, error) {
	body, err := c.do(ctx, OpList, http.MethodGet, "/backups", nil)
	if err != nil {
		return nil, err
	}

	var records []types.BackupRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode backup list")
	}
	if records == nil {
		records = []types.BackupRecord{}
	}
	return records, nil
}

// CreateBackup sends POST /backup for the given category. The response body
// is not interpreted.
func (c *Client) CreateBackup(ctx context.Context, category string) error {
	_, err := c.do(ctx, OpCreate, http.MethodPost, "/backup", createRequest{Type: category})
	return err
}

// RestoreBackup sends POST /restore for the given backup id. The response
// body is not interpreted.
func (c *Client) RestoreBackup(ctx context.Context, id string) error {
	_, err := c.do(ctx, OpRestore, http.MethodPost, "/restore", restoreRequest{BackupID: id})
	return err
}

// do performs a request and returns the response body of a 2xx answer
func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s request", op)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s request", op)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.WithFields(logrus.Fields{
		"operation":  op,
		"request_id": requestID,
	})
	log.Debugf("%s %s", method, req.URL)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestCount.WithLabelValues(op, metrics.OutcomeError).Inc()
		log.WithError(err).Warn("Request to backup service failed")
		return nil, errors.Wrapf(err, "%s request failed", op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequestCount.WithLabelValues(op, metrics.OutcomeError).Inc()
		return nil, errors.Wrapf(err, "failed to read %s response", op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RemoteRequestCount.WithLabelValues(op, metrics.OutcomeError).Inc()
		log.WithField("status", resp.StatusCode).Warn("Backup service returned an error status")
		return nil, &StatusError{Operation: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	metrics.RemoteRequestCount.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Backup service request completed")
	return body, nil
}
