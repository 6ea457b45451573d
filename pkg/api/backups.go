// Package api exposes the backup console as JSON endpoints.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/console"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/viewstate"
)

// BackupsHandler handles backup-related API endpoints
type BackupsHandler struct {
	console *console.Console
	logger  *logrus.Logger
}

// NewBackupsHandler creates a new backups handler
func NewBackupsHandler(c *console.Console, logger *logrus.Logger) *BackupsHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BackupsHandler{console: c, logger: logger}
}

// RegisterRoutes registers the backup API routes on the provided mux
func (h *BackupsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/view", h.handleView)
	mux.HandleFunc("/api/backups", h.handleBackups)
	mux.HandleFunc("/api/restore", h.handleRestore)
}

// viewRequest selects a filter and page. Omitted fields keep their value.
type viewRequest struct {
	Filter *string `json:"filter,omitempty"`
	Page   *int    `json:"page,omitempty"`
}

// restoreRequest names the backup to restore
type restoreRequest struct {
	BackupID string `json:"backupId"`
}

// errorResponse is returned for failed requests
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleView returns the current screen, or updates the view selection first
// on POST
func (h *BackupsHandler) handleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req viewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		// validate before touching the selection so a rejected request
		// changes nothing
		if req.Page != nil && *req.Page < 1 {
			h.writeError(w, http.StatusBadRequest, viewstate.ErrInvalidPage.Error())
			return
		}
		if req.Filter != nil {
			h.console.SetFilter(*req.Filter)
		}
		if req.Page != nil {
			if err := h.console.SetPage(*req.Page); err != nil {
				h.writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.console.Screen())
}

// handleBackups returns the current screen on GET and requests a manual
// backup on POST
func (h *BackupsHandler) handleBackups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.console.Screen())
	case http.MethodPost:
		if err := h.console.CreateManualBackup(r.Context()); err != nil {
			h.logger.WithError(err).Warn("Manual backup request failed")
			h.writeError(w, http.StatusBadGateway, "Failed to create manual backup")
			return
		}
		h.writeJSON(w, http.StatusCreated, h.console.Screen())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRestore requests a restore and returns the acknowledgment
func (h *BackupsHandler) handleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.BackupID == "" {
		h.writeError(w, http.StatusBadRequest, "Missing required field: backupId")
		return
	}

	ack := h.console.Restore(r.Context(), req.BackupID)
	status := http.StatusOK
	if !ack.OK {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, ack)
}

func (h *BackupsHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func (h *BackupsHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Error encoding API response")
	}
}
