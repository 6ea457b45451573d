// Package adminserver provides the HTTP server for the backup console.
package adminserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/api"
	"github.com/supporttools/BackupConsole/pkg/console"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/pages"
	"github.com/supporttools/BackupConsole/pkg/version"
)

// Server represents the console HTTP server
type Server struct {
	httpServer *http.Server
	console    *console.Console
	logger     *logrus.Logger
	port       string
}

// NewServer creates a new console server instance
func NewServer(c *console.Console, port string, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		console: c,
		logger:  logger,
		port:    port,
	}
}

// Handler returns the server's routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.logRequestMiddleware(mux)
}

// Start starts the HTTP server in the background
func (s *Server) Start() *http.Server {
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%s", s.port),
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		s.logger.Infof("Console server running on port %s", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	return s.httpServer
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.consoleHandler)

	// Console actions
	mux.HandleFunc("/filter", s.filterHandler)
	mux.HandleFunc("/page", s.pageHandler)
	mux.HandleFunc("/backup", s.manualBackupHandler)
	mux.HandleFunc("/restore", s.restoreHandler)
	mux.HandleFunc("/refresh", s.refreshHandler)

	api.NewBackupsHandler(s.console, s.logger).RegisterRoutes(mux)

	// Standard endpoints
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthCheckHandler)
}

// consoleHandler renders the console page
func (s *Server) consoleHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := pages.ConsolePageData{Screen: s.console.Screen()}
	if msg := r.URL.Query().Get("ack"); msg != "" {
		data.Ack = &console.Ack{OK: r.URL.Query().Get("ok") == "true", Message: msg}
	}
	pages.ConsolePage(w, data)
}

// filterHandler selects the category filter
func (s *Server) filterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.console.SetFilter(r.FormValue("type"))
	redirectHome(w, r, nil)
}

// pageHandler selects the page to show
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := strconv.Atoi(r.FormValue("n"))
	if err != nil {
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}
	if err := s.console.SetPage(n); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	redirectHome(w, r, nil)
}

// manualBackupHandler requests a manual backup. Failures only reach the log;
// the console keeps showing the current list.
func (s *Server) manualBackupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.console.CreateManualBackup(r.Context()); err != nil {
		s.logger.WithError(err).Warn("Manual backup request failed")
	}
	redirectHome(w, r, nil)
}

// restoreHandler requests a restore and acknowledges the outcome
func (s *Server) restoreHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "Missing required parameter: id", http.StatusBadRequest)
		return
	}

	ack := s.console.Restore(r.Context(), id)
	redirectHome(w, r, &ack)
}

// refreshHandler reloads the inventory
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.console.Refresh(r.Context()); err != nil {
		s.logger.WithError(err).Warn("Refresh failed")
	}
	redirectHome(w, r, nil)
}

// healthCheckHandler returns a simple health status
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"time":    time.Now().Format(time.RFC3339),
		"version": version.Version,
	})
	if err != nil {
		s.logger.WithError(err).Error("Error encoding health check response")
	}
}

// redirectHome sends the browser back to the console, carrying an optional
// acknowledgment
func redirectHome(w http.ResponseWriter, r *http.Request, ack *console.Ack) {
	target := "/"
	if ack != nil {
		q := url.Values{}
		q.Set("ack", ack.Message)
		q.Set("ok", strconv.FormatBool(ack.OK))
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// logRequestMiddleware logs every request with its duration
func (s *Server) logRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}
