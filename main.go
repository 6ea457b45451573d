package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/adminserver"
	"github.com/supporttools/BackupConsole/pkg/client"
	"github.com/supporttools/BackupConsole/pkg/config"
	"github.com/supporttools/BackupConsole/pkg/console"
	"github.com/supporttools/BackupConsole/pkg/inventory"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/viewstate"
)

func main() {
	log.Println("Starting BackupConsole...")

	// Load and validate configuration
	if err := config.LoadConfiguration(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateConfig(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	if config.CFG.Debug {
		config.DisplayConfiguration()
	}

	logger := logging.New(logging.Options{
		Debug:  config.CFG.Debug,
		Format: config.CFG.Log.Format,
	})

	timeout, _ := config.CFG.ServiceTimeout()
	svc := client.New(config.CFG.Service.URL, timeout, logger)
	store := inventory.NewStore(svc, logger)

	var opts []viewstate.Option
	if !config.CFG.Console.ResetPageOnFilter {
		opts = append(opts, viewstate.PreservePageOnFilter())
	}
	controller := viewstate.NewController(opts...)

	// Mount the console: one initial load, no polling afterwards
	c := console.New(store, controller, logger)
	c.Mount(context.Background())

	srv := adminserver.NewServer(c, config.CFG.Console.Port, logger)
	httpServer := srv.Start()

	logger.WithField("service", svc.BaseURL()).Info("BackupConsole is running. Press Ctrl+C to exit.")
	waitForSignal(logger, httpServer)
}

// waitForSignal blocks until SIGINT or SIGTERM, then closes the HTTP server
func waitForSignal(logger *logrus.Logger, httpServer *http.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	logger.Infof("Received signal %s, shutting down...", sig)
	if httpServer != nil {
		if err := httpServer.Close(); err != nil {
			logger.WithError(err).Error("Error shutting down HTTP server")
		}
	}
}
