// Package cli implements the backupctl command line console.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/supporttools/BackupConsole/pkg/client"
	"github.com/supporttools/BackupConsole/pkg/config"
	"github.com/supporttools/BackupConsole/pkg/console"
	"github.com/supporttools/BackupConsole/pkg/inventory"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/viewstate"
)

const defaultServer = "http://localhost:3000"

// NewRootCmd returns the root cobra command for the backupctl CLI.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backupctl",
		Short:         "List, create and restore backups held by a backup inventory service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	server := config.CFG.Service.URL
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().String("server", server, "Backup inventory service base URL")
	// ValidateConfig has not run for the CLI, so a bad value falls back to none
	timeout, _ := config.CFG.ServiceTimeout()
	cmd.PersistentFlags().Duration("timeout", timeout, "Request timeout (0 for none)")
	cmd.PersistentFlags().Bool("debug", config.CFG.Debug, "Enable debug logging")

	cmd.AddCommand(newListCmd(stdout, stderr))
	cmd.AddCommand(newCreateCmd(stdout, stderr))
	cmd.AddCommand(newRestoreCmd(stdout, stderr))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// Execute runs the CLI with the process stdio.
func Execute() int {
	if err := config.LoadConfiguration(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// mountConsole builds a console from the global flags and performs its
// initial load.
func mountConsole(cmd *cobra.Command, stderr io.Writer) *console.Console {
	server, _ := cmd.Root().PersistentFlags().GetString("server")
	timeout, _ := cmd.Root().PersistentFlags().GetDuration("timeout")
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")

	logger := logging.New(logging.Options{
		Debug:  debug,
		Format: config.CFG.Log.Format,
		Output: stderr,
	})
	if !debug {
		logger.SetLevel(logrus.WarnLevel)
	}

	svc := client.New(server, timeout, logger)
	store := inventory.NewStore(svc, logger)
	c := console.New(store, viewstate.NewController(), logger)
	c.Mount(commandContext(cmd))
	return c
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
