package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCreateCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a manual backup and show the refreshed list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mountConsole(cmd, stderr)
			if err := flags.apply(c); err != nil {
				return err
			}
			// The list is shown either way; a failed request leaves it as loaded.
			createErr := c.CreateManualBackup(commandContext(cmd))
			if err := renderScreen(stdout, c.Screen(), flags.output); err != nil {
				return err
			}
			if createErr != nil {
				return errors.New("failed to create manual backup")
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newRestoreCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Restore the identified backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mountConsole(cmd, stderr)
			ack := c.Restore(commandContext(cmd), args[0])
			if !ack.OK {
				return errors.New(ack.Message)
			}
			_, err := fmt.Fprintln(stdout, ack.Message)
			return err
		},
	}
}
