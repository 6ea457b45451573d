package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supporttools/BackupConsole/pkg/version"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(stdout, version.Get().String())
			return err
		},
	}
}
