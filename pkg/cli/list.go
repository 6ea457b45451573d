package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/supporttools/BackupConsole/pkg/console"
	"github.com/supporttools/BackupConsole/pkg/viewstate"
)

// viewFlags are the filter/page selections shared by commands that print the list
type viewFlags struct {
	category string
	page     int
	output   string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "type", "t", viewstate.FilterAll, "Backup category to show (All, Automatic, Manual, ...)")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number to show")
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: table|json")
}

// apply selects the requested filter and page on c
func (f *viewFlags) apply(c *console.Console) error {
	c.SetFilter(f.category)
	return c.SetPage(f.page)
}

func newListCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, filtered by category and paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mountConsole(cmd, stderr)
			if err := flags.apply(c); err != nil {
				return err
			}
			return renderScreen(stdout, c.Screen(), flags.output)
		},
	}
	flags.register(cmd)
	return cmd
}

// renderScreen writes the screen in the requested format
func renderScreen(w io.Writer, screen console.Screen, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(screen)
	case "table", "":
		return renderTable(w, screen)
	default:
		return fmt.Errorf("unsupported --output: %s", output)
	}
}

// renderTable prints the screen as a table. Loading, error and empty screens
// print their message in place of the rows.
func renderTable(w io.Writer, screen console.Screen) error {
	if screen.Mode != console.ModeRows {
		_, err := fmt.Fprintln(w, screen.Message)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFILENAME\tTYPE\tDATE & TIME\tAGE\tID")
	for _, r := range screen.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Number, r.Filename, r.Category,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(r.Timestamp), r.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := make([]string, 0, len(screen.Pages))
	for _, p := range screen.Pages {
		if p.Current {
			pages = append(pages, fmt.Sprintf("[%d]", p.Number))
		} else {
			pages = append(pages, fmt.Sprintf("%d", p.Number))
		}
	}
	_, err := fmt.Fprintf(w, "\nFilter: %s  Page %d of %d  %s\n",
		screen.Filter, screen.Page, screen.TotalPages, strings.Join(pages, " "))
	return err
}
