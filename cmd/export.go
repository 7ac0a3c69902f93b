package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/ics"
	"github.com/teemow/multical/internal/timeparse"
)

func newExportCmd() *cobra.Command {
	var (
		sel    selection
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [START] [END]",
		Short: "Export the merged agenda as an iCalendar file",
		Long: `Export the events of all accounts in the window as iCalendar (.ics).
The window is chosen as for agenda. Accounts that fail are skipped with a
warning on stderr.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				now := a.agg.Now()
				start, end, err := timeparse.Range(argAt(args, 0), argAt(args, 1), now, a.settings.Window())
				if err != nil {
					return err
				}
				events, err := sel.fetch(ctx, a, calendar.Window{Start: start, End: end})
				if err != nil {
					return err
				}

				exported := 0
				for _, ev := range events {
					if ev.IsError() {
						fmt.Fprintln(cmd.ErrOrStderr(), ev.Summary)
						continue
					}
					exported++
				}

				if output == "" || output == "-" {
					return ics.Encode(a.out, events, now)
				}

				f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := ics.Encode(f, events, now); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(a.out, "Exported %d events to %s\n", exported, output)
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: stdout)")
	return cmd
}
