package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/layout"
	"github.com/teemow/multical/internal/timeparse"
)

// selection holds the account and calendar filters of read commands.
type selection struct {
	accounts  []string
	calendars []string
}

func addSelectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().StringSliceVarP(&sel.accounts, "account", "a", nil, "Account to include (repeatable, default: all)")
	cmd.Flags().StringSliceVarP(&sel.calendars, "calendar", "c", nil, "Only calendars whose name contains this text (repeatable)")
}

// fetch resolves the selection and runs one aggregated query over w.
func (sel *selection) fetch(ctx context.Context, a *app, w calendar.Window) ([]calendar.Event, error) {
	accounts, err := a.readAccounts(sel.accounts)
	if err != nil {
		return nil, err
	}
	return a.agg.FetchAll(ctx, aggregate.Query{
		Accounts:  accounts,
		Window:    w,
		Calendars: sel.calendars,
	})
}

func newListCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the calendars of every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				accounts, err := a.readAccounts(sel.accounts)
				if err != nil {
					return err
				}
				cals, failures, err := a.agg.ListCalendars(ctx, accounts, sel.calendars)
				if err != nil {
					return err
				}
				for _, f := range failures {
					a.printer.AccountFailure(f.Account, f.Err)
				}
				a.printer.Calendars(cals)
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func newAgendaCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "agenda [START] [END]",
		Short: "Show the merged agenda of all accounts",
		Long: `Show events of all accounts in one list, grouped by day.

START defaults to now and END to START plus window_days. Both accept
2024-03-01, 2024-03-01T14:00, 14:00, today, tomorrow or offsets like +2d.
A date as END includes that whole day.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				startExpr, endExpr := argAt(args, 0), argAt(args, 1)
				start, end, err := timeparse.Range(startExpr, endExpr, a.agg.Now(), a.settings.Window())
				if err != nil {
					return err
				}
				events, err := sel.fetch(ctx, a, calendar.Window{Start: start, End: end})
				if err != nil {
					return err
				}
				a.printer.Agenda(events, "")
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func newWeekCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "week [WEEKS]",
		Short: "Show a week grid starting with the current week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, err := parseWeeks(argAt(args, 0))
			if err != nil {
				return err
			}
			return runApp(cmd, func(ctx context.Context, a *app) error {
				opts := a.layoutOptions()
				now := a.agg.Now()
				events, err := sel.fetch(ctx, a, layout.WeekWindow(now, weeks, opts))
				if err != nil {
					return err
				}
				a.printer.Week(layout.Week(events, weeks, now, opts))
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func newMonthCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month calendar, the current month by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				year, month, err := parseMonth(argAt(args, 0), a.agg.Now())
				if err != nil {
					return err
				}
				events, err := sel.fetch(ctx, a, layout.MonthWindow(year, month, a.loc))
				if err != nil {
					return err
				}
				for _, ev := range failuresOutside(events, year, month) {
					a.printer.AccountFailure(ev.AccountName, errors.New(ev.Description))
				}
				a.printer.Month(layout.Month(events, year, month, a.layoutOptions()))
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "search TEXT...",
		Short: "Search events of all accounts",
		Long:  "Search the last 30 days through the next year of every account for TEXT.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return runApp(cmd, func(ctx context.Context, a *app) error {
				accounts, err := a.readAccounts(sel.accounts)
				if err != nil {
					return err
				}
				events, err := a.agg.Search(ctx, aggregate.Query{
					Accounts:  accounts,
					Text:      text,
					Calendars: sel.calendars,
				})
				if err != nil {
					return err
				}
				a.printer.Agenda(events, fmt.Sprintf("No events matching %q", text))
				return nil
			})
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

// failuresOutside returns the error events the month grid cannot show.
// They are stamped at the time of the failure, which may lie in another month.
func failuresOutside(events []calendar.Event, year int, month time.Month) []calendar.Event {
	var out []calendar.Event
	for _, ev := range events {
		if ev.IsError() && (ev.Start.Year() != year || ev.Start.Month() != month) {
			out = append(out, ev)
		}
	}
	return out
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// maxWeeks bounds mcal week; every week is one grid and widens the fetch window.
const maxWeeks = 52

func parseWeeks(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxWeeks {
		return 0, fmt.Errorf("invalid number of weeks %q, use 1 to %d", s, maxWeeks)
	}
	return n, nil
}

// parseMonth reads YYYY-MM; an empty string selects the month of now.
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, use YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}
