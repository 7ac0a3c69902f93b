package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/multical/internal/aggregate"
	"github.com/teemow/multical/internal/calendar"
	"github.com/teemow/multical/internal/logging"
	"github.com/teemow/multical/internal/timeparse"
)

const primaryCalendar = "primary"

func newQuickCmd() *cobra.Command {
	var (
		account    string
		calendarID string
	)

	cmd := &cobra.Command{
		Use:   "quick TEXT...",
		Short: "Create an event from text, e.g. 'Lunch with Ana tomorrow 12:30'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				client, err := a.writeClient(ctx, account)
				if err != nil {
					return err
				}
				ev, err := client.QuickAdd(ctx, calendarID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				a.printer.Created(ev)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account to write to (default: the default account)")
	cmd.Flags().StringVar(&calendarID, "calendar-id", primaryCalendar, "Calendar to write to")
	return cmd
}

// addOptions are the flags of mcal add.
type addOptions struct {
	title       string
	when        string
	duration    int
	endTime     string
	where       string
	description string
	who         []string
	allDay      bool
	meet        bool
	account     string
	calendarID  string
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		Example: `  mcal add --title "Planning" --when "tomorrow 10:00" --duration 30 --meet
  mcal add --title "Offsite" --when 2024-05-02 --end-time 2024-05-03 --allday`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				input, err := opts.eventInput(a.agg.Now())
				if err != nil {
					return err
				}
				client, err := a.writeClient(ctx, opts.account)
				if err != nil {
					return err
				}
				ev, err := client.CreateEvent(ctx, opts.calendarID, input)
				if err != nil {
					return err
				}
				a.printer.Created(ev)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Event title")
	cmd.Flags().StringVar(&opts.when, "when", "", "Start, e.g. 2024-03-01T14:00, 14:00, tomorrow or +2h")
	cmd.Flags().IntVar(&opts.duration, "duration", 60, "Length in minutes")
	cmd.Flags().StringVar(&opts.endTime, "end-time", "", "End instead of --duration; with --allday the last day")
	cmd.Flags().StringVar(&opts.where, "where", "", "Location")
	cmd.Flags().StringVar(&opts.description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&opts.who, "who", nil, "Attendee email (repeatable)")
	cmd.Flags().BoolVar(&opts.allDay, "allday", false, "Create an all-day event")
	cmd.Flags().BoolVar(&opts.meet, "meet", false, "Add a Google Meet link")
	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "Account to write to (default: the default account)")
	cmd.Flags().StringVar(&opts.calendarID, "calendar-id", primaryCalendar, "Calendar to write to")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("when")
	return cmd
}

func (o addOptions) eventInput(now time.Time) (calendar.EventInput, error) {
	start, dateOnly, err := timeparse.Parse(o.when, now)
	if err != nil {
		return calendar.EventInput{}, fmt.Errorf("invalid --when: %w", err)
	}

	input := calendar.EventInput{
		Summary:       o.title,
		Description:   o.description,
		Location:      o.where,
		Start:         start,
		AllDay:        o.allDay || dateOnly,
		Attendees:     o.who,
		AddConference: o.meet,
	}

	switch {
	case o.endTime != "":
		end, _, err := timeparse.Parse(o.endTime, now)
		if err != nil {
			return calendar.EventInput{}, fmt.Errorf("invalid --end-time: %w", err)
		}
		if input.AllDay {
			end = end.AddDate(0, 0, 1)
		}
		input.End = end
	case !input.AllDay:
		if o.duration <= 0 {
			return calendar.EventInput{}, fmt.Errorf("--duration must be positive")
		}
		input.End = start.Add(time.Duration(o.duration) * time.Minute)
	}

	return input, input.Validate()
}

func newDeleteCmd() *cobra.Command {
	var (
		account    string
		eventID    string
		calendarID string
	)

	cmd := &cobra.Command{
		Use:   "delete [TEXT...]",
		Short: "Delete an event",
		Long: `Search the account for TEXT, pick one of the numbered matches and
confirm. With --id the event is deleted directly without prompting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventID == "" && len(args) == 0 {
				return errors.New("give search TEXT or --id")
			}
			return runApp(cmd, func(ctx context.Context, a *app) error {
				client, err := a.writeClient(ctx, account)
				if err != nil {
					return err
				}

				if eventID != "" {
					if err := client.DeleteEvent(ctx, calendarID, eventID); err != nil {
						if calendar.IsNotFound(err) {
							return fmt.Errorf("event %s not found in calendar %s of account %s", eventID, calendarID, client.Account())
						}
						return err
					}
					a.printer.Deleted(eventID)
					return nil
				}

				events, err := a.agg.Search(ctx, aggregate.Query{
					Accounts: []string{client.Account()},
					Text:     strings.Join(args, " "),
				})
				if err != nil {
					return err
				}
				matches, err := deletable(events)
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					fmt.Fprintln(a.out, "No matching events.")
					return nil
				}

				a.printer.Matches(matches)
				ev, ok, err := choose(cmd.InOrStdin(), a.out, matches)
				if err != nil || !ok {
					return err
				}
				if err := client.DeleteEvent(ctx, ev.CalendarID, ev.ID); err != nil {
					return err
				}
				a.logger.Info("event deleted", logging.Account(ev.AccountName), logging.Calendar(ev.CalendarID))
				a.printer.Deleted(ev.Summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account to delete from (default: the default account)")
	cmd.Flags().StringVar(&eventID, "id", "", "Event ID to delete without prompting")
	cmd.Flags().StringVar(&calendarID, "calendar-id", primaryCalendar, "Calendar of --id")
	return cmd
}

// deletable drops error placeholders. A failed search is returned as an
// error since there is only one account.
func deletable(events []calendar.Event) ([]calendar.Event, error) {
	var out []calendar.Event
	for _, ev := range events {
		if ev.IsError() {
			return nil, errors.New(ev.Summary)
		}
		out = append(out, ev)
	}
	return out, nil
}

// choose prompts for a match number and a confirmation. ok is false when
// the user cancels.
func choose(in io.Reader, out io.Writer, matches []calendar.Event) (ev calendar.Event, ok bool, err error) {
	r := bufio.NewReader(in)

	fmt.Fprintf(out, "Select event to delete [1-%d, 0 to cancel]: ", len(matches))
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return calendar.Event{}, false, fmt.Errorf("failed to read selection: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 || n > len(matches) {
		return calendar.Event{}, false, fmt.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	if n == 0 {
		fmt.Fprintln(out, "Cancelled.")
		return calendar.Event{}, false, nil
	}
	ev = matches[n-1]

	fmt.Fprintf(out, "Delete %q? [y/N]: ", ev.Summary)
	line, _ = r.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return ev, true, nil
	}
	fmt.Fprintln(out, "Cancelled.")
	return calendar.Event{}, false, nil
}
