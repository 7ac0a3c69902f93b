package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/teemow/multical/internal/config"
	"github.com/teemow/multical/internal/google"
	"github.com/teemow/multical/internal/instrumentation"
	"github.com/teemow/multical/internal/logging"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the Google accounts mcal reads",
	}
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	cmd.AddCommand(newAccountListCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Authorize a Google account and store its credentials",
		Long: `Authorize a Google account under a short local name such as "work".

The OAuth client is read from <config>/accounts/NAME/client_secret.json,
then <config>/client_secret.json, then GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET. The consent page redirects to a temporary listener
on 127.0.0.1. The first account added becomes the default account.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				open := openBrowser
				if noBrowser {
					open = nil
				}
				return addAccount(ctx, a, args[0], open)
			})
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Only print the consent URL")
	return cmd
}

func addAccount(ctx context.Context, a *app, name string, open func(string) error) error {
	if err := google.ValidateAccountName(name); err != nil {
		return err
	}

	conf, err := a.store.OAuthConfig(name)
	if err != nil {
		return err
	}

	metrics := a.provider.Metrics()
	tok, err := google.Authorize(ctx, conf, a.out, open)
	if err != nil {
		metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return fmt.Errorf("authorization failed: %w", err)
	}
	metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	if err := a.store.SaveToken(name, tok); err != nil {
		return err
	}
	logging.WithAccount(a.logger, name).Info("account authorized")

	client, err := a.agg.Client(ctx, name)
	if err != nil {
		return err
	}
	primary, err := client.PrimaryCalendarID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s added (primary calendar: %s)\n", name, primary)

	if a.settings.DefaultAccount == "" {
		if err := config.SetDefaultAccount(a.settings.Dir, name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Default account set to %s\n", name)
	}
	return nil
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete the stored credentials of an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				return removeAccount(a, args[0])
			})
		},
	}
}

// removeAccount deletes the account. A removed default moves to the first
// remaining account.
func removeAccount(a *app, name string) error {
	if err := a.store.RemoveAccount(name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s removed\n", name)

	if a.settings.DefaultAccount != name {
		return nil
	}
	remaining, err := a.store.ListAccounts()
	if err != nil {
		return err
	}
	next := ""
	if len(remaining) > 0 {
		next = remaining[0]
	}
	if err := config.SetDefaultAccount(a.settings.Dir, next); err != nil {
		return err
	}
	if next != "" {
		fmt.Fprintf(a.out, "Default account set to %s\n", next)
	} else {
		fmt.Fprintln(a.out, "No default account left")
	}
	return nil
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the configured accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, func(ctx context.Context, a *app) error {
				accounts, err := a.store.ListAccounts()
				if err != nil {
					return err
				}
				def := a.settings.DefaultAccount
				if !slices.Contains(accounts, def) {
					def = ""
				}
				a.printer.Accounts(accounts, def)
				return nil
			})
		},
	}
}
