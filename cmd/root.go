package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Flags shared by every command.
var (
	configDir string
	logLevel  string
	debug     bool
	noColor   bool
)

// rootCmd represents the base command for the mcal application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcal",
		Short: "One agenda for all your Google Calendar accounts",
		Long: `mcal merges the calendars of several Google accounts into one view.

Every read command queries all configured accounts concurrently and prints
a single time-ordered result. An account that fails shows up as an error
entry instead of aborting the command.

It can run as:
  - A command-line agenda, week and month viewer
  - An MCP (Model Context Protocol) server for AI assistants`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: $MCAL_CONFIG_DIR or ~/.config/multical)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default: $MCAL_LOG_LEVEL or warn)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newAccountCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAgendaCmd())
	cmd.AddCommand(newWeekCmd())
	cmd.AddCommand(newMonthCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newQuickCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcal version %s\n" .Version}}`)

	// Without a subcommand show the agenda
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "agenda")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mcal",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("mcal version %s\n", version)
		},
	}
}
