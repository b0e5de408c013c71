package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/restkit/internal/logging"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking RESTKIT_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("RESTKIT_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the restkit CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "restkit",
		Short: "restkit — ledger API client",
		Long:  "restkit lists and manages accounts, transactions and transfers on a ledger server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(flagLogLevel, flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "Ledger server URL (or RESTKIT_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newAccountsCmd(),
		newTransactionsCmd(),
		newTransferCmd(),
	)

	return root
}
