package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/config"
	"github.com/simonvc/tradebook/internal/logger"
)

var (
	flagConfig   string
	flagServer   string
	flagDB       string
	flagLogLevel string
)

// Loaded once per invocation by the root command's PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "Back-office ledger for commodity trade finance",
	Long: "Tracks commodity deals from contract through delivery, invoicing, customer receipts and " +
		"financier loans, keeping a cash book of every movement of money. Backed by SQLite.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(flagConfig, cmd.Flags())
		if err != nil {
			return err
		}
		l, err := logger.New(&logger.Config{
			Level:  c.Log.Level,
			Format: c.Log.Format,
			Output: c.Log.Output,
		})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg, log = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./tradebook.toml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8888", "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "tradebook.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}

func newClient() *client.Client {
	return client.New(cfg.Client.Server, cfg.Client.Timeout)
}
