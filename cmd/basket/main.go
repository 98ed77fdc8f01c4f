package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "🧺 Frequent itemset and association rule miner",
		Long: `basket: mines frequent itemsets from a transaction database with the
Apriori level-wise search and derives association rules with their
support, confidence, and lift.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/basket/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("db", "", "run history database path")
	cmd.PersistentFlags().Bool("no-history", false, "do not record runs")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(mineCmd())
	cmd.AddCommand(sweepCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx := handler.HandleInterrupts(context.Background())

	err := rootCmd.ExecuteContext(ctx)
	handler.Stop()

	code := exitCode(err, handler.WasInterrupted())
	switch code {
	case 0, exitInterrupted:
		// The interrupt handler already told the user what happened.
	case exitInput:
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
	default:
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		common.LogError(err, "Command failed", common.Fields{"args": os.Args[1:]})
	}
	os.Exit(code)
}

const (
	exitFailure     = 1
	exitInput       = 2
	exitInterrupted = 130
)

// exitCode maps a command error to the process exit status.
func exitCode(err error, interrupted bool) int {
	switch {
	case err == nil:
		return 0
	case interrupted:
		return exitInterrupted
	case common.IsInputError(err):
		return exitInput
	default:
		return exitFailure
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/basket", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BASKET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Storage flags override the file only when given.
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		viper.Set("storage.path", f.Value.String())
	}
	if f := cmd.Flags().Lookup("no-history"); f != nil && f.Changed {
		viper.Set("storage.enabled", f.Value.String() != "true")
	}

	if err := common.SetupLogger(os.Stderr, viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Loaded configuration", "file", viper.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "basket %s\n", version)
		},
	}
}
