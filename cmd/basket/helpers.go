package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/config"
	"github.com/Veraticus/basket/internal/dataset"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/service"
	"github.com/Veraticus/basket/internal/storage"
)

// loadConfig returns the typed configuration after flags have been bound.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// openStore opens and migrates the run history database. It returns a nil
// store when history is disabled.
func openStore(ctx context.Context, cfg *config.Config) (service.RunStore, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate run history: %w", err)
	}
	return store, nil
}

func closeStore(store service.RunStore) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close run history", "error", err)
	}
}

// loadTransactions reads the input file in the configured format.
func loadTransactions(ctx context.Context, cfg *config.Config, path string) ([]model.Transaction, error) {
	format, err := dataset.ParseFormat(cfg.Input.Format)
	if err != nil {
		return nil, err
	}

	var loader service.DatasetLoader = dataset.NewLoader(format)
	transactions, err := loader.Load(ctx, path)
	if err != nil {
		return nil, common.NewUserError("Could not load transactions", err)
	}

	slog.Info("Loaded transactions", "file", path, "count", len(transactions))
	return transactions, nil
}

// miningFlagKeys maps viper keys to the flags registered by bindMiningFlags.
var miningFlagKeys = map[string]string{
	"mining.precision": "precision",
	"mining.join":      "join",
	"mining.threshold": "threshold",
	"input.format":     "format",
	"output.dir":       "out",
	"output.format":    "report-format",
	"output.suffix":    "suffix",
}

// bindMiningFlags registers the policy and output flags shared by mine and sweep.
func bindMiningFlags(cmd *cobra.Command) {
	cmd.Flags().Int("precision", 0, "decimal digits for confidence and report values (default 3)")
	cmd.Flags().String("join", "", "candidate join strategy (naive, apriori-gen)")
	cmd.Flags().String("threshold", "", "confidence threshold policy (rounded, raw)")
	cmd.Flags().String("format", "", "input format (auto, pairs, basket, ofx)")
	cmd.Flags().StringP("out", "o", "", "report output directory")
	cmd.Flags().String("report-format", "", "report format (txt, json, yaml)")
	cmd.Flags().String("suffix", "", "suffix appended to report file names")
}

// bindViperFlags binds the running command's flags. Binding happens at run
// time because mine and sweep share keys and viper keeps one flag per key.
func bindViperFlags(cmd *cobra.Command) error {
	for key, name := range miningFlagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// parseSupport parses a positive absolute support count.
func parseSupport(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, common.NewInvalidParameterError("min_support", s, "must be an integer count")
	}
	return v, nil
}

// parseConfidence parses a confidence value.
func parseConfidence(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, common.NewInvalidParameterError("min_confidence", s, "must be a number")
	}
	return v, nil
}
