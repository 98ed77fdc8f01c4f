package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/engine"
	"github.com/Veraticus/basket/internal/report"
)

func mineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine <minsup> <minconf> <input>",
		Short: "Mine frequent itemsets and association rules",
		Long: `Mine all itemsets whose support count reaches minsup and every
association rule whose confidence reaches minconf, then write the items,
rules, and info reports.

Example:
  basket mine 2 0.7 baskets.txt -o out --suffix 01`,
		Args: cobra.ExactArgs(3),
		RunE: runMine,
	}

	bindMiningFlags(cmd)
	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	minSupport, err := parseSupport(args[0])
	if err != nil {
		return err
	}
	minConfidence, err := parseConfidence(args[1])
	if err != nil {
		return err
	}
	input := args[2]

	if err := bindViperFlags(cmd); err != nil {
		return err
	}
	viper.Set("mining.min_support", minSupport)
	viper.Set("mining.min_confidence", minConfidence)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	transactions, err := loadTransactions(ctx, cfg, input)
	if err != nil {
		return err
	}

	e, err := engine.NewWithConfig(store, cfg.Engine())
	if err != nil {
		return err
	}

	run, err := e.Run(ctx, input, transactions)
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	paths, err := report.NewWriter(cfg.Output.Dir, format, cfg.Output.Suffix).WriteAll(run)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRun(run, paths))
	return err
}
