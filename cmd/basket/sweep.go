package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/engine"
	"github.com/Veraticus/basket/internal/report"
)

func sweepCmd() *cobra.Command {
	var (
		supports    []int
		confidences []float64
		reports     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <input>",
		Short: "Time a series of runs over support or confidence values",
		Long: `Run the miner once per threshold value and print the itemset and rule
counts with the time each phase took. Vary either --supports or
--confidences; the other threshold comes from the configuration.

Example:
  basket sweep baskets.txt --supports 2,3,4,5 --min-confidence 0.7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]

			if err := bindViperFlags(cmd); err != nil {
				return err
			}
			if err := viper.BindPFlag("mining.min_support", cmd.Flags().Lookup("min-support")); err != nil {
				return err
			}
			if err := viper.BindPFlag("mining.min_confidence", cmd.Flags().Lookup("min-confidence")); err != nil {
				return err
			}

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

			total := len(supports) + len(confidences)
			points, err := engine.Sweep(ctx, store, input, transactions, engine.SweepOptions{
				Base:        cfg.Engine(),
				Supports:    supports,
				Confidences: confidences,
				Progress:    cli.NewProgress(cmd.ErrOrStderr(), total, "Sweeping"),
			})
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			if reports {
				if err := writeSweepReports(cfg.Output.Dir, cfg.Output.Format, cfg.Output.Suffix, points); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSweep(points))
			return err
		},
	}

	bindMiningFlags(cmd)
	cmd.Flags().IntSliceVar(&supports, "supports", nil, "support counts to run")
	cmd.Flags().Float64SliceVar(&confidences, "confidences", nil, "confidence thresholds to run")
	cmd.Flags().Int("min-support", 0, "support count used when sweeping confidences")
	cmd.Flags().Float64("min-confidence", 0, "confidence used when sweeping supports")
	cmd.Flags().BoolVar(&reports, "reports", false, "write the reports of every run, numbered by position")

	return cmd
}

// writeSweepReports writes one report set per point, suffixed with the
// configured suffix and the point's position.
func writeSweepReports(dir, name, suffix string, points []engine.SweepPoint) error {
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	for i, p := range points {
		w := report.NewWriter(dir, format, fmt.Sprintf("%s%02d", suffix, i+1))
		if _, err := w.WriteAll(p.Run); err != nil {
			return err
		}
	}
	return nil
}
