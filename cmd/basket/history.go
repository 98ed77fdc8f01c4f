package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/basket/internal/cli"
	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/service"
)

func historyCmd() *cobra.Command {
	var filter service.RunFilter

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `List the runs recorded in the history database, newest first, or show
the levels of a single run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Storage.Enabled {
				return common.NewUserError("Run history is disabled", nil)
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(store)

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return common.NewInvalidParameterError("run-id", args[0], "must be an integer")
				}
				run, err := store.GetRun(ctx, id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, cli.RenderRunRecord(run))
				return err
			}

			runs, err := store.ListRuns(ctx, filter)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, cli.RenderHistory(runs))
			return err
		},
	}

	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "maximum number of runs to show")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "number of runs to skip")
	cmd.Flags().StringVar(&filter.Input, "input", "", "only show runs over this input file")

	return cmd
}
