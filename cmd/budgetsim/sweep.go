package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetsim/internal/cli"
	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

type sweepOptions struct {
	budgetPath string
	output     string
	months     *int
	baseSeed   uint64
	runs       int
	workers    int
	progress   bool
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many seeded simulations and aggregate the outcomes",
		Long: `Run the same budget with consecutive seeds and report the spread of final
savings (P10/P50/P90) and how often the savings goal was reached.`,
		RunE: runSweepCmd,
	}

	cmd.Flags().StringP("budget", "b", "", "Budget file (YAML or JSON)")
	cmd.Flags().IntP("runs", "n", 1000, "Number of simulations")
	cmd.Flags().Uint64("seed", 1, "Seed of the first run")
	cmd.Flags().IntP("months", "m", 0, "Override the number of simulated months")
	cmd.Flags().Int("workers", 4, "Concurrent simulations")
	cmd.Flags().StringP("output", "o", outputTable, "Output format (table, json)")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func runSweepCmd(cmd *cobra.Command, _ []string) error {
	opts := sweepOptions{}
	opts.budgetPath, _ = cmd.Flags().GetString("budget")
	opts.runs, _ = cmd.Flags().GetInt("runs")
	opts.baseSeed, _ = cmd.Flags().GetUint64("seed")
	opts.workers, _ = cmd.Flags().GetInt("workers")
	opts.output, _ = cmd.Flags().GetString("output")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	opts.progress = !noProgress && opts.output == outputTable

	if cmd.Flags().Changed("months") {
		months, _ := cmd.Flags().GetInt("months")
		opts.months = &months
	}
	if opts.output != outputTable && opts.output != outputJSON {
		return common.NewUserError(fmt.Sprintf("unknown output format %q", opts.output), nil)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Sweep")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	return runSweep(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
}

func runSweep(ctx context.Context, w, progressOut io.Writer, opts sweepOptions) error {
	cfg, err := loadBudget(opts.budgetPath, opts.months)
	if err != nil {
		return err
	}

	sweepOpts := simulation.SweepOptions{
		BaseSeed: opts.baseSeed,
		Runs:     opts.runs,
		Workers:  opts.workers,
	}
	if opts.progress {
		sweepOpts.Progress = cli.NewSweepProgress(progressOut, opts.runs).Update
	}

	engine := simulation.NewEngine(simulation.WithLogger(slog.Default()))
	report, err := engine.Sweep(ctx, cfg, sweepOpts)
	if err != nil {
		return common.NewUserError("sweep failed", err)
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	_, err = fmt.Fprintln(w, cli.RenderSweep(report, cfg.SavingsGoal))
	return err
}

