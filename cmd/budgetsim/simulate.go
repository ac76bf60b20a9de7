package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budgetsim/internal/cli"
	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/export"
	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/recommend"
	"github.com/Veraticus/budgetsim/internal/server"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type simulateOptions struct {
	budgetPath string
	exportPath string
	output     string
	months     *int
	seed       *uint64
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a budget month by month",
		Long: `Simulate a budget file (YAML or JSON) and print the monthly results,
a summary and recommendations.

Example budget:

  monthly_income: 5000
  savings_goal: 500
  simulation_months: 12
  fixed_expenses:
    rent: 1500
  variable_expenses:
    food: 400`,
		RunE: runSimulateCmd,
	}

	cmd.Flags().StringP("budget", "b", "", "Budget file (YAML or JSON)")
	cmd.Flags().Uint64("seed", 0, "Random seed for a reproducible run")
	cmd.Flags().IntP("months", "m", 0, "Override the number of simulated months")
	cmd.Flags().StringP("export", "e", "", "Write monthly results as CSV to this file or directory")
	cmd.Flags().StringP("output", "o", outputTable, "Output format (table, json)")
	cmd.Flags().String("advisor", config.AdvisorRules, "Recommendation advisor (rules, llm)")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	opts, err := simulateFlags(cmd)
	if err != nil {
		return err
	}

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}

	strategy, err := newStrategy(settings, advisorFlag(cmd, settings))
	if err != nil {
		return err
	}

	return runSimulate(cmd.Context(), cmd.OutOrStdout(), opts, strategy)
}

func simulateFlags(cmd *cobra.Command) (simulateOptions, error) {
	opts := simulateOptions{}
	opts.budgetPath, _ = cmd.Flags().GetString("budget")
	opts.exportPath, _ = cmd.Flags().GetString("export")
	opts.output, _ = cmd.Flags().GetString("output")

	if cmd.Flags().Changed("months") {
		months, _ := cmd.Flags().GetInt("months")
		opts.months = &months
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts.seed = &seed
	}

	if opts.output != outputTable && opts.output != outputJSON {
		return opts, common.NewUserError(fmt.Sprintf("unknown output format %q", opts.output), nil)
	}
	return opts, nil
}

// advisorFlag prefers an explicit --advisor over the configured default.
func advisorFlag(cmd *cobra.Command, settings config.Settings) string {
	if cmd.Flags().Changed("advisor") {
		advisor, _ := cmd.Flags().GetString("advisor")
		return strings.ToLower(advisor)
	}
	return settings.Advisor
}

func loadBudget(path string, months *int) (model.BudgetConfig, error) {
	cfg, err := model.LoadBudgetFile(config.ExpandPath(path))
	if err != nil {
		return model.BudgetConfig{}, common.NewUserError("could not load budget", err)
	}
	if months != nil {
		cfg.SimulationMonths = *months
	}
	return cfg, nil
}

func runSimulate(ctx context.Context, w io.Writer, opts simulateOptions, strategy recommend.Strategy) error {
	cfg, err := loadBudget(opts.budgetPath, opts.months)
	if err != nil {
		return err
	}

	engine := simulation.NewEngine(simulation.WithLogger(slog.Default()))

	var res *simulation.Result
	if opts.seed != nil {
		res, err = engine.RunWithSeed(ctx, cfg, *opts.seed)
	} else {
		res, err = engine.Run(ctx, cfg)
	}
	if err != nil {
		return common.NewUserError("simulation failed", err)
	}

	recs := strategy.Recommend(ctx, res.Config, res.Months)

	csvPath, err := exportResult(opts.exportPath, res)
	if err != nil {
		return err
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		var csvName string
		if csvPath != "" {
			csvName = filepath.Base(csvPath)
		}
		return enc.Encode(server.Response{
			Success: true,
			Results: server.NewResults(res, recs, csvName),
		})
	}

	sections := []string{
		cli.FormatTitle(fmt.Sprintf("Budget simulation (%d months, seed %d)", len(res.Months), res.Seed)),
		cli.RenderMonths(res.Months),
		cli.RenderSummary(res.Summary, res.Config.SavingsGoal),
		cli.RenderRecommendations(recs),
	}
	if csvPath != "" {
		sections = append(sections, cli.FormatSuccess("Exported monthly results to "+csvPath))
	}

	_, err = fmt.Fprintln(w, strings.Join(sections, "\n\n"))
	return err
}

// exportResult writes the run to target. A directory target (existing, or
// ending in a separator) gets a generated file name.
func exportResult(target string, res *simulation.Result) (string, error) {
	if target == "" {
		return "", nil
	}
	if len(res.Months) == 0 {
		slog.Warn("Nothing to export, no months were simulated")
		return "", nil
	}

	path := config.ExpandPath(target)
	if isDirTarget(path) {
		path = filepath.Join(path, export.Filename(res.GeneratedAt, res.ID))
	}

	if err := export.WriteCSV(path, res.Months); err != nil {
		return "", common.NewUserError("could not export results", err)
	}
	return path, nil
}

func isDirTarget(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
