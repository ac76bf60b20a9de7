package simulation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/variation"
)

const defaultSweepWorkers = 4

// SweepOptions controls a Monte Carlo sweep.
type SweepOptions struct {
	// Progress is called once per finished run with the number done so far.
	Progress func(done, total int)
	BaseSeed uint64
	Runs     int
	Workers  int
}

// SweepRun is the condensed outcome of one run inside a sweep.
type SweepRun struct {
	Seed                   uint64  `json:"seed"`
	FinalCumulativeSavings float64 `json:"final_cumulative_savings"`
	AverageMonthlySavings  float64 `json:"average_monthly_savings"`
	SavingsGoalPercentage  float64 `json:"savings_goal_percentage"`
}

// SweepReport aggregates many runs of the same configuration.
type SweepReport struct {
	Runs              []SweepRun `json:"runs"`
	RunCount          int        `json:"run_count"`
	MeanFinalSavings  float64    `json:"mean_final_savings"`
	MinFinalSavings   float64    `json:"min_final_savings"`
	MaxFinalSavings   float64    `json:"max_final_savings"`
	P10FinalSavings   float64    `json:"p10_final_savings"`
	P50FinalSavings   float64    `json:"p50_final_savings"`
	P90FinalSavings   float64    `json:"p90_final_savings"`
	MeanGoalMetPct    float64    `json:"mean_goal_met_pct"`
	GoalReachedRunPct float64    `json:"goal_reached_run_pct"`
}

// Sweep runs cfg opts.Runs times with seeds BaseSeed, BaseSeed+1, ... over a
// bounded worker pool. At most opts.Workers runs are in flight at once. Each run owns its random source, so the report equals
// the one produced by running the same seeds one after another.
func (e *Engine) Sweep(ctx context.Context, cfg model.BudgetConfig, opts SweepOptions) (*SweepReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cannot sweep: %w", err)
	}
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("sweep needs at least one run, got %d", opts.Runs)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultSweepWorkers
	}

	ctx, span := e.tracer.Start(ctx, "simulation.Sweep", trace.WithAttributes(
		attribute.Int("sweep.runs", opts.Runs),
		attribute.Int("sweep.workers", workers),
	))
	defer span.End()

	snapshot := cfg.Clone()
	runs := make([]SweepRun, opts.Runs)
	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)

dispatch:
	for i := 0; i < opts.Runs; i++ {
		if err := ctx.Err(); err != nil {
			firstErr = err
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			firstErr = ctx.Err()
			break dispatch
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			seed := opts.BaseSeed + uint64(idx)
			months := Simulate(snapshot, variation.New(variation.NewSource(seed)))
			summary := Summarize(months)
			runs[idx] = SweepRun{
				Seed:                   seed,
				FinalCumulativeSavings: summary.FinalCumulativeSavings,
				AverageMonthlySavings:  summary.AverageMonthlySavings,
				SavingsGoalPercentage:  summary.SavingsGoalPercentage,
			}

			mu.Lock()
			done++
			current := done
			mu.Unlock()
			if opts.Progress != nil {
				opts.Progress(current, opts.Runs)
			}
		}(i)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", firstErr)
	}

	report := aggregateSweep(runs, snapshot.SavingsGoal, snapshot.SimulationMonths > 0)
	e.logger.Info("sweep completed",
		"runs", report.RunCount,
		"p50_final_savings", report.P50FinalSavings,
		"goal_reached_run_pct", report.GoalReachedRunPct)

	return report, nil
}

func aggregateSweep(runs []SweepRun, savingsGoal float64, hasMonths bool) *SweepReport {
	report := &SweepReport{Runs: runs, RunCount: len(runs)}
	if len(runs) == 0 {
		return report
	}

	finals := make([]float64, len(runs))
	var finalSum, goalPctSum float64
	reached := 0
	for i, r := range runs {
		finals[i] = r.FinalCumulativeSavings
		finalSum += r.FinalCumulativeSavings
		goalPctSum += r.SavingsGoalPercentage
		if hasMonths && r.AverageMonthlySavings >= savingsGoal {
			reached++
		}
	}
	sort.Float64s(finals)

	n := float64(len(runs))
	report.MeanFinalSavings = finalSum / n
	report.MinFinalSavings = finals[0]
	report.MaxFinalSavings = finals[len(finals)-1]
	report.P10FinalSavings = percentile(finals, 10)
	report.P50FinalSavings = percentile(finals, 50)
	report.P90FinalSavings = percentile(finals, 90)
	report.MeanGoalMetPct = goalPctSum / n
	report.GoalReachedRunPct = float64(reached) / n * 100

	return report
}

// percentile interpolates linearly between closest ranks of sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
