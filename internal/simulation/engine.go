// Package simulation drives month-by-month budget simulations.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/variation"
)

const tracerName = "github.com/Veraticus/budgetsim/internal/simulation"

// Result is the outcome of one simulation run.
type Result struct {
	GeneratedAt time.Time           `json:"generated_at"`
	ID          string              `json:"id"`
	Config      model.BudgetConfig  `json:"input_parameters"`
	Months      []model.MonthRecord `json:"monthly_results"`
	Summary     model.Summary       `json:"summary"`
	Seed        uint64              `json:"seed"`
}

// Engine runs simulations. It holds no per-run state, so one Engine may
// serve concurrent runs; every run gets its own random source.
type Engine struct {
	logger *slog.Logger
	tracer trace.Tracer
	seed   *uint64
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the seed used by every run, making results reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a simulation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = common.LoggerOrDefault(e.logger)
	return e
}

// Run validates cfg and simulates it with the engine's seed, or a fresh
// random seed when none was configured.
func (e *Engine) Run(ctx context.Context, cfg model.BudgetConfig) (*Result, error) {
	seed := rand.Uint64()
	if e.seed != nil {
		seed = *e.seed
	}
	return e.RunWithSeed(ctx, cfg, seed)
}

// RunWithSeed validates cfg and simulates it with an explicit seed.
func (e *Engine) RunWithSeed(ctx context.Context, cfg model.BudgetConfig, seed uint64) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cannot simulate: %w", err)
	}

	_, span := e.tracer.Start(ctx, "simulation.Run", trace.WithAttributes(
		attribute.Int("budget.months", cfg.SimulationMonths),
		attribute.Int("budget.variable_categories", len(cfg.VariableExpenses)),
		attribute.Int64("budget.seed", int64(seed)),
	))
	defer span.End()

	snapshot := cfg.Clone()
	months := Simulate(snapshot, variation.New(variation.NewSource(seed)))
	summary := Summarize(months)

	e.logger.Debug("simulation completed",
		"months", len(months),
		"seed", seed,
		"final_cumulative_savings", summary.FinalCumulativeSavings)

	return &Result{
		ID:          uuid.New().String(),
		GeneratedAt: e.now(),
		Seed:        seed,
		Config:      snapshot,
		Months:      months,
		Summary:     summary,
	}, nil
}

// Varier is the subset of the variation model the simulation loop needs.
type Varier interface {
	VaryExpense(base float64, month int) float64
	VaryIncome(base float64, month int) float64
}

// Simulate produces one record per month 1..cfg.SimulationMonths. Variable
// categories are drawn in sorted name order so a seeded varier always yields
// the same sequence.
func Simulate(cfg model.BudgetConfig, v Varier) []model.MonthRecord {
	if cfg.SimulationMonths <= 0 {
		return []model.MonthRecord{}
	}

	fixedTotal := cfg.FixedTotal()
	categories := cfg.VariableCategories()
	records := make([]model.MonthRecord, 0, cfg.SimulationMonths)

	var cumulative float64
	for month := 1; month <= cfg.SimulationMonths; month++ {
		income := v.VaryIncome(cfg.MonthlyIncome, month)

		variations := make(map[string]float64, len(categories))
		var variableTotal float64
		for _, name := range categories {
			amount := v.VaryExpense(cfg.VariableExpenses[name], month)
			variations[name] = amount
			variableTotal += amount
		}

		total := fixedTotal + variableTotal
		savings := income - total
		cumulative += savings

		records = append(records, model.MonthRecord{
			Month:             month,
			Income:            income,
			FixedExpenses:     fixedTotal,
			VariableExpenses:  variableTotal,
			TotalExpenses:     total,
			MonthlySavings:    savings,
			CumulativeSavings: cumulative,
			SavingsGoalMet:    savings >= cfg.SavingsGoal,
			ExpenseVariations: variations,
		})
	}

	return records
}

// Summarize reduces a record sequence. Best and worst month ties resolve to
// the earliest month.
func Summarize(records []model.MonthRecord) model.Summary {
	if len(records) == 0 {
		return model.Summary{}
	}

	best, worst := records[0], records[0]
	var summary model.Summary
	var savingsTotal float64

	for _, r := range records {
		summary.TotalIncome += r.Income
		summary.TotalExpenses += r.TotalExpenses
		savingsTotal += r.MonthlySavings
		if r.SavingsGoalMet {
			summary.MonthsGoalMet++
		}
		if r.MonthlySavings > best.MonthlySavings {
			best = r
		}
		if r.MonthlySavings < worst.MonthlySavings {
			worst = r
		}
	}

	n := len(records)
	summary.Months = n
	summary.AverageMonthlySavings = savingsTotal / float64(n)
	summary.FinalCumulativeSavings = records[n-1].CumulativeSavings
	summary.SavingsGoalPercentage = float64(summary.MonthsGoalMet) / float64(n) * 100
	summary.MaxMonthlySavings = best.MonthlySavings
	summary.MinMonthlySavings = worst.MonthlySavings
	summary.BestMonth = best.Ref()
	summary.WorstMonth = worst.Ref()
	summary.SavingsVolatility = best.MonthlySavings - worst.MonthlySavings

	return summary
}
