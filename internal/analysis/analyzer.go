package analysis

import (
	"math"

	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

// Analyze derives a Snapshot from a configuration and the months simulated
// from it. It never fails: an empty record slice yields an empty snapshot
// whose trend is TrendInsufficientData.
func Analyze(cfg model.BudgetConfig, records []model.MonthRecord) Snapshot {
	snap := Snapshot{
		Config:     cfg.Clone(),
		Categories: []CategoryStats{},
		Trend:      TrendInsufficientData,
		Ratios:     budgetRatios(cfg),
	}
	if len(records) == 0 {
		return snap
	}

	snap.Summary = simulation.Summarize(records)
	snap.Ratios.ActualSavingsRate = percentOf(snap.Summary.TotalIncome-snap.Summary.TotalExpenses, snap.Summary.TotalIncome)
	snap.IncomeStability = IncomeStability(records)
	snap.ExpenseVolatility = ExpenseVolatility(records)
	snap.Trend, snap.TrendChangePct = SavingsTrend(records)

	for _, name := range cfg.VariableCategories() {
		snap.Categories = append(snap.Categories, categoryStats(name, cfg.VariableExpenses[name], records))
	}

	return snap
}

func budgetRatios(cfg model.BudgetConfig) Ratios {
	return Ratios{
		FixedPct:          percentOf(cfg.FixedTotal(), cfg.MonthlyIncome),
		VariableBudgetPct: percentOf(cfg.VariableBudgetTotal(), cfg.MonthlyIncome),
		PlannedSavingsPct: percentOf(cfg.SavingsGoal, cfg.MonthlyIncome),
	}
}

func categoryStats(name string, budget float64, records []model.MonthRecord) CategoryStats {
	spent := make([]float64, len(records))
	over := 0
	for i, r := range records {
		spent[i] = r.ExpenseVariations[name]
		if spent[i] > budget {
			over++
		}
	}

	stats := CategoryStats{
		Name:             name,
		Budget:           budget,
		AverageActual:    mean(spent),
		StdDev:           stdDev(spent),
		MonthsOverBudget: over,
		OverBudgetPct:    percentOf(float64(over), float64(len(records))),
	}
	stats.MinSpent, stats.MaxSpent = minMax(spent)

	if budget != 0 {
		stats.AdherencePct = (budget - stats.AverageActual) / budget * 100
		stats.HasAdherence = true
	}
	if budget > 0 {
		stats.VolatilityRatio = stats.StdDev / budget
	}
	return stats
}

// IncomeStability scores realized income from 0 to 1. Identical incomes
// score exactly 1; otherwise the score is 1 minus the coefficient of
// variation, floored at 0.
func IncomeStability(records []model.MonthRecord) float64 {
	incomes := make([]float64, len(records))
	for i, r := range records {
		incomes[i] = r.Income
	}
	if allEqual(incomes) {
		return 1.0
	}
	return math.Max(0, 1-coefficientOfVariation(incomes))
}

// ExpenseVolatility is the coefficient of variation of total expenses,
// capped at 1.
func ExpenseVolatility(records []model.MonthRecord) float64 {
	totals := make([]float64, len(records))
	for i, r := range records {
		totals[i] = r.TotalExpenses
	}
	return math.Min(1, coefficientOfVariation(totals))
}

// SavingsTrend compares mean savings of the second half of the run with the
// first half, split at len/2. It returns the classification and the
// percentage change. A first half averaging exactly zero counts as no change.
func SavingsTrend(records []model.MonthRecord) (Trend, float64) {
	if len(records) < 3 {
		return TrendInsufficientData, 0
	}

	savings := make([]float64, len(records))
	for i, r := range records {
		savings[i] = r.MonthlySavings
	}

	mid := len(savings) / 2
	first := mean(savings[:mid])
	second := mean(savings[mid:])

	var change float64
	if first != 0 {
		change = (second - first) / math.Abs(first) * 100
	}

	switch {
	case change > trendThreshold:
		return TrendImproving, change
	case change < -trendThreshold:
		return TrendDeclining, change
	default:
		return TrendStable, change
	}
}
