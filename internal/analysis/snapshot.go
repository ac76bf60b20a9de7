// Package analysis derives statistics from completed budget simulations.
package analysis

import "github.com/Veraticus/budgetsim/internal/model"

// Trend classifies how monthly savings move over a run.
type Trend string

const (
	// TrendInsufficientData is reported for runs shorter than three months.
	TrendInsufficientData Trend = "insufficient data"
	// TrendImproving means the second half saved over 10% more than the first.
	TrendImproving Trend = "improving"
	// TrendDeclining means the second half saved over 10% less than the first.
	TrendDeclining Trend = "declining"
	// TrendStable covers everything in between.
	TrendStable Trend = "stable"
)

// trendThreshold is the percentage change that separates stable from moving.
const trendThreshold = 10.0

// CategoryStats describes realized spending in one variable category.
type CategoryStats struct {
	Name             string  `json:"name"`
	Budget           float64 `json:"budget"`
	AverageActual    float64 `json:"average_actual"`
	StdDev           float64 `json:"std_deviation"`
	MinSpent         float64 `json:"min_spent"`
	MaxSpent         float64 `json:"max_spent"`
	VolatilityRatio  float64 `json:"volatility_ratio"`
	OverBudgetPct    float64 `json:"overspend_months_pct"`
	MonthsOverBudget int     `json:"months_over_budget"`
	// AdherencePct is meaningful only when HasAdherence is set; a zero
	// budget has no adherence.
	AdherencePct float64 `json:"budget_adherence_pct"`
	HasAdherence bool    `json:"has_adherence"`
}

// Ratios relate the configured budget and realized savings to income.
type Ratios struct {
	FixedPct          float64 `json:"fixed_expense_ratio"`
	VariableBudgetPct float64 `json:"variable_expense_ratio"`
	PlannedSavingsPct float64 `json:"planned_savings_ratio"`
	ActualSavingsRate float64 `json:"actual_savings_rate"`
}

// Snapshot is a read-only view over a configuration and its simulated months.
type Snapshot struct {
	Config            model.BudgetConfig `json:"config"`
	Categories        []CategoryStats    `json:"variable_expense_analysis"`
	Trend             Trend              `json:"savings_trend"`
	Summary           model.Summary      `json:"summary"`
	Ratios            Ratios             `json:"ratios"`
	TrendChangePct    float64            `json:"trend_change_pct"`
	IncomeStability   float64            `json:"income_stability_score"`
	ExpenseVolatility float64            `json:"expense_volatility_score"`
}

// Months is the number of simulated months the snapshot covers.
func (s Snapshot) Months() int {
	return s.Summary.Months
}

// Empty reports whether there was nothing to analyze.
func (s Snapshot) Empty() bool {
	return s.Summary.IsEmpty()
}

// Category returns the stats for name, if that category was configured.
func (s Snapshot) Category(name string) (CategoryStats, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryStats{}, false
}
