package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/budgetsim/internal/analysis"
	"github.com/Veraticus/budgetsim/internal/model"
)

const (
	// volatilityShare is the std dev, as a share of budget, that flags a category.
	volatilityShare = 0.10
	// fixedShare is the share of income above which fixed costs are flagged.
	fixedShare = 0.40
)

// RuleBased applies fixed rules in priority order. It never fails.
type RuleBased struct{}

// NewRuleBased creates the deterministic strategy.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Recommend evaluates the savings shortfall, category volatility and fixed
// cost rules, in that order, and falls back to a balanced-budget note.
func (r *RuleBased) Recommend(_ context.Context, cfg model.BudgetConfig, records []model.MonthRecord) []string {
	if len(records) == 0 {
		return []string{NoDataMessage}
	}

	snap := analysis.Analyze(cfg, records)
	var recs []string

	if avg := snap.Summary.AverageMonthlySavings; avg < cfg.SavingsGoal {
		shortfall := model.Round2(cfg.SavingsGoal - avg)
		recs = append(recs, fmt.Sprintf(
			"Increase your monthly savings by $%.2f to meet your $%.2f goal. "+
				"Consider reducing variable expenses or negotiating lower fixed costs.",
			shortfall, cfg.SavingsGoal))
	}

	var volatile []string
	for _, c := range snap.Categories {
		if c.StdDev > volatilityShare*c.Budget {
			volatile = append(volatile, fmt.Sprintf("%s (std dev: %.2f)", c.Name, model.Round2(c.StdDev)))
		}
	}
	if len(volatile) > 0 {
		recs = append(recs, "High variability detected in variable expenses: "+
			strings.Join(volatile, ", ")+". Consider budgeting cautiously for these items.")
	}

	if cfg.FixedTotal() > fixedShare*cfg.MonthlyIncome {
		recs = append(recs, fmt.Sprintf(
			"Fixed expenses take %.1f%% of your monthly income, above the 40%% guideline. "+
				"Look into renegotiating or reducing fixed costs like rent or insurance.",
			model.Round1(snap.Ratios.FixedPct)))
	}

	if len(recs) == 0 {
		recs = append(recs, "Your budget looks well balanced. Keep up the good work!")
	}

	return limit(recs)
}
