// Package recommend turns simulated budgets into advisory text.
package recommend

import (
	"context"

	"github.com/Veraticus/budgetsim/internal/model"
)

// MaxRecommendations caps every strategy's output.
const MaxRecommendations = 6

// NoDataMessage is returned alone when there are no simulated months.
const NoDataMessage = "No simulation results to analyze. Run a simulation first."

// Strategy produces between one and MaxRecommendations advisory strings.
type Strategy interface {
	Recommend(ctx context.Context, cfg model.BudgetConfig, records []model.MonthRecord) []string
}

func limit(recs []string) []string {
	if len(recs) > MaxRecommendations {
		return recs[:MaxRecommendations]
	}
	return recs
}
