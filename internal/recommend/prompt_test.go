package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetsim/internal/analysis"
	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

func TestPromptBuilderBuild(t *testing.T) {
	cfg := model.BudgetConfig{
		MonthlyIncome:    5000,
		FixedExpenses:    map[string]float64{"rent": 1500, "insurance": 250},
		VariableExpenses: map[string]float64{"food": 400, "gifts": 0},
		SavingsGoal:      500,
		SimulationMonths: 3,
	}
	snap := analysis.Analyze(cfg, simulation.Simulate(cfg, swingVarier{}))

	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	prompt, err := pb.Build(snap)
	require.NoError(t, err)

	for _, want := range []string{
		"BUDGET SIMULATION ANALYSIS - 3 MONTHS",
		"• Monthly Income: $5,000.00",
		"• Savings Goal: $500.00/month (10.0% of income)",
		"• Savings Trend: stable",
		"• Fixed Expenses: 35.0% of income ($1,750.00)",
		"  - insurance: $250.00 (5.0%)\n  - rent: $1,500.00 (30.0%)",
		"  - food:\n    Budget: $400.00 | Actual Avg: $400.00",
		"Budget Adherence: +0.0% | Volatility: 0.00",
		"Budget Adherence: n/a",
		"Over-budget 0/3 months (0%)",
		"• Income Stability Score: 1.00/1.0",
		"• Best Month: Month 1 ($2,850.00 saved)",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "<no value>")
}

func TestPromptBuilderSystem(t *testing.T) {
	pb, err := NewPromptBuilder()
	require.NoError(t, err)

	system := pb.System()
	assert.Contains(t, system, "**Title** format")
	assert.Contains(t, system, "Do NOT use markdown headers")
	assert.NotContains(t, system, "{{")
}
