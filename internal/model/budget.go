// Package model defines the budget configuration and simulation records.
package model

import (
	"math"
	"sort"

	"github.com/Veraticus/budgetsim/internal/common"
)

// DefaultSimulationMonths is the horizon used when none is supplied.
const DefaultSimulationMonths = 12

// BudgetConfig is the immutable input of a simulation run.
// Callers must not modify the maps after handing a config to the engine;
// the engine clones it at the start of every run.
type BudgetConfig struct {
	FixedExpenses    map[string]float64 `json:"fixed_expenses"`
	VariableExpenses map[string]float64 `json:"variable_expenses"`
	MonthlyIncome    float64            `json:"monthly_income"`
	SavingsGoal      float64            `json:"savings_goal"`
	SimulationMonths int                `json:"simulation_months"`
}

// Validate rejects configurations that cannot be simulated. A non-positive
// horizon or empty category maps are allowed and produce degenerate runs.
func (c BudgetConfig) Validate() error {
	if !isFinite(c.MonthlyIncome) {
		return common.InvalidField("monthly_income", "must be a finite number")
	}
	if c.MonthlyIncome <= 0 {
		return common.InvalidField("monthly_income", "must be positive")
	}
	if !isFinite(c.SavingsGoal) {
		return common.InvalidField("savings_goal", "must be a finite number")
	}
	if err := validateAmounts("fixed_expenses", c.FixedExpenses); err != nil {
		return err
	}
	return validateAmounts("variable_expenses", c.VariableExpenses)
}

func validateAmounts(field string, amounts map[string]float64) error {
	for name, amount := range amounts {
		if name == "" {
			return common.InvalidField(field, "category name must not be empty")
		}
		if !isFinite(amount) {
			return common.InvalidField(field+"."+name, "must be a finite number")
		}
		if amount < 0 {
			return common.InvalidField(field+"."+name, "must not be negative")
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clone returns a deep copy of the configuration.
func (c BudgetConfig) Clone() BudgetConfig {
	out := c
	out.FixedExpenses = cloneAmounts(c.FixedExpenses)
	out.VariableExpenses = cloneAmounts(c.VariableExpenses)
	return out
}

func cloneAmounts(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// FixedTotal is the sum of all fixed expenses.
func (c BudgetConfig) FixedTotal() float64 {
	return sumSorted(c.FixedExpenses)
}

// VariableBudgetTotal is the sum of all variable expense baselines.
func (c BudgetConfig) VariableBudgetTotal() float64 {
	return sumSorted(c.VariableExpenses)
}

// FixedCategories returns fixed expense names in sorted order.
func (c BudgetConfig) FixedCategories() []string {
	return sortedKeys(c.FixedExpenses)
}

// VariableCategories returns variable expense names in sorted order.
func (c BudgetConfig) VariableCategories() []string {
	return sortedKeys(c.VariableExpenses)
}

// sumSorted adds values in key order so totals are identical across runs.
func sumSorted(m map[string]float64) float64 {
	var total float64
	for _, k := range sortedKeys(m) {
		total += m[k]
	}
	return total
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
