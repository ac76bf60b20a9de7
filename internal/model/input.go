package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/budgetsim/internal/common"
)

// BudgetInput is the wire form of a budget configuration. Pointer fields let
// decoding tell a missing value apart from a zero one. Numbers may also be
// given as numeric strings.
type BudgetInput struct {
	MonthlyIncome    *Amount           `json:"monthly_income" yaml:"monthly_income"`
	SavingsGoal      *Amount           `json:"savings_goal" yaml:"savings_goal"`
	SimulationMonths *Count            `json:"simulation_months,omitempty" yaml:"simulation_months,omitempty"`
	FixedExpenses    map[string]Amount `json:"fixed_expenses" yaml:"fixed_expenses"`
	VariableExpenses map[string]Amount `json:"variable_expenses" yaml:"variable_expenses"`
}

// Config converts the input into a validated BudgetConfig.
func (in BudgetInput) Config() (BudgetConfig, error) {
	if in.MonthlyIncome == nil {
		return BudgetConfig{}, common.MissingField("monthly_income")
	}
	if in.SavingsGoal == nil {
		return BudgetConfig{}, common.MissingField("savings_goal")
	}

	months := DefaultSimulationMonths
	if in.SimulationMonths != nil {
		months = int(*in.SimulationMonths)
	}

	cfg := BudgetConfig{
		MonthlyIncome:    float64(*in.MonthlyIncome),
		SavingsGoal:      float64(*in.SavingsGoal),
		SimulationMonths: months,
		FixedExpenses:    amountsToFloats(in.FixedExpenses),
		VariableExpenses: amountsToFloats(in.VariableExpenses),
	}
	if err := cfg.Validate(); err != nil {
		return BudgetConfig{}, err
	}
	return cfg, nil
}

// DecodeJSON parses a JSON budget document. Unknown fields are ignored and
// type mismatches are reported as invalid configuration.
func DecodeJSON(data []byte) (BudgetConfig, error) {
	var in BudgetInput
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return BudgetConfig{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return in.Config()
}

// DecodeYAML parses a YAML (or JSON) budget document.
func DecodeYAML(data []byte) (BudgetConfig, error) {
	var in BudgetInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return BudgetConfig{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return in.Config()
}

// LoadBudgetFile reads a budget from a YAML or JSON file.
func LoadBudgetFile(path string) (BudgetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BudgetConfig{}, fmt.Errorf("failed to read budget file: %w", err)
	}

	cfg, err := DecodeYAML(data)
	if err != nil {
		return BudgetConfig{}, fmt.Errorf("budget file %s: %w", path, err)
	}
	return cfg, nil
}

// Input converts a config back into its wire form.
func (c BudgetConfig) Input() BudgetInput {
	income := Amount(c.MonthlyIncome)
	goal := Amount(c.SavingsGoal)
	months := Count(c.SimulationMonths)
	return BudgetInput{
		MonthlyIncome:    &income,
		SavingsGoal:      &goal,
		SimulationMonths: &months,
		FixedExpenses:    floatsToAmounts(c.FixedExpenses),
		VariableExpenses: floatsToAmounts(c.VariableExpenses),
	}
}
