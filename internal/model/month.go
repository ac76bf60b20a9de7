package model

// MonthRecord is the realized cash flow for one simulated month.
// Records are created once by the engine and never modified.
type MonthRecord struct {
	ExpenseVariations map[string]float64 `json:"expense_variations"`
	Month             int                `json:"month"`
	Income            float64            `json:"income"`
	FixedExpenses     float64            `json:"fixed_expenses"`
	VariableExpenses  float64            `json:"variable_expenses"`
	TotalExpenses     float64            `json:"total_expenses"`
	MonthlySavings    float64            `json:"monthly_savings"`
	CumulativeSavings float64            `json:"cumulative_savings"`
	SavingsGoalMet    bool               `json:"savings_goal_met"`
}

// MonthRef points at a month and the savings realized in it.
type MonthRef struct {
	Month    int     `json:"month"`
	Savings  float64 `json:"savings"`
	Expenses float64 `json:"expenses"`
}

// Summary aggregates a full sequence of month records.
type Summary struct {
	BestMonth              MonthRef `json:"best_month"`
	WorstMonth             MonthRef `json:"worst_month"`
	Months                 int      `json:"months"`
	MonthsGoalMet          int      `json:"months_goal_met"`
	TotalIncome            float64  `json:"total_income"`
	TotalExpenses          float64  `json:"total_expenses"`
	AverageMonthlySavings  float64  `json:"average_monthly_savings"`
	MinMonthlySavings      float64  `json:"min_monthly_savings"`
	MaxMonthlySavings      float64  `json:"max_monthly_savings"`
	FinalCumulativeSavings float64  `json:"final_cumulative_savings"`
	SavingsGoalPercentage  float64  `json:"savings_goal_percentage"`
	SavingsVolatility      float64  `json:"savings_volatility"`
}

// IsEmpty reports whether the summary was built from no records.
func (s Summary) IsEmpty() bool {
	return s.Months == 0
}

// Ref builds a MonthRef for the record.
func (r MonthRecord) Ref() MonthRef {
	return MonthRef{Month: r.Month, Savings: r.MonthlySavings, Expenses: r.TotalExpenses}
}

// Rounded returns a copy with currency values rounded to cents and the goal
// percentage rounded to one decimal, for presentation.
func (s Summary) Rounded() Summary {
	out := s
	out.BestMonth.Savings = Round2(s.BestMonth.Savings)
	out.BestMonth.Expenses = Round2(s.BestMonth.Expenses)
	out.WorstMonth.Savings = Round2(s.WorstMonth.Savings)
	out.WorstMonth.Expenses = Round2(s.WorstMonth.Expenses)
	out.TotalIncome = Round2(s.TotalIncome)
	out.TotalExpenses = Round2(s.TotalExpenses)
	out.AverageMonthlySavings = Round2(s.AverageMonthlySavings)
	out.MinMonthlySavings = Round2(s.MinMonthlySavings)
	out.MaxMonthlySavings = Round2(s.MaxMonthlySavings)
	out.FinalCumulativeSavings = Round2(s.FinalCumulativeSavings)
	out.SavingsGoalPercentage = Round1(s.SavingsGoalPercentage)
	out.SavingsVolatility = Round2(s.SavingsVolatility)
	return out
}
