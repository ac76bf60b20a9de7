// Package variation perturbs budgeted amounts with seasonal and random effects.
package variation

import (
	"math/rand/v2"

	"github.com/Veraticus/budgetsim/internal/model"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

const (
	expenseJitterLow  = 0.85
	expenseJitterHigh = 1.15

	stableIncomeProbability = 0.8
	incomeJitterLow         = 0.95
	incomeJitterHigh        = 1.05
)

// MonthOfYear maps a 1-based simulation month onto 1..12.
func MonthOfYear(month int) int {
	m := (month - 1) % 12
	if m < 0 {
		m += 12
	}
	return m + 1
}

// SeasonalFactor is the expense multiplier for a 1-based simulation month.
func SeasonalFactor(month int) float64 {
	switch MonthOfYear(month) {
	case 12, 1:
		return 1.15 // holidays
	case 2, 3:
		return 0.90
	case 7, 8:
		return 1.10 // summer
	default:
		return 1.0
	}
}

// Model draws perturbed amounts from a single Source.
// A Model is not safe for concurrent use; give each run its own.
type Model struct {
	src Source
}

// New creates a Model backed by src.
func New(src Source) *Model {
	return &Model{src: src}
}

// VaryExpense applies the seasonal factor and a uniform jitter to base.
func (m *Model) VaryExpense(base float64, month int) float64 {
	jitter := m.uniform(expenseJitterLow, expenseJitterHigh)
	return model.Round2(base * SeasonalFactor(month) * jitter)
}

// VaryIncome returns base unchanged most months and a small jitter otherwise.
// Exactly one draw decides which case applies.
func (m *Model) VaryIncome(base float64, _ int) float64 {
	if m.src.Float64() < stableIncomeProbability {
		return base
	}
	return model.Round2(base * m.uniform(incomeJitterLow, incomeJitterHigh))
}

func (m *Model) uniform(low, high float64) float64 {
	return low + (high-low)*m.src.Float64()
}
