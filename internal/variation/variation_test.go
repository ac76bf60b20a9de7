package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws and counts how many were taken.
type scriptedSource struct {
	draws []float64
	calls int
}

func (s *scriptedSource) Float64() float64 {
	v := s.draws[s.calls%len(s.draws)]
	s.calls++
	return v
}

func TestMonthOfYear(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{1, 1},
		{12, 12},
		{13, 1},
		{24, 12},
		{25, 1},
		{0, 12},
		{-1, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthOfYear(tt.month), "month %d", tt.month)
	}
}

func TestSeasonalFactor(t *testing.T) {
	tests := []struct {
		name  string
		month int
		want  float64
	}{
		{"december", 12, 1.15},
		{"january", 1, 1.15},
		{"february", 2, 0.90},
		{"march", 3, 0.90},
		{"april", 4, 1.0},
		{"july", 7, 1.10},
		{"august", 8, 1.10},
		{"november", 11, 1.0},
		{"wraps to january", 13, 1.15},
		{"wraps to august", 20, 1.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SeasonalFactor(tt.month), 1e-12)
		})
	}
}

func TestVaryExpense(t *testing.T) {
	t.Run("lowest draw", func(t *testing.T) {
		m := New(&scriptedSource{draws: []float64{0}})
		assert.InDelta(t, 340.0, m.VaryExpense(400, 4), 1e-9) // 400 * 1.0 * 0.85
	})

	t.Run("midpoint draw applies only the seasonal factor", func(t *testing.T) {
		m := New(&scriptedSource{draws: []float64{0.5}})
		assert.InDelta(t, 460.0, m.VaryExpense(400, 12), 1e-9)
		assert.InDelta(t, 360.0, m.VaryExpense(400, 3), 1e-9)
		assert.InDelta(t, 440.0, m.VaryExpense(400, 7), 1e-9)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		m := New(&scriptedSource{draws: []float64{0.123456}})
		got := m.VaryExpense(333.33, 5)
		assert.InDelta(t, got, float64(int64(got*100+0.5))/100, 1e-9)
	})

	t.Run("zero base stays zero", func(t *testing.T) {
		m := New(&scriptedSource{draws: []float64{0.99}})
		assert.Zero(t, m.VaryExpense(0, 12))
	})

	t.Run("one draw per call", func(t *testing.T) {
		src := &scriptedSource{draws: []float64{0.3}}
		m := New(src)
		m.VaryExpense(100, 1)
		m.VaryExpense(100, 2)
		assert.Equal(t, 2, src.calls)
	})
}

func TestVaryExpenseSeasonalBounds(t *testing.T) {
	const base = 600.0
	m := New(NewSource(42))

	for i := 0; i < 2000; i++ {
		dec := m.VaryExpense(base, 12)
		assert.GreaterOrEqual(t, dec, base*1.15*0.85-0.005)
		assert.LessOrEqual(t, dec, base*1.15*1.15+0.005)

		mar := m.VaryExpense(base, 3)
		assert.GreaterOrEqual(t, mar, base*0.90*0.85-0.005)
		assert.LessOrEqual(t, mar, base*0.90*1.15+0.005)
	}
}

func TestVaryIncome(t *testing.T) {
	t.Run("stable paycheck below threshold", func(t *testing.T) {
		src := &scriptedSource{draws: []float64{0.79}}
		m := New(src)
		assert.Equal(t, 5000.0, m.VaryIncome(5000, 1))
		assert.Equal(t, 1, src.calls)
	})

	t.Run("varied paycheck uses a second draw", func(t *testing.T) {
		src := &scriptedSource{draws: []float64{0.8, 1.0 - 1e-12}}
		m := New(src)
		got := m.VaryIncome(5000, 1)
		assert.InDelta(t, 5250.0, got, 0.01)
		assert.Equal(t, 2, src.calls)
	})

	t.Run("varied paycheck stays in band", func(t *testing.T) {
		m := New(NewSource(7))
		for i := 0; i < 1000; i++ {
			got := m.VaryIncome(4000, i+1)
			assert.GreaterOrEqual(t, got, 4000*0.95-0.005)
			assert.LessOrEqual(t, got, 4000*1.05+0.005)
		}
	})
}

func TestVaryIncomeVariationRate(t *testing.T) {
	const samples = 20000
	m := New(NewSource(2024))

	varied := 0
	for i := 0; i < samples; i++ {
		if m.VaryIncome(3000, i+1) != 3000 {
			varied++
		}
	}

	rate := float64(varied) / samples
	require.InDelta(t, 0.2, rate, 0.02, "observed variation rate %.3f", rate)
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a := New(NewSource(99))
	b := New(NewSource(99))

	for i := 1; i <= 50; i++ {
		require.Equal(t, a.VaryExpense(250, i), b.VaryExpense(250, i))
		require.Equal(t, a.VaryIncome(5000, i), b.VaryIncome(5000, i))
	}
}
