package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdDevIsPopulation(t *testing.T) {
	assert.InDelta(t, 2.0, stdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Zero(t, stdDev(nil))
	assert.Zero(t, stdDev([]float64{3}))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.InDelta(t, 0.4, coefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Zero(t, coefficientOfVariation([]float64{-1, 1}))
	assert.False(t, math.IsNaN(coefficientOfVariation(nil)))
}

func TestMinMax(t *testing.T) {
	lo, hi := minMax([]float64{3, -2, 8, 0})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 8.0, hi)

	lo, hi = minMax(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 25.0, percentOf(1, 4))
	assert.Zero(t, percentOf(5, 0))
}
