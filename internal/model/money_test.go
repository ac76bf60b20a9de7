package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 460.0, Round2(460.0000001))
	assert.Equal(t, 66.7, Round1(66.666))
	assert.Equal(t, 0.0, Round1(0.04))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$5,000.00", FormatMoney(5000))
	assert.Equal(t, "$1,234,567.89", FormatMoney(1234567.891))
	assert.Equal(t, "$0.50", FormatMoney(0.5))
	assert.Equal(t, "-$1,234.50", FormatMoney(-1234.5))
}

func TestSummaryRounded(t *testing.T) {
	s := Summary{
		BestMonth:             MonthRef{Month: 2, Savings: 3148.204, Expenses: 1851.796},
		Months:                3,
		AverageMonthlySavings: 1988.52666,
		SavingsGoalPercentage: 66.6666,
	}

	r := s.Rounded()
	assert.Equal(t, 3148.2, r.BestMonth.Savings)
	assert.Equal(t, 1851.8, r.BestMonth.Expenses)
	assert.Equal(t, 1988.53, r.AverageMonthlySavings)
	assert.Equal(t, 66.7, r.SavingsGoalPercentage)
	assert.Equal(t, 3, r.Months)
	assert.Equal(t, 1988.52666, s.AverageMonthlySavings)
}
