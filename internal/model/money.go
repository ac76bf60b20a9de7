package model

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Round2 rounds a currency amount to cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round1 rounds a percentage to one decimal place.
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// FormatMoney renders a dollar amount with thousands separators, e.g. $5,000.00.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}
