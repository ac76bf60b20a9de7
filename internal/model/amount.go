package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount is a money value on the wire. It decodes from a number or from a
// numeric string such as "5000", which form-backed clients send.
type Amount float64

// UnmarshalJSON accepts 5000, 5000.5 and "5000".
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Amount(d.InexactFloat64())
	return nil
}

// UnmarshalYAML accepts plain and quoted numeric scalars.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := parseScalar(value)
	if err != nil {
		return err
	}
	*a = Amount(d.InexactFloat64())
	return nil
}

// Count is a whole number on the wire, decoded like Amount.
type Count int

// UnmarshalJSON accepts 12 and "12".
func (c *Count) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid count %s: %w", data, err)
	}
	return c.set(d)
}

// UnmarshalYAML accepts plain and quoted integer scalars.
func (c *Count) UnmarshalYAML(value *yaml.Node) error {
	d, err := parseScalar(value)
	if err != nil {
		return err
	}
	return c.set(d)
}

func (c *Count) set(d decimal.Decimal) error {
	if !d.IsInteger() {
		return fmt.Errorf("invalid count %s: not a whole number", d)
	}
	*c = Count(d.IntPart())
	return nil
}

func parseScalar(value *yaml.Node) (decimal.Decimal, error) {
	if value.Kind != yaml.ScalarNode {
		return decimal.Decimal{}, fmt.Errorf("line %d: expected a number", value.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value.Value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("line %d: invalid number %q", value.Line, value.Value)
	}
	return d, nil
}

func amountsToFloats(in map[string]Amount) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = float64(v)
	}
	return out
}

func floatsToAmounts(in map[string]float64) map[string]Amount {
	out := make(map[string]Amount, len(in))
	for k, v := range in {
		out[k] = Amount(v)
	}
	return out
}
