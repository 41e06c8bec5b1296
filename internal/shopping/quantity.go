package shopping

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Measure is one (amount, unit) contribution to a shopping item. A zero
// amount stands in for a missing one.
type Measure struct {
	Amount float64
	Unit   string
}

// Total is the summed amount for one normalized unit.
type Total struct {
	Unit   string
	Amount decimal.Decimal
}

// String renders the total rounded to two decimals, followed by the unit when
// there is one.
func (t Total) String() string {
	amount := t.Amount.Round(2).String()
	if t.Unit == "" {
		return amount
	}
	return amount + " " + t.Unit
}

// Totals groups measures by lowercased, trimmed unit and sums each group.
// Groups appear in first-encountered order; groups that do not sum to a
// positive amount are dropped. No unit conversion is attempted.
func Totals(measures []Measure) []Total {
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, m := range measures {
		unit := strings.ToLower(strings.TrimSpace(m.Unit))
		sum, seen := sums[unit]
		if !seen {
			order = append(order, unit)
		}
		sums[unit] = sum.Add(amountOf(m.Amount))
	}

	totals := make([]Total, 0, len(order))
	for _, unit := range order {
		if sums[unit].Sign() <= 0 {
			continue
		}
		totals = append(totals, Total{Unit: unit, Amount: sums[unit]})
	}
	return totals
}

// Combine renders the per-unit totals of measures joined with " + ", for
// example "3 cup + 3 tbsp".
func Combine(measures []Measure) string {
	totals := Totals(measures)
	parts := make([]string, len(totals))
	for i, t := range totals {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func amountOf(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
