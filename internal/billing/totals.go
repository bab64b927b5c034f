package billing

import (
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Totals is the derived monetary summary of a line-item collection. It is
// never persisted; it is recomputed from the current items on every read.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateTotals computes subtotal, tax, and total for a set of line items.
// Subtotal and tax are each rounded to 2 decimal places (half away from
// zero) independently, then summed; the sum is not re-rounded, so
// Total == Subtotal + Tax holds exactly. An empty item list yields zeros.
// A zero-value tax rate contributes no tax.
func CalculateTotals(items []model.LineItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero

	for _, it := range items {
		line := it.Quantity.Mul(it.UnitPrice)
		subtotal = subtotal.Add(line)
		tax = tax.Add(line.Mul(it.TaxRate).Div(oneHundred))
	}

	roundedSubtotal := subtotal.Round(2)
	roundedTax := tax.Round(2)

	return Totals{
		Subtotal: roundedSubtotal,
		Tax:      roundedTax,
		Total:    roundedSubtotal.Add(roundedTax),
	}
}
