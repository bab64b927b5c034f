package billing

import (
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Ledger is the computed payment summary for one invoice.
type Ledger struct {
	TotalPaid        decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"balance_due"`
}

// Aggregate sums the completed payments against an invoice total. Pending
// and failed payments do not count. The remaining balance is not clamped at
// zero: a negative balance means the invoice was overpaid.
//
// A fully funded invoice does NOT change status here; marking an invoice
// paid is an explicit user action, never an automatic side effect of the
// ledger reaching zero.
func Aggregate(invoiceTotal decimal.Decimal, payments []model.Payment) Ledger {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == model.PaymentStatusCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return Ledger{
		TotalPaid:        paid,
		RemainingBalance: invoiceTotal.Sub(paid),
	}
}
