package billing

import (
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
)

// Quote→invoice conversion policy. Only a quote whose effective status is
// "accepted" may seed an invoice: drafts and sent quotes have not been
// agreed to, declined and expired quotes never will be, and a converted
// quote already has its invoice.

// CanConvert reports whether the quote is eligible to back a new invoice.
// converted and now feed the same effective-status derivation used on reads.
func CanConvert(q *model.Quote, converted bool, now time.Time) bool {
	return QuoteStatus(q, converted, now) == model.QuoteStatusAccepted
}

// BuildInvoiceDraft assembles the invoice to create from an eligible quote.
// It returns ErrPolicyViolation when the quote is not convertible. Items are
// copied by value so later edits to the quote can never alter the invoice,
// and the stored status is unconditionally "unpaid" regardless of anything
// the caller supplied.
func BuildInvoiceDraft(q *model.Quote, converted bool, now, issueDate, dueDate time.Time, notes string) (*model.Invoice, error) {
	if !CanConvert(q, converted, now) {
		return nil, NewPolicyError("only an accepted quote can be converted to an invoice (current status: " + QuoteStatus(q, converted, now) + ")")
	}

	items := make([]model.InvoiceItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, model.InvoiceItem{LineItem: it.LineItem})
	}

	return &model.Invoice{
		OwnerID:    q.OwnerID,
		CustomerID: q.CustomerID,
		QuoteID:    q.ID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Items:      items,
		Status:     model.InvoiceStatusUnpaid,
		Notes:      notes,
	}, nil
}
