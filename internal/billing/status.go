package billing

import (
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
)

// Effective status derivation. The stored status is what the user last set;
// the effective status additionally accounts for the calendar ("expired",
// "overdue") and for conversion ("converted", inferred from invoice
// existence rather than stored on the quote). Derivation is a pure
// projection: it is recomputed on every read and never written back.
//
// Date comparisons are day-granular in UTC so results do not depend on
// where the process runs.

// beforeToday reports whether t's calendar day is strictly earlier than
// now's calendar day, both taken in UTC.
func beforeToday(t, now time.Time) bool {
	ty, tm, td := t.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}

// QuoteStatus derives a quote's effective status at the given time.
// converted is supplied by the caller and is true when any invoice
// references the quote. Precedence: converted > declined > expired >
// stored status.
func QuoteStatus(q *model.Quote, converted bool, now time.Time) string {
	if converted {
		return model.QuoteStatusConverted
	}
	if q.Status == model.QuoteStatusDeclined {
		return model.QuoteStatusDeclined
	}
	if q.ExpiryDate != nil && beforeToday(*q.ExpiryDate, now) {
		return model.QuoteStatusExpired
	}
	return q.Status
}

// InvoiceStatus derives an invoice's effective status at the given time.
// Precedence: paid > overdue > unpaid. A stored "paid" wins regardless of
// the due date.
func InvoiceStatus(inv *model.Invoice, now time.Time) string {
	if inv.Status == model.InvoiceStatusPaid {
		return model.InvoiceStatusPaid
	}
	if beforeToday(inv.DueDate, now) {
		return model.InvoiceStatusOverdue
	}
	return model.InvoiceStatusUnpaid
}
