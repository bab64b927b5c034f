package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/repository"

	"github.com/google/uuid"
)

// In-memory fakes for the repository interfaces. They honor the same
// owner-scoping contract as the real implementations: a row under another
// owner is indistinguishable from an absent row.

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// --- tx manager ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- events ---

type recordedEvent struct {
	OwnerID uuid.UUID
	Event   string
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Publish(ownerID uuid.UUID, event string, payload interface{}) {
	f.events = append(f.events, recordedEvent{OwnerID: ownerID, Event: event})
}

func (f *fakeEvents) has(event string) bool {
	for _, e := range f.events {
		if e.Event == event {
			return true
		}
	}
	return false
}

// --- customers ---

type fakeCustomerRepo struct {
	customers map[uuid.UUID]model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]model.Customer)}
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = testNow
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, billing.ErrNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeCustomerRepo) List(_ context.Context, ownerID uuid.UUID, page, limit int) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range f.customers {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	c, ok := f.customers[id]
	if !ok || c.OwnerID != ownerID {
		return billing.ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

// --- quotes ---

type fakeQuoteRepo struct {
	quotes map[uuid.UUID]model.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[uuid.UUID]model.Quote)}
}

func (f *fakeQuoteRepo) Create(_ context.Context, q *model.Quote) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.CreatedAt = testNow
	f.quotes[q.ID] = *q
	return nil
}

func (f *fakeQuoteRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Quote, error) {
	q, ok := f.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return nil, billing.ErrNotFound
	}
	out := q
	return &out, nil
}

func (f *fakeQuoteRepo) List(_ context.Context, ownerID uuid.UUID, filter repository.QuoteListFilter) ([]model.Quote, int64, error) {
	var out []model.Quote
	for _, q := range f.quotes {
		if q.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.CustomerID != nil && q.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeQuoteRepo) ListAll(_ context.Context, ownerID uuid.UUID) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range f.quotes {
		if q.OwnerID == ownerID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuoteRepo) Update(_ context.Context, q *model.Quote) error {
	stored, ok := f.quotes[q.ID]
	if !ok {
		return billing.ErrNotFound
	}
	updated := *q
	updated.Items = stored.Items
	f.quotes[q.ID] = updated
	return nil
}

func (f *fakeQuoteRepo) ReplaceItems(_ context.Context, quoteID uuid.UUID, items []model.QuoteItem) error {
	q, ok := f.quotes[quoteID]
	if !ok {
		return billing.ErrNotFound
	}
	q.Items = items
	f.quotes[quoteID] = q
	return nil
}

func (f *fakeQuoteRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	q, ok := f.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return billing.ErrNotFound
	}
	delete(f.quotes, id)
	return nil
}

func (f *fakeQuoteRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var count int64
	for _, q := range f.quotes {
		if strings.HasPrefix(q.QuoteNumber, prefix) {
			count++
		}
	}
	return count, nil
}

// --- invoices ---

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]model.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]model.Invoice)}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = testNow
	f.invoices[inv.ID] = *inv
	return nil
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, billing.ErrNotFound
	}
	out := inv
	return &out, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, ownerID uuid.UUID, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.CustomerID != nil && inv.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.QuoteID != nil && inv.QuoteID != *filter.QuoteID {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) ListAll(_ context.Context, ownerID uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID == ownerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	stored, ok := f.invoices[inv.ID]
	if !ok {
		return billing.ErrNotFound
	}
	updated := *inv
	updated.Items = stored.Items
	f.invoices[inv.ID] = updated
	return nil
}

func (f *fakeInvoiceRepo) ReplaceItems(_ context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return billing.ErrNotFound
	}
	inv.Items = items
	f.invoices[invoiceID] = inv
	return nil
}

func (f *fakeInvoiceRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return billing.ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceRepo) ExistsByQuoteID(_ context.Context, ownerID, quoteID uuid.UUID) (bool, error) {
	for _, inv := range f.invoices {
		if inv.OwnerID == ownerID && inv.QuoteID == quoteID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvoiceRepo) ConvertedQuoteIDs(_ context.Context, ownerID uuid.UUID, quoteIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	converted := make(map[uuid.UUID]bool)
	for _, id := range quoteIDs {
		for _, inv := range f.invoices {
			if inv.OwnerID == ownerID && inv.QuoteID == id {
				converted[id] = true
				break
			}
		}
	}
	return converted, nil
}

func (f *fakeInvoiceRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var count int64
	for _, inv := range f.invoices {
		if strings.HasPrefix(inv.InvoiceNumber, prefix) {
			count++
		}
	}
	return count, nil
}

// --- payments ---

type fakePaymentRepo struct {
	payments map[uuid.UUID]model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]model.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = testNow
	f.payments[p.ID] = *p
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Payment, error) {
	p, ok := f.payments[id]
	if !ok || p.OwnerID != ownerID {
		return nil, billing.ErrNotFound
	}
	out := p
	return &out, nil
}

func (f *fakePaymentRepo) List(_ context.Context, ownerID uuid.UUID, invoiceID *uuid.UUID, page, limit int) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.OwnerID != ownerID {
			continue
		}
		if invoiceID != nil && p.InvoiceID != *invoiceID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) ListByInvoice(_ context.Context, ownerID, invoiceID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.OwnerID == ownerID && p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByInvoiceIDs(_ context.Context, ownerID uuid.UUID, invoiceIDs []uuid.UUID) ([]model.Payment, error) {
	wanted := make(map[uuid.UUID]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		wanted[id] = true
	}
	var out []model.Payment
	for _, p := range f.payments {
		if p.OwnerID == ownerID && wanted[p.InvoiceID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	p, ok := f.payments[id]
	if !ok || p.OwnerID != ownerID {
		return billing.ErrNotFound
	}
	delete(f.payments, id)
	return nil
}
