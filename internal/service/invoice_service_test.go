package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
)

type billingFixture struct {
	quoteSvc   *quoteService
	invoiceSvc *invoiceService
	paymentSvc *paymentService
	quotes     *fakeQuoteRepo
	invoices   *fakeInvoiceRepo
	payments   *fakePaymentRepo
	customers  *fakeCustomerRepo
	events     *fakeEvents
	ownerID    uuid.UUID
	customer   model.Customer
}

// newBillingFixture wires the quote, invoice and payment services over shared
// in-memory repositories, so conversion and payment flows run end to end.
func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	f := &billingFixture{
		quotes:    newFakeQuoteRepo(),
		invoices:  newFakeInvoiceRepo(),
		payments:  newFakePaymentRepo(),
		customers: newFakeCustomerRepo(),
		events:    &fakeEvents{},
		ownerID:   uuid.New(),
	}
	f.quoteSvc = &quoteService{
		quoteRepo:    f.quotes,
		invoiceRepo:  f.invoices,
		customerRepo: f.customers,
		txManager:    fakeTxManager{},
		now:          fixedNow,
	}
	f.invoiceSvc = &invoiceService{
		invoiceRepo: f.invoices,
		quoteRepo:   f.quotes,
		paymentRepo: f.payments,
		txManager:   fakeTxManager{},
		events:      f.events,
		now:         fixedNow,
	}
	f.paymentSvc = &paymentService{
		paymentRepo: f.payments,
		invoiceRepo: f.invoices,
		events:      f.events,
	}

	f.customer = model.Customer{OwnerID: f.ownerID, Name: "Acme Ltd"}
	if err := f.customers.Create(context.Background(), &f.customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return f
}

func (f *billingFixture) seedQuote(t *testing.T, status string, expiry *time.Time) model.Quote {
	t.Helper()

	quote := model.Quote{
		OwnerID:     f.ownerID,
		CustomerID:  f.customer.ID,
		QuoteNumber: "QUO-20260301-00001",
		IssueDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:  expiry,
		Items: []model.QuoteItem{
			quoteLine("Consulting", "5", "100", "20"),
		},
		Status: status,
	}
	if err := f.quotes.Create(context.Background(), &quote); err != nil {
		t.Fatalf("seed quote: %v", err)
	}
	return quote
}

func (f *billingFixture) convert(t *testing.T, quoteID uuid.UUID) InvoiceResponse {
	t.Helper()

	resp, err := f.invoiceSvc.CreateInvoice(context.Background(), f.ownerID, CreateInvoiceRequest{
		QuoteID: quoteID.String(),
		DueDate: "2026-04-15",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return resp
}

func TestCreateInvoiceFromAcceptedQuote(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)

	resp := f.convert(t, quote.ID)

	if resp.InvoiceNumber != "INV-20260315-00001" {
		t.Errorf("invoice number = %q, want INV-20260315-00001", resp.InvoiceNumber)
	}
	if resp.Status != model.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want unpaid", resp.Status)
	}
	if resp.QuoteID != quote.ID.String() {
		t.Errorf("quote_id = %q, want %q", resp.QuoteID, quote.ID)
	}
	if len(resp.Items) != 1 || resp.Items[0].Description != "Consulting" {
		t.Fatalf("items = %+v, want the quote's line carried over", resp.Items)
	}
	if resp.Totals.Total != "600.00" {
		t.Errorf("total = %q, want 600.00", resp.Totals.Total)
	}
	if resp.BalanceDue != "600.00" {
		t.Errorf("balance_due = %q, want 600.00", resp.BalanceDue)
	}
	if !f.events.has("invoice.created") || !f.events.has("quote.converted") {
		t.Errorf("events = %+v, want invoice.created and quote.converted", f.events.events)
	}
}

func TestCreateInvoiceFailsFastOnIneligibleQuote(t *testing.T) {
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		expiry *time.Time
	}{
		{"draft quote", model.QuoteStatusDraft, nil},
		{"sent quote", model.QuoteStatusSent, nil},
		{"declined quote", model.QuoteStatusDeclined, nil},
		{"accepted but expired", model.QuoteStatusAccepted, &past},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t)
			quote := f.seedQuote(t, tt.status, tt.expiry)

			_, err := f.invoiceSvc.CreateInvoice(context.Background(), f.ownerID, CreateInvoiceRequest{
				QuoteID: quote.ID.String(),
				DueDate: "2026-04-15",
			})
			if !errors.Is(err, billing.ErrPolicyViolation) {
				t.Fatalf("err = %v, want ErrPolicyViolation", err)
			}
			// Nothing was written.
			if len(f.invoices.invoices) != 0 {
				t.Errorf("invoice written despite rejected conversion")
			}
			if len(f.events.events) != 0 {
				t.Errorf("events published despite rejected conversion: %+v", f.events.events)
			}
		})
	}
}

func TestCreateInvoiceTwiceFromSameQuote(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)

	f.convert(t, quote.ID)

	_, err := f.invoiceSvc.CreateInvoice(context.Background(), f.ownerID, CreateInvoiceRequest{
		QuoteID: quote.ID.String(),
		DueDate: "2026-04-15",
	})
	if !errors.Is(err, billing.ErrPolicyViolation) {
		t.Fatalf("err = %v, want ErrPolicyViolation", err)
	}
	if len(f.invoices.invoices) != 1 {
		t.Errorf("invoice count = %d, want 1", len(f.invoices.invoices))
	}
}

func TestCreateInvoiceUnknownQuote(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.invoiceSvc.CreateInvoice(context.Background(), f.ownerID, CreateInvoiceRequest{
		QuoteID: uuid.NewString(),
		DueDate: "2026-04-15",
	})
	if !errors.Is(err, billing.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateInvoicePaidItemsFrozen(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)
	created := f.convert(t, quote.ID)

	if _, err := f.invoiceSvc.UpdateInvoice(context.Background(), f.ownerID, created.ID, UpdateInvoiceRequest{
		Status: strPtr(model.InvoiceStatusPaid),
	}); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	_, err := f.invoiceSvc.UpdateInvoice(context.Background(), f.ownerID, created.ID, UpdateInvoiceRequest{
		Items: &[]LineItemRequest{{Description: "Extra", Quantity: "1", UnitPrice: "50"}},
	})
	if !errors.Is(err, billing.ErrPolicyViolation) {
		t.Fatalf("err = %v, want ErrPolicyViolation", err)
	}

	// Toggling back to unpaid unfreezes the items.
	if _, err := f.invoiceSvc.UpdateInvoice(context.Background(), f.ownerID, created.ID, UpdateInvoiceRequest{
		Status: strPtr(model.InvoiceStatusUnpaid),
	}); err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	resp, err := f.invoiceSvc.UpdateInvoice(context.Background(), f.ownerID, created.ID, UpdateInvoiceRequest{
		Items: &[]LineItemRequest{{Description: "Extra", Quantity: "1", UnitPrice: "50", TaxRate: strPtr("0")}},
	})
	if err != nil {
		t.Fatalf("items change after unfreeze: %v", err)
	}
	if resp.Totals.Total != "50.00" {
		t.Errorf("total = %q, want 50.00", resp.Totals.Total)
	}
}

func TestQuoteToPaidInvoiceFlow(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	quote, err := f.quoteSvc.CreateQuote(ctx, f.ownerID, CreateQuoteRequest{
		CustomerID: f.customer.ID.String(),
		IssueDate:  "2026-03-15",
		Items: []LineItemRequest{
			{Description: "Consulting", Quantity: "5", UnitPrice: "100", TaxRate: strPtr("20")},
		},
		Status: model.QuoteStatusAccepted,
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if quote.Totals.Total != "600.00" {
		t.Fatalf("quote total = %q, want 600.00", quote.Totals.Total)
	}

	invoice, err := f.invoiceSvc.CreateInvoice(ctx, f.ownerID, CreateInvoiceRequest{
		QuoteID: quote.ID,
		DueDate: "2026-04-15",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if invoice.Status != model.InvoiceStatusUnpaid {
		t.Fatalf("invoice status = %q, want unpaid", invoice.Status)
	}

	// The quote now reads as converted.
	converted, err := f.quoteSvc.GetQuote(ctx, f.ownerID, quote.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if converted.Status != model.QuoteStatusConverted {
		t.Fatalf("quote status = %q, want converted", converted.Status)
	}

	if _, err := f.paymentSvc.CreatePayment(ctx, f.ownerID, CreatePaymentRequest{
		InvoiceID:     invoice.ID,
		Amount:        "600.00",
		PaymentMethod: "bank_transfer",
		PaymentDate:   "2026-03-20",
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if !f.events.has("payment.recorded") {
		t.Errorf("payment.recorded event not published")
	}

	// Fully funded, but the status stays unpaid until set explicitly.
	funded, err := f.invoiceSvc.GetInvoice(ctx, f.ownerID, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if funded.AmountPaid != "600.00" {
		t.Errorf("amount_paid = %q, want 600.00", funded.AmountPaid)
	}
	if funded.BalanceDue != "0.00" {
		t.Errorf("balance_due = %q, want 0.00", funded.BalanceDue)
	}
	if funded.Status != model.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want unpaid until explicitly marked paid", funded.Status)
	}

	paid, err := f.invoiceSvc.UpdateInvoice(ctx, f.ownerID, invoice.ID, UpdateInvoiceRequest{
		Status: strPtr(model.InvoiceStatusPaid),
	})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != model.InvoiceStatusPaid {
		t.Errorf("status = %q, want paid", paid.Status)
	}
}

func TestOverpaymentYieldsNegativeBalance(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)
	invoice := f.convert(t, quote.ID)

	if _, err := f.paymentSvc.CreatePayment(context.Background(), f.ownerID, CreatePaymentRequest{
		InvoiceID:     invoice.ID,
		Amount:        "1000",
		PaymentMethod: "card",
		PaymentDate:   "2026-03-20",
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	resp, err := f.invoiceSvc.GetInvoice(context.Background(), f.ownerID, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if resp.AmountPaid != "1000.00" {
		t.Errorf("amount_paid = %q, want 1000.00", resp.AmountPaid)
	}
	if resp.BalanceDue != "-400.00" {
		t.Errorf("balance_due = %q, want -400.00", resp.BalanceDue)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)
	invoice := f.convert(t, quote.ID)

	tests := []struct {
		name string
		req  CreatePaymentRequest
		want error
	}{
		{
			"zero amount",
			CreatePaymentRequest{InvoiceID: invoice.ID, Amount: "0", PaymentMethod: "cash", PaymentDate: "2026-03-20"},
			billing.ErrValidation,
		},
		{
			"negative amount",
			CreatePaymentRequest{InvoiceID: invoice.ID, Amount: "-10", PaymentMethod: "cash", PaymentDate: "2026-03-20"},
			billing.ErrValidation,
		},
		{
			"unknown invoice",
			CreatePaymentRequest{InvoiceID: uuid.NewString(), Amount: "10", PaymentMethod: "cash", PaymentDate: "2026-03-20"},
			billing.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.paymentSvc.CreatePayment(context.Background(), f.ownerID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPendingPaymentsDoNotFund(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)
	invoice := f.convert(t, quote.ID)

	if _, err := f.paymentSvc.CreatePayment(context.Background(), f.ownerID, CreatePaymentRequest{
		InvoiceID:     invoice.ID,
		Amount:        "600",
		PaymentMethod: "bank_transfer",
		Status:        model.PaymentStatusPending,
		PaymentDate:   "2026-03-20",
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	resp, err := f.invoiceSvc.GetInvoice(context.Background(), f.ownerID, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if resp.AmountPaid != "0.00" {
		t.Errorf("amount_paid = %q, want 0.00 while payment is pending", resp.AmountPaid)
	}
	if resp.BalanceDue != "600.00" {
		t.Errorf("balance_due = %q, want 600.00", resp.BalanceDue)
	}
}

func TestDeleteInvoiceKeepsPayments(t *testing.T) {
	f := newBillingFixture(t)
	quote := f.seedQuote(t, model.QuoteStatusAccepted, nil)
	invoice := f.convert(t, quote.ID)

	payment, err := f.paymentSvc.CreatePayment(context.Background(), f.ownerID, CreatePaymentRequest{
		InvoiceID:     invoice.ID,
		Amount:        "100",
		PaymentMethod: "cash",
		PaymentDate:   "2026-03-20",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if err := f.invoiceSvc.DeleteInvoice(context.Background(), f.ownerID, invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}

	if _, err := f.paymentSvc.GetPayment(context.Background(), f.ownerID, payment.ID); err != nil {
		t.Errorf("payment gone after invoice delete: %v", err)
	}
}
