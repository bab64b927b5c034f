package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryResponse is the dashboard headline view. Every figure is derived
// at request time from current rows via the billing core; none of it is
// stored.
type SummaryResponse struct {
	QuoteCounts   map[string]int `json:"quote_counts"`   // by effective status
	InvoiceCounts map[string]int `json:"invoice_counts"` // by effective status
	Outstanding   string         `json:"outstanding"`    // unpaid+overdue balances
	Overdue       string         `json:"overdue"`        // overdue balances only
	Collected     string         `json:"collected"`      // completed payments, all time
}

type StatisticsService interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (SummaryResponse, error)
}

type statisticsService struct {
	quoteRepo   repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

func NewStatisticsService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) StatisticsService {
	return &statisticsService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

func (s *statisticsService) Summary(ctx context.Context, ownerID uuid.UUID) (SummaryResponse, error) {
	now := s.now()

	quotes, err := s.quoteRepo.ListAll(ctx, ownerID)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	invoices, err := s.invoiceRepo.ListAll(ctx, ownerID)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	quoteIDs := make([]uuid.UUID, 0, len(quotes))
	for _, q := range quotes {
		quoteIDs = append(quoteIDs, q.ID)
	}
	converted, err := s.invoiceRepo.ConvertedQuoteIDs(ctx, ownerID, quoteIDs)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to check conversion state: %w", err)
	}

	invoiceIDs := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		invoiceIDs = append(invoiceIDs, inv.ID)
	}
	payments, err := s.paymentRepo.ListByInvoiceIDs(ctx, ownerID, invoiceIDs)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch payments: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]model.Payment)
	for _, p := range payments {
		byInvoice[p.InvoiceID] = append(byInvoice[p.InvoiceID], p)
	}

	quoteCounts := make(map[string]int)
	for i := range quotes {
		quoteCounts[billing.QuoteStatus(&quotes[i], converted[quotes[i].ID], now)]++
	}

	invoiceCounts := make(map[string]int)
	outstanding := decimal.Zero
	overdue := decimal.Zero
	collected := decimal.Zero
	for i := range invoices {
		inv := &invoices[i]
		status := billing.InvoiceStatus(inv, now)
		invoiceCounts[status]++

		totals := billing.CalculateTotals(inv.Lines())
		ledger := billing.Aggregate(totals.Total, byInvoice[inv.ID])
		collected = collected.Add(ledger.TotalPaid)

		if status != model.InvoiceStatusPaid {
			outstanding = outstanding.Add(ledger.RemainingBalance)
			if status == model.InvoiceStatusOverdue {
				overdue = overdue.Add(ledger.RemainingBalance)
			}
		}
	}

	return SummaryResponse{
		QuoteCounts:   quoteCounts,
		InvoiceCounts: invoiceCounts,
		Outstanding:   outstanding.StringFixed(2),
		Overdue:       overdue.StringFixed(2),
		Collected:     collected.StringFixed(2),
	}, nil
}
