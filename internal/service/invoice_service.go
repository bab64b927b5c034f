package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

// CreateInvoiceRequest seeds an invoice from a quote. Any status value a
// client might send is deliberately absent: a new invoice is always unpaid.
type CreateInvoiceRequest struct {
	QuoteID   string `json:"quote_id" binding:"required"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateInvoiceRequest struct {
	IssueDate *string            `json:"issue_date"`
	DueDate   *string            `json:"due_date"`
	Items     *[]LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Status    *string            `json:"status" binding:"omitempty,oneof=unpaid paid"`
	Notes     *string            `json:"notes"`
}

type InvoiceFilter struct {
	CustomerID string
	QuoteID    string
	Status     string
	Page       int
	Limit      int
}

// InvoiceResponse always carries the effective status, the derived totals,
// and the payment ledger summary.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	QuoteID       string             `json:"quote_id"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Items         []LineItemResponse `json:"items"`
	Status        string             `json:"status"`
	Totals        TotalsResponse     `json:"totals"`
	AmountPaid    string             `json:"amount_paid"`
	BalanceDue    string             `json:"balance_due"`
	Notes         string             `json:"notes"`
	CreatedAt     string             `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, ownerID uuid.UUID, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, ownerID uuid.UUID, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, ownerID uuid.UUID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, ownerID uuid.UUID, id string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	quoteRepo   repository.QuoteRepository
	paymentRepo repository.PaymentRepository
	txManager   repository.TransactionManager
	events      EventPublisher
	now         func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		events:      events,
		now:         time.Now,
	}
}

// --- Implementation ---

// CreateInvoice converts an accepted quote into an invoice. The conversion
// policy runs before any write; an ineligible quote fails fast. The quote's
// converted state needs no write of its own: it is inferred from the new
// invoice's existence on subsequent reads.
func (s *invoiceService) CreateInvoice(ctx context.Context, ownerID uuid.UUID, req CreateInvoiceRequest) (InvoiceResponse, error) {
	quoteID, err := uuid.Parse(req.QuoteID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("%w: invalid quote_id", billing.ErrValidation)
	}

	quote, err := s.quoteRepo.FindByID(ctx, ownerID, quoteID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	converted, err := s.invoiceRepo.ExistsByQuoteID(ctx, ownerID, quote.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to check conversion state: %w", err)
	}

	dueDate, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	now := s.now()
	issueDate := now.UTC().Truncate(24 * time.Hour)
	if req.IssueDate != "" {
		issueDate, err = parseDate("issue_date", req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, err
		}
	}

	invoice, err := billing.BuildInvoiceDraft(quote, converted, now, issueDate, dueDate, req.Notes)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoiceNumber, err := s.generateInvoiceNumber(ctx)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to generate invoice number: %w", err)
	}
	invoice.InvoiceNumber = invoiceNumber

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Create(txCtx, invoice)
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.events.Publish(ownerID, "invoice.created", map[string]string{
		"invoice_id":     invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
		"quote_id":       quote.ID.String(),
	})
	s.events.Publish(ownerID, "quote.converted", map[string]string{
		"quote_id":     quote.ID.String(),
		"quote_number": quote.QuoteNumber,
	})

	invoice.Customer = quote.Customer
	return s.decorate(invoice, nil), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, ownerID uuid.UUID, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, billing.ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, ownerID, invoiceID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	payments, err := s.paymentRepo.ListByInvoice(ctx, ownerID, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return s.decorate(invoice, payments), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, ownerID uuid.UUID, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid customer_id filter", billing.ErrValidation)
		}
		repoFilter.CustomerID = &customerID
	}
	if filter.QuoteID != "" {
		quoteID, err := uuid.Parse(filter.QuoteID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid quote_id filter", billing.ErrValidation)
		}
		repoFilter.QuoteID = &quoteID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, ownerID, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	invoiceIDs := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		invoiceIDs = append(invoiceIDs, inv.ID)
	}
	payments, err := s.paymentRepo.ListByInvoiceIDs(ctx, ownerID, invoiceIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]model.Payment, len(invoices))
	for _, p := range payments {
		byInvoice[p.InvoiceID] = append(byInvoice[p.InvoiceID], p)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		result = append(result, s.decorate(&invoices[i], byInvoice[invoices[i].ID]))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, ownerID uuid.UUID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, billing.ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, ownerID, invoiceID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	// The items of a paid invoice are frozen; the status may still be
	// toggled back to unpaid, and dates or notes corrected.
	if req.Items != nil && invoice.Status == model.InvoiceStatusPaid {
		return InvoiceResponse{}, billing.NewPolicyError("invoice is paid; its items can no longer be changed")
	}

	if req.IssueDate != nil {
		issueDate, err := parseDate("issue_date", *req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, err
		}
		invoice.IssueDate = issueDate
	}
	if req.DueDate != nil {
		dueDate, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			return InvoiceResponse{}, err
		}
		invoice.DueDate = dueDate
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	var newItems []model.InvoiceItem
	if req.Items != nil {
		lines, err := parseLineItems(*req.Items)
		if err != nil {
			return InvoiceResponse{}, err
		}
		newItems = make([]model.InvoiceItem, 0, len(lines))
		for _, l := range lines {
			newItems = append(newItems, model.InvoiceItem{LineItem: l})
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return err
		}
		if newItems != nil {
			return s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, newItems)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update invoice: %w", err)
	}

	if newItems != nil {
		invoice.Items = newItems
	}

	payments, err := s.paymentRepo.ListByInvoice(ctx, ownerID, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch payments: %w", err)
	}
	return s.decorate(invoice, payments), nil
}

// DeleteInvoice removes the invoice. Its payments are kept: they are
// immutable financial records and are never cascaded away.
func (s *invoiceService) DeleteInvoice(ctx context.Context, ownerID uuid.UUID, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return billing.ErrNotFound
	}
	return s.invoiceRepo.Delete(ctx, ownerID, invoiceID)
}

func (s *invoiceService) generateInvoiceNumber(ctx context.Context) (string, error) {
	today := s.now().UTC().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func (s *invoiceService) decorate(inv *model.Invoice, payments []model.Payment) InvoiceResponse {
	totals := billing.CalculateTotals(inv.Lines())
	ledger := billing.Aggregate(totals.Total, payments)

	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		QuoteID:       inv.QuoteID.String(),
		CustomerID:    inv.CustomerID.String(),
		IssueDate:     formatDate(inv.IssueDate),
		DueDate:       formatDate(inv.DueDate),
		Items:         toLineItemResponses(inv.Lines()),
		Status:        billing.InvoiceStatus(inv, s.now()),
		Totals:        toTotalsResponse(totals),
		AmountPaid:    ledger.TotalPaid.StringFixed(2),
		BalanceDue:    ledger.RemainingBalance.StringFixed(2),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.Name
	}
	return resp
}
