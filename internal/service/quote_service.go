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

type CreateQuoteRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	IssueDate  string            `json:"issue_date" binding:"required"`
	ExpiryDate string            `json:"expiry_date"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Status     string            `json:"status"`
	Notes      string            `json:"notes"`
}

type UpdateQuoteRequest struct {
	IssueDate  *string            `json:"issue_date"`
	ExpiryDate *string            `json:"expiry_date"`
	Items      *[]LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Status     *string            `json:"status" binding:"omitempty,oneof=draft sent accepted declined"`
	Notes      *string            `json:"notes"`
}

type QuoteFilter struct {
	CustomerID string
	Status     string
	Page       int
	Limit      int
}

// QuoteResponse always carries the effective status and the derived totals,
// never the raw stored status or bare item math.
type QuoteResponse struct {
	ID           string             `json:"id"`
	QuoteNumber  string             `json:"quote_number"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	IssueDate    string             `json:"issue_date"`
	ExpiryDate   *string            `json:"expiry_date"`
	Items        []LineItemResponse `json:"items"`
	Status       string             `json:"status"`
	Totals       TotalsResponse     `json:"totals"`
	Notes        string             `json:"notes"`
	CreatedAt    string             `json:"created_at"`
}

// --- Interface ---

type QuoteService interface {
	CreateQuote(ctx context.Context, ownerID uuid.UUID, req CreateQuoteRequest) (QuoteResponse, error)
	GetQuote(ctx context.Context, ownerID uuid.UUID, id string) (QuoteResponse, error)
	ListQuotes(ctx context.Context, ownerID uuid.UUID, filter QuoteFilter) ([]QuoteResponse, int64, error)
	UpdateQuote(ctx context.Context, ownerID uuid.UUID, id string, req UpdateQuoteRequest) (QuoteResponse, error)
	DeleteQuote(ctx context.Context, ownerID uuid.UUID, id string) error
}

type quoteService struct {
	quoteRepo    repository.QuoteRepository
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TransactionManager
	now          func() time.Time
}

func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	txManager repository.TransactionManager,
) QuoteService {
	return &quoteService{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *quoteService) CreateQuote(ctx context.Context, ownerID uuid.UUID, req CreateQuoteRequest) (QuoteResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("%w: invalid customer_id", billing.ErrValidation)
	}

	// The customer must exist under the same owner.
	if _, err := s.customerRepo.FindByID(ctx, ownerID, customerID); err != nil {
		return QuoteResponse{}, err
	}

	issueDate, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return QuoteResponse{}, err
	}

	var expiryDate *time.Time
	if req.ExpiryDate != "" {
		parsed, err := parseDate("expiry_date", req.ExpiryDate)
		if err != nil {
			return QuoteResponse{}, err
		}
		expiryDate = &parsed
	}

	lines, err := parseLineItems(req.Items)
	if err != nil {
		return QuoteResponse{}, err
	}

	// Unrecognized or absent statuses default to draft.
	status := req.Status
	switch status {
	case model.QuoteStatusDraft, model.QuoteStatusSent, model.QuoteStatusAccepted, model.QuoteStatusDeclined:
	default:
		status = model.QuoteStatusDraft
	}

	quoteNumber, err := s.generateQuoteNumber(ctx)
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to generate quote number: %w", err)
	}

	items := make([]model.QuoteItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.QuoteItem{LineItem: l})
	}

	quote := model.Quote{
		OwnerID:     ownerID,
		CustomerID:  customerID,
		QuoteNumber: quoteNumber,
		IssueDate:   issueDate,
		ExpiryDate:  expiryDate,
		Items:       items,
		Status:      status,
		Notes:       req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.quoteRepo.Create(txCtx, &quote)
	})
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to create quote: %w", err)
	}

	// A quote that was just created cannot have an invoice yet.
	return s.decorate(&quote, false), nil
}

func (s *quoteService) GetQuote(ctx context.Context, ownerID uuid.UUID, id string) (QuoteResponse, error) {
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return QuoteResponse{}, billing.ErrNotFound
	}

	quote, err := s.quoteRepo.FindByID(ctx, ownerID, quoteID)
	if err != nil {
		return QuoteResponse{}, err
	}

	converted, err := s.invoiceRepo.ExistsByQuoteID(ctx, ownerID, quote.ID)
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to check conversion state: %w", err)
	}

	return s.decorate(quote, converted), nil
}

func (s *quoteService) ListQuotes(ctx context.Context, ownerID uuid.UUID, filter QuoteFilter) ([]QuoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.QuoteListFilter{
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

	quotes, total, err := s.quoteRepo.List(ctx, ownerID, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	quoteIDs := make([]uuid.UUID, 0, len(quotes))
	for _, q := range quotes {
		quoteIDs = append(quoteIDs, q.ID)
	}
	converted, err := s.invoiceRepo.ConvertedQuoteIDs(ctx, ownerID, quoteIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check conversion state: %w", err)
	}

	result := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		result = append(result, s.decorate(&quotes[i], converted[quotes[i].ID]))
	}
	return result, total, nil
}

func (s *quoteService) UpdateQuote(ctx context.Context, ownerID uuid.UUID, id string, req UpdateQuoteRequest) (QuoteResponse, error) {
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return QuoteResponse{}, billing.ErrNotFound
	}

	quote, err := s.quoteRepo.FindByID(ctx, ownerID, quoteID)
	if err != nil {
		return QuoteResponse{}, err
	}

	converted, err := s.invoiceRepo.ExistsByQuoteID(ctx, ownerID, quote.ID)
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to check conversion state: %w", err)
	}

	// A converted quote backs an issued invoice; its status and items are
	// frozen. Notes and dates may still be corrected.
	if converted && (req.Status != nil || req.Items != nil) {
		return QuoteResponse{}, billing.NewPolicyError("quote has been converted to an invoice; its status and items can no longer be changed")
	}

	if req.IssueDate != nil {
		issueDate, err := parseDate("issue_date", *req.IssueDate)
		if err != nil {
			return QuoteResponse{}, err
		}
		quote.IssueDate = issueDate
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			quote.ExpiryDate = nil
		} else {
			expiryDate, err := parseDate("expiry_date", *req.ExpiryDate)
			if err != nil {
				return QuoteResponse{}, err
			}
			quote.ExpiryDate = &expiryDate
		}
	}
	if req.Status != nil {
		quote.Status = *req.Status
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	var newItems []model.QuoteItem
	if req.Items != nil {
		lines, err := parseLineItems(*req.Items)
		if err != nil {
			return QuoteResponse{}, err
		}
		newItems = make([]model.QuoteItem, 0, len(lines))
		for _, l := range lines {
			newItems = append(newItems, model.QuoteItem{LineItem: l})
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return err
		}
		if newItems != nil {
			return s.quoteRepo.ReplaceItems(txCtx, quote.ID, newItems)
		}
		return nil
	})
	if err != nil {
		return QuoteResponse{}, fmt.Errorf("failed to update quote: %w", err)
	}

	if newItems != nil {
		quote.Items = newItems
	}
	return s.decorate(quote, converted), nil
}

func (s *quoteService) DeleteQuote(ctx context.Context, ownerID uuid.UUID, id string) error {
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return billing.ErrNotFound
	}

	converted, err := s.invoiceRepo.ExistsByQuoteID(ctx, ownerID, quoteID)
	if err != nil {
		return fmt.Errorf("failed to check conversion state: %w", err)
	}
	// Every invoice must keep its originating quote.
	if converted {
		return billing.NewPolicyError("quote has been converted to an invoice and cannot be deleted")
	}

	return s.quoteRepo.Delete(ctx, ownerID, quoteID)
}

func (s *quoteService) generateQuoteNumber(ctx context.Context) (string, error) {
	today := s.now().UTC().Format("20060102")
	prefix := "QUO-" + today + "-"

	count, err := s.quoteRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func (s *quoteService) decorate(q *model.Quote, converted bool) QuoteResponse {
	resp := QuoteResponse{
		ID:          q.ID.String(),
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID.String(),
		IssueDate:   formatDate(q.IssueDate),
		Items:       toLineItemResponses(q.Lines()),
		Status:      billing.QuoteStatus(q, converted, s.now()),
		Totals:      toTotalsResponse(billing.CalculateTotals(q.Lines())),
		Notes:       q.Notes,
		CreatedAt:   q.CreatedAt.Format(time.RFC3339),
	}
	if q.ExpiryDate != nil {
		d := formatDate(*q.ExpiryDate)
		resp.ExpiryDate = &d
	}
	if q.Customer != nil {
		resp.CustomerName = q.Customer.Name
	}
	return resp
}
