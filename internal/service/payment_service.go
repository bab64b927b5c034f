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

// --- DTOs ---

type CreatePaymentRequest struct {
	InvoiceID     string `json:"invoice_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card bank_transfer paypal"`
	Status        string `json:"status" binding:"omitempty,oneof=pending completed failed"`
	PaymentDate   string `json:"payment_date" binding:"required"`
	Notes         string `json:"notes"`
}

type PaymentResponse struct {
	ID            string `json:"id"`
	InvoiceID     string `json:"invoice_id"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	PaymentDate   string `json:"payment_date"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type PaymentService interface {
	CreatePayment(ctx context.Context, ownerID uuid.UUID, req CreatePaymentRequest) (PaymentResponse, error)
	GetPayment(ctx context.Context, ownerID uuid.UUID, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context, ownerID uuid.UUID, invoiceID string, page, limit int) ([]PaymentResponse, int64, error)
	DeletePayment(ctx context.Context, ownerID uuid.UUID, id string) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	events      EventPublisher
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	events EventPublisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		events:      events,
	}
}

// --- Implementation ---

// CreatePayment records money received against an invoice. The amount is
// not capped at the remaining balance: overpayment is permitted and shows
// up as a negative balance on the invoice. Recording a payment never
// changes the invoice's stored status; marking it paid is a separate,
// explicit update.
func (s *paymentService) CreatePayment(ctx context.Context, ownerID uuid.UUID, req CreatePaymentRequest) (PaymentResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid invoice_id", billing.ErrValidation)
	}

	// The invoice must exist under the same owner.
	if _, err := s.invoiceRepo.FindByID(ctx, ownerID, invoiceID); err != nil {
		return PaymentResponse{}, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid amount %q", billing.ErrValidation, req.Amount)
	}
	if !amount.IsPositive() {
		return PaymentResponse{}, fmt.Errorf("%w: amount must be greater than zero", billing.ErrValidation)
	}

	paymentDate, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return PaymentResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = model.PaymentStatusCompleted
	}

	payment := model.Payment{
		OwnerID:       ownerID,
		InvoiceID:     invoiceID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
	}

	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		return PaymentResponse{}, fmt.Errorf("failed to record payment: %w", err)
	}

	s.events.Publish(ownerID, "payment.recorded", map[string]string{
		"payment_id": payment.ID.String(),
		"invoice_id": invoiceID.String(),
		"amount":     amount.StringFixed(2),
		"status":     status,
	})

	return toPaymentResponse(payment), nil
}

func (s *paymentService) GetPayment(ctx context.Context, ownerID uuid.UUID, id string) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, billing.ErrNotFound
	}

	payment, err := s.paymentRepo.FindByID(ctx, ownerID, paymentID)
	if err != nil {
		return PaymentResponse{}, err
	}
	return toPaymentResponse(*payment), nil
}

func (s *paymentService) ListPayments(ctx context.Context, ownerID uuid.UUID, invoiceID string, page, limit int) ([]PaymentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var invoiceFilter *uuid.UUID
	if invoiceID != "" {
		parsed, err := uuid.Parse(invoiceID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid invoice_id filter", billing.ErrValidation)
		}
		invoiceFilter = &parsed
	}

	payments, total, err := s.paymentRepo.List(ctx, ownerID, invoiceFilter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, ownerID uuid.UUID, id string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return billing.ErrNotFound
	}
	return s.paymentRepo.Delete(ctx, ownerID, paymentID)
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		InvoiceID:     p.InvoiceID.String(),
		Amount:        p.Amount.StringFixed(2),
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		PaymentDate:   formatDate(p.PaymentDate),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
