package repository

import (
	"context"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository defines owner-scoped data access for Payment entities.
// Payments are immutable financial records: there is no update method, and
// invoice deletion does not cascade to payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, ownerID uuid.UUID, invoiceID *uuid.UUID, page, limit int) ([]model.Payment, int64, error)
	ListByInvoice(ctx context.Context, ownerID, invoiceID uuid.UUID) ([]model.Payment, error)
	ListByInvoiceIDs(ctx context.Context, ownerID uuid.UUID, invoiceIDs []uuid.UUID) ([]model.Payment, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return translate(GetDB(ctx, r.db).Create(payment).Error)
}

func (r *paymentRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, ownerID uuid.UUID, invoiceID *uuid.UUID, page, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Payment{}).Where("owner_id = ?", ownerID)
	if invoiceID != nil {
		query = query.Where("invoice_id = ?", *invoiceID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, translate(err)
	}

	return payments, total, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, ownerID, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).
		Where("owner_id = ? AND invoice_id = ?", ownerID, invoiceID).
		Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, translate(err)
	}
	return payments, nil
}

// ListByInvoiceIDs fetches the payments for a batch of invoices in one
// query, for ledger decoration of invoice listings.
func (r *paymentRepository) ListByInvoiceIDs(ctx context.Context, ownerID uuid.UUID, invoiceIDs []uuid.UUID) ([]model.Payment, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	var payments []model.Payment
	if err := GetDB(ctx, r.db).
		Where("owner_id = ? AND invoice_id IN ?", ownerID, invoiceIDs).
		Find(&payments).Error; err != nil {
		return nil, translate(err)
	}
	return payments, nil
}

func (r *paymentRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Payment{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
