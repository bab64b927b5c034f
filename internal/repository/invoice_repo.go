package repository

import (
	"context"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository defines owner-scoped data access for Invoice entities.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, ownerID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ExistsByQuoteID(ctx context.Context, ownerID, quoteID uuid.UUID) (bool, error)
	ConvertedQuoteIDs(ctx context.Context, ownerID uuid.UUID, quoteIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

// InvoiceListFilter narrows and pages invoice listings.
type InvoiceListFilter struct {
	CustomerID *uuid.UUID
	QuoteID    *uuid.UUID
	Status     string // stored status filter (unpaid/paid); "overdue" is derived in the service
	Page       int
	Limit      int
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return translate(GetDB(ctx, r.db).Create(invoice).Error)
}

func (r *invoiceRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Customer").
		First(&invoice, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, ownerID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Invoice{}).Where("owner_id = ?", ownerID)
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.QuoteID != nil {
		query = query.Where("quote_id = ?", *filter.QuoteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Items").Preload("Customer").
		Order("created_at desc").Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, translate(err)
	}

	return invoices, total, nil
}

// ListAll fetches every invoice (with items) under the owner, for dashboard
// aggregation.
func (r *invoiceRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("owner_id = ?", ownerID).Find(&invoices).Error; err != nil {
		return nil, translate(err)
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return translate(GetDB(ctx, r.db).Omit("Items").Save(invoice).Error)
}

func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return translate(err)
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	if len(items) == 0 {
		return nil
	}
	return translate(db.Create(&items).Error)
}

func (r *invoiceRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Invoice{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// ExistsByQuoteID reports whether any invoice under the owner references the
// quote. This is how quote "converted" state is inferred; it is never stored.
func (r *invoiceRepository) ExistsByQuoteID(ctx context.Context, ownerID, quoteID uuid.UUID) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("owner_id = ? AND quote_id = ?", ownerID, quoteID).
		Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// ConvertedQuoteIDs returns the subset of quoteIDs that have at least one
// invoice, as a set. Used to decorate quote listings in one query.
func (r *invoiceRepository) ConvertedQuoteIDs(ctx context.Context, ownerID uuid.UUID, quoteIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	converted := make(map[uuid.UUID]bool, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return converted, nil
	}

	var ids []uuid.UUID
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("owner_id = ? AND quote_id IN ?", ownerID, quoteIDs).
		Distinct().Pluck("quote_id", &ids).Error; err != nil {
		return nil, translate(err)
	}
	for _, id := range ids {
		converted[id] = true
	}
	return converted, nil
}

func (r *invoiceRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
