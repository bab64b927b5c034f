package repository

import (
	"context"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteRepository defines owner-scoped data access for Quote entities.
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, ownerID uuid.UUID, filter QuoteListFilter) ([]model.Quote, int64, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]model.Quote, error)
	Update(ctx context.Context, quote *model.Quote) error
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []model.QuoteItem) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

// QuoteListFilter narrows and pages quote listings.
type QuoteListFilter struct {
	CustomerID *uuid.UUID
	Status     string // stored status filter; derived statuses are filtered in the service
	Page       int
	Limit      int
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return translate(GetDB(ctx, r.db).Create(quote).Error)
}

func (r *quoteRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Customer").
		First(&quote, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &quote, nil
}

func (r *quoteRepository) List(ctx context.Context, ownerID uuid.UUID, filter QuoteListFilter) ([]model.Quote, int64, error) {
	var quotes []model.Quote
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Quote{}).Where("owner_id = ?", ownerID)
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
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
		Find(&quotes).Error; err != nil {
		return nil, 0, translate(err)
	}

	return quotes, total, nil
}

// ListAll fetches every quote under the owner, for dashboard aggregation.
func (r *quoteRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	if err := GetDB(ctx, r.db).Where("owner_id = ?", ownerID).Find(&quotes).Error; err != nil {
		return nil, translate(err)
	}
	return quotes, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *model.Quote) error {
	// Omit Items: item rows are replaced explicitly via ReplaceItems so stale
	// association writes cannot resurrect deleted lines.
	return translate(GetDB(ctx, r.db).Omit("Items").Save(quote).Error)
}

func (r *quoteRepository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []model.QuoteItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ?", quoteID).Delete(&model.QuoteItem{}).Error; err != nil {
		return translate(err)
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	if len(items) == 0 {
		return nil
	}
	return translate(db.Create(&items).Error)
}

func (r *quoteRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Quote{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *quoteRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Quote{}).
		Where("quote_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
