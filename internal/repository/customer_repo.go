package repository

import (
	"context"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository defines owner-scoped data access for Customer entities.
// Every query filters by owner_id; a row belonging to another user is
// reported as not found.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Customer, int64, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return translate(GetDB(ctx, r.db).Create(customer).Error)
}

func (r *customerRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Customer{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	offset := (page - 1) * limit
	if err := db.Where("owner_id = ?", ownerID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, 0, translate(err)
	}

	return customers, total, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return translate(GetDB(ctx, r.db).Save(customer).Error)
}

func (r *customerRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Customer{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
