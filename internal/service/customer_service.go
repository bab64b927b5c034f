package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// --- Interface ---

type CustomerService interface {
	CreateCustomer(ctx context.Context, ownerID uuid.UUID, req CreateCustomerRequest) (CustomerResponse, error)
	GetCustomer(ctx context.Context, ownerID, id uuid.UUID) (CustomerResponse, error)
	ListCustomers(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]CustomerResponse, int64, error)
	UpdateCustomer(ctx context.Context, ownerID, id uuid.UUID, req UpdateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, ownerID, id uuid.UUID) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

// --- Implementation ---

func (s *customerService) CreateCustomer(ctx context.Context, ownerID uuid.UUID, req CreateCustomerRequest) (CustomerResponse, error) {
	customer := model.Customer{
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, ownerID, id uuid.UUID) (CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return CustomerResponse{}, err
	}
	return toCustomerResponse(*customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.List(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	result := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, toCustomerResponse(c))
	}
	return result, total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, ownerID, id uuid.UUID, req UpdateCustomerRequest) (CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return CustomerResponse{}, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Company != nil {
		customer.Company = *req.Company
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return toCustomerResponse(*customer), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, ownerID, id)
}

// --- Mapping ---

func toCustomerResponse(c model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
