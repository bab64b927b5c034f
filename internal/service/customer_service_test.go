package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"

	"github.com/google/uuid"
)

func TestCustomerCRUDIsOwnerScoped(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := &customerService{customerRepo: repo}
	ctx := context.Background()
	ownerID := uuid.New()
	otherOwner := uuid.New()

	created, err := svc.CreateCustomer(ctx, ownerID, CreateCustomerRequest{
		Name:  "Acme Ltd",
		Email: "billing@acme.test",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	customerID := uuid.MustParse(created.ID)

	if _, err := svc.GetCustomer(ctx, ownerID, customerID); err != nil {
		t.Fatalf("GetCustomer: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, otherOwner, customerID); !errors.Is(err, billing.ErrNotFound) {
		t.Errorf("foreign owner read err = %v, want ErrNotFound", err)
	}

	updated, err := svc.UpdateCustomer(ctx, ownerID, customerID, UpdateCustomerRequest{
		Phone: strPtr("+44 20 0000 0000"),
	})
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Phone != "+44 20 0000 0000" {
		t.Errorf("phone = %q, want updated value", updated.Phone)
	}
	if updated.Name != "Acme Ltd" {
		t.Errorf("name = %q, want unchanged", updated.Name)
	}

	if err := svc.DeleteCustomer(ctx, otherOwner, customerID); !errors.Is(err, billing.ErrNotFound) {
		t.Errorf("foreign owner delete err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteCustomer(ctx, ownerID, customerID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, ownerID, customerID); !errors.Is(err, billing.ErrNotFound) {
		t.Errorf("read after delete err = %v, want ErrNotFound", err)
	}
}
