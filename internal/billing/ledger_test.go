package billing

import (
	"testing"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"
)

func payment(amount, status string) model.Payment {
	return model.Payment{Amount: d(amount), Status: status}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name        string
		total       string
		payments    []model.Payment
		wantPaid    string
		wantBalance string
	}{
		{
			name:        "no payments",
			total:       "120.00",
			payments:    nil,
			wantPaid:    "0",
			wantBalance: "120.00",
		},
		{
			name:  "only completed payments count",
			total: "120.00",
			payments: []model.Payment{
				payment("50.00", model.PaymentStatusCompleted),
				payment("20.00", model.PaymentStatusCompleted),
				payment("1000.00", model.PaymentStatusFailed),
			},
			wantPaid:    "70.00",
			wantBalance: "50.00",
		},
		{
			name:  "pending payments do not count",
			total: "100.00",
			payments: []model.Payment{
				payment("100.00", model.PaymentStatusPending),
			},
			wantPaid:    "0",
			wantBalance: "100.00",
		},
		{
			name:  "overpayment yields negative balance",
			total: "100.00",
			payments: []model.Payment{
				payment("150.00", model.PaymentStatusCompleted),
			},
			wantPaid:    "150.00",
			wantBalance: "-50.00",
		},
		{
			name:  "exact funding zeroes the balance",
			total: "600.00",
			payments: []model.Payment{
				payment("600.00", model.PaymentStatusCompleted),
			},
			wantPaid:    "600.00",
			wantBalance: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(d(tt.total), tt.payments)
			if !got.TotalPaid.Equal(d(tt.wantPaid)) {
				t.Errorf("TotalPaid = %s, want %s", got.TotalPaid, tt.wantPaid)
			}
			if !got.RemainingBalance.Equal(d(tt.wantBalance)) {
				t.Errorf("RemainingBalance = %s, want %s", got.RemainingBalance, tt.wantBalance)
			}
		})
	}
}
