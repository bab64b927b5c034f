package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodPaypal       = "paypal"
)

// PaymentStatus enum constants. Only completed payments count toward an
// invoice's paid amount.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is an immutable record of money received against an invoice.
// Payments are recorded, not processed; there is no update path and invoice
// deletion does not cascade to its payments.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"` // cash, card, bank_transfer, paypal
	Status        string          `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}
