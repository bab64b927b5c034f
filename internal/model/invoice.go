package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stored invoice statuses. "overdue" is never stored; it is derived from the
// due date on every read.
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
)

// Derived invoice status, never persisted.
const (
	InvoiceStatusOverdue = "overdue"
)

// Invoice represents a bill created from an accepted quote. Every invoice
// references exactly one originating quote; its items are value copies of the
// quote's items at conversion time.
type Invoice struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	CustomerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	QuoteID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"quote_id"`
	InvoiceNumber string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	IssueDate     time.Time      `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time      `gorm:"type:date;not null" json:"due_date"`
	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Status        string         `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"status"` // unpaid, paid
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineItem  `gorm:"embedded"`
}

// Lines returns the invoice's items as plain line values for totals math.
func (inv *Invoice) Lines() []LineItem {
	lines := make([]LineItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, it.LineItem)
	}
	return lines
}
