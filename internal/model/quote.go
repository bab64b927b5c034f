package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stored quote statuses. These are the only values ever written to the
// quotes table; "expired" and "converted" exist solely as derived statuses.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusDeclined = "declined"
)

// Derived quote statuses, never persisted.
const (
	QuoteStatusExpired   = "expired"
	QuoteStatusConverted = "converted"
)

// Quote represents a priced offer to a customer. Once an invoice has been
// created from it, the quote is treated as converted and frozen.
type Quote struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	CustomerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	QuoteNumber string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"quote_number"`
	IssueDate   time.Time      `gorm:"type:date;not null" json:"issue_date"`
	ExpiryDate  *time.Time     `gorm:"type:date" json:"expiry_date"`
	Items       []QuoteItem    `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft, sent, accepted, declined
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuoteItem is one line of a quote.
type QuoteItem struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID  uuid.UUID `gorm:"type:uuid;not null;index" json:"quote_id"`
	LineItem `gorm:"embedded"`
}

// Lines returns the quote's items as plain line values for totals math.
func (q *Quote) Lines() []LineItem {
	lines := make([]LineItem, 0, len(q.Items))
	for _, it := range q.Items {
		lines = append(lines, it.LineItem)
	}
	return lines
}
