package model

import "github.com/shopspring/decimal"

// LineItem is the billable line shared by quotes and invoices. It has no
// identity of its own: it is embedded into QuoteItem/InvoiceItem rows and
// always copied by value, never referenced across documents.
type LineItem struct {
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // percentage, 0..100
}
