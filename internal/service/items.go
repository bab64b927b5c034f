package service

import (
	"fmt"
	"time"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/billing"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// defaultTaxRate is applied when a line item omits its tax rate.
var defaultTaxRate = decimal.NewFromInt(20)

// --- Shared DTOs ---

// LineItemRequest carries one billable line. Monetary fields travel as
// strings and are parsed with decimal to avoid float drift.
type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    string  `json:"quantity" binding:"required"`
	UnitPrice   string  `json:"unit_price" binding:"required"`
	TaxRate     *string `json:"tax_rate"`
}

type LineItemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
}

// TotalsResponse is the derived monetary summary attached to every quote and
// invoice payload, as fixed 2-decimal strings.
type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// --- Parsing / mapping helpers ---

func parseLineItems(reqs []LineItemRequest) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(reqs))
	for i, req := range reqs {
		qty, err := decimal.NewFromString(req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: invalid quantity %q", billing.ErrValidation, i, req.Quantity)
		}
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: item %d: quantity must be greater than zero", billing.ErrValidation, i)
		}

		price, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: invalid unit_price %q", billing.ErrValidation, i, req.UnitPrice)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: unit_price must not be negative", billing.ErrValidation, i)
		}

		rate := defaultTaxRate
		if req.TaxRate != nil {
			rate, err = decimal.NewFromString(*req.TaxRate)
			if err != nil {
				return nil, fmt.Errorf("%w: item %d: invalid tax_rate %q", billing.ErrValidation, i, *req.TaxRate)
			}
			if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
				return nil, fmt.Errorf("%w: item %d: tax_rate must be between 0 and 100", billing.ErrValidation, i)
			}
		}

		items = append(items, model.LineItem{
			Description: req.Description,
			Quantity:    qty,
			UnitPrice:   price,
			TaxRate:     rate,
		})
	}
	return items, nil
}

func toLineItemResponses(lines []model.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineItemResponse{
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.StringFixed(2),
			TaxRate:     l.TaxRate.String(),
		})
	}
	return out
}

func toTotalsResponse(t billing.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal: t.Subtotal.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
}

const dateLayout = "2006-01-02"

// parseDate parses a date-only field. Times of day are irrelevant to the
// billing rules; dates store and compare at day granularity.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s %q, expected YYYY-MM-DD", billing.ErrValidation, field, value)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
