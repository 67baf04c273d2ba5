package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/choco-corner/internal/catalog"
)

var (
	// ErrInvalidQuantity is returned when fewer than one piece is requested.
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	// ErrInvalidPercentage is returned when a discount or tax percentage lies
	// outside the 0-100 range.
	ErrInvalidPercentage = errors.New("pricing: percentage must be between 0 and 100")
)

// Result carries the intermediate amounts of one price computation. It is a
// computation output, never stored.
type Result struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	AfterDiscount decimal.Decimal `json:"afterDiscount"`
	AfterTax      decimal.Decimal `json:"afterTax"`
}

// Total returns the amount the customer is charged.
func (r Result) Total() decimal.Decimal { return r.AfterTax }

const (
	// bulkThreshold is the piece count above which bulk-eligible plain
	// entries earn their discount.
	bulkThreshold = 10
	// editionThreshold is the piece count above which limited editions earn
	// their discount.
	editionThreshold = 5
)

var (
	bulkFactor    = decimal.NewFromFloat(0.90)
	editionFactor = decimal.NewFromFloat(0.95)
	hundred       = decimal.NewFromInt(100)
)

// Quote prices qty pieces of the entry. The variant kind owns exactly one
// override point, the base-price step; discount and tax are a shared pipeline
// applied identically to every kind. The final amount is rounded to two
// decimal places.
func Quote(entry catalog.Entry, qty int, discountPct, taxPct float64) (Result, error) {
	if qty < 1 {
		return Result{}, ErrInvalidQuantity
	}
	if discountPct < 0 || discountPct > 100 || taxPct < 0 || taxPct > 100 {
		return Result{}, ErrInvalidPercentage
	}

	pieces := decimal.NewFromInt(int64(qty))
	subtotal := entry.UnitPrice.Mul(pieces)
	base := basePrice(entry, qty, pieces, subtotal)

	afterDiscount := base.Mul(hundred.Sub(decimal.NewFromFloat(discountPct))).Div(hundred)
	afterTax := afterDiscount.Mul(hundred.Add(decimal.NewFromFloat(taxPct))).Div(hundred)

	return Result{
		Subtotal:      subtotal.Round(2),
		AfterDiscount: afterDiscount.Round(2),
		AfterTax:      afterTax.Round(2),
	}, nil
}

// basePrice applies the variant-specific adjustment before the shared
// discount/tax stages. The two quantity discounts are independent policies and
// never apply to the same entry.
func basePrice(entry catalog.Entry, qty int, pieces, subtotal decimal.Decimal) decimal.Decimal {
	switch entry.Kind {
	case catalog.KindLimitedEdition:
		base := entry.UnitPrice.Add(entry.Premium).Mul(pieces)
		if qty > editionThreshold {
			base = base.Mul(editionFactor)
		}
		return base
	case catalog.KindPlain:
		if entry.BulkEligible && qty > bulkThreshold {
			return subtotal.Mul(bulkFactor)
		}
		return subtotal
	default:
		// Flavored entries price at the plain subtotal; flavor only affects
		// display text.
		return subtotal
	}
}
