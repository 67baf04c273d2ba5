package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/choco-corner/internal/catalog"
	"github.com/noah-isme/choco-corner/internal/pricing"
)

func plainEntry(price float64, bulk bool) catalog.Entry {
	return catalog.Entry{
		ID:           "plain",
		Name:         "Dark Chocolate",
		UnitPrice:    decimal.NewFromFloat(price),
		Kind:         catalog.KindPlain,
		BulkEligible: bulk,
	}
}

func limitedEntry() catalog.Entry {
	return catalog.Entry{
		ID:        "dark-winter",
		Name:      "Dark Chocolate",
		UnitPrice: decimal.NewFromFloat(2.50),
		Kind:      catalog.KindLimitedEdition,
		Edition:   "Winter",
		Premium:   decimal.NewFromFloat(1.50),
	}
}

func TestQuoteBulkDiscount(t *testing.T) {
	res, err := pricing.Quote(plainEntry(2.50, true), 12, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "30.00", res.Subtotal.StringFixed(2))
	require.Equal(t, "27.00", res.Total().StringFixed(2))
}

func TestQuoteBulkThresholdExclusive(t *testing.T) {
	res, err := pricing.Quote(plainEntry(2.50, true), 10, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "25.00", res.Total().StringFixed(2), "no bulk discount at exactly ten pieces")
}

func TestQuoteBulkRequiresEligibility(t *testing.T) {
	res, err := pricing.Quote(plainEntry(2.00, false), 15, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "30.00", res.Total().StringFixed(2), "ineligible entries pay full price at any quantity")
}

func TestQuoteLimitedEdition(t *testing.T) {
	res, err := pricing.Quote(limitedEntry(), 6, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "22.80", res.Total().StringFixed(2))

	res, err = pricing.Quote(limitedEntry(), 5, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "20.00", res.Total().StringFixed(2), "no edition discount at exactly five pieces")
}

func TestQuoteFlavoredPricesAtSubtotal(t *testing.T) {
	entry := catalog.Entry{
		ID:        "nutty",
		Name:      "Nutty Chocolate",
		UnitPrice: decimal.NewFromFloat(3.00),
		Kind:      catalog.KindFlavored,
		Flavor:    "Hazelnut",
	}
	res, err := pricing.Quote(entry, 20, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "60.00", res.Total().StringFixed(2), "flavor affects display only, never price")
}

func TestQuoteDiscountThenTax(t *testing.T) {
	// 4 x 2.00 = 8.00, -10% = 7.20, +10% = 7.92.
	res, err := pricing.Quote(plainEntry(2.00, false), 4, 10, 10)
	require.NoError(t, err)
	require.Equal(t, "7.20", res.AfterDiscount.StringFixed(2))
	require.Equal(t, "7.92", res.Total().StringFixed(2))
}

func TestQuoteDiscountAppliesAfterBulk(t *testing.T) {
	// 12 x 2.50 = 30.00, bulk -> 27.00, -50% = 13.50.
	res, err := pricing.Quote(plainEntry(2.50, true), 12, 50, 0)
	require.NoError(t, err)
	require.Equal(t, "13.50", res.Total().StringFixed(2))
}

func TestQuoteRejectsBadInput(t *testing.T) {
	entry := plainEntry(2.00, false)

	_, err := pricing.Quote(entry, 0, 0, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = pricing.Quote(entry, -3, 0, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = pricing.Quote(entry, 1, -1, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidPercentage)

	_, err = pricing.Quote(entry, 1, 0, 101)
	require.ErrorIs(t, err, pricing.ErrInvalidPercentage)
}
