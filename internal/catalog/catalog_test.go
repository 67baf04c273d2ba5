package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadEntries(t *testing.T) {
	_, err := New([]Entry{{ID: "", Name: "Nameless", UnitPrice: decimal.NewFromInt(1)}})
	require.Error(t, err)

	_, err = New([]Entry{
		{ID: "dup", Name: "One", UnitPrice: decimal.NewFromInt(1)},
		{ID: "dup", Name: "Two", UnitPrice: decimal.NewFromInt(1)},
	})
	require.Error(t, err)

	_, err = New([]Entry{{ID: "neg", Name: "Negative", UnitPrice: decimal.NewFromInt(-1)}})
	require.Error(t, err)
}

func TestCatalogLookups(t *testing.T) {
	c := Default()
	require.Equal(t, 6, c.Len())

	first, ok := c.ByIndex(1)
	require.True(t, ok)
	require.Equal(t, "dark", first.ID)

	_, ok = c.ByIndex(0)
	require.False(t, ok)
	_, ok = c.ByIndex(7)
	require.False(t, ok)

	winter, ok := c.ByID("dark-winter")
	require.True(t, ok)
	require.Equal(t, KindLimitedEdition, winter.Kind)
	_, ok = c.ByID("unknown")
	require.False(t, ok)
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := Default()
	entries := c.Entries()
	entries[0].Name = "mutated"
	fresh, _ := c.ByIndex(1)
	require.Equal(t, "Dark Chocolate", fresh.Name)
}

func TestEntryDisplay(t *testing.T) {
	c := Default()

	winter, _ := c.ByID("dark-winter")
	require.Equal(t, "Dark Chocolate (Winter Edition)", winter.DisplayName())
	require.Equal(t, "4.00", winter.ListedPrice().StringFixed(2))
	require.Equal(t,
		"Limited Edition Chocolate: Dark Chocolate (Winter Edition) | Price: $4.00 per piece | Calories: 150",
		winter.Info())

	nutty, _ := c.ByID("nutty")
	require.Equal(t,
		"Chocolate: Nutty Chocolate | Flavor: Hazelnut | Price: $3.00 per piece | Calories: 200",
		nutty.Info())

	dark, _ := c.ByID("dark")
	require.Equal(t,
		"Chocolate: Dark Chocolate | Price: $2.50 per piece | Calories: 150",
		dark.Info())
	require.True(t, dark.BulkEligible)
}
