package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Catalog holds the fixed, ordered set of entries sold by the shop. Indexes
// are 1-based and stable for the process lifetime.
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// New builds a catalog from the provided entries, validating that every entry
// has a unique, non-empty id.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.New("catalog: at least one entry is required")
	}
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: entry %d has an empty id", i+1)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry id %q", id)
		}
		if e.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("catalog: entry %q has a negative unit price", id)
		}
		if e.Calories < 0 {
			return nil, fmt.Errorf("catalog: entry %q has negative calories", id)
		}
		byID[id] = i
	}
	return &Catalog{entries: append([]Entry(nil), entries...), byID: byID}, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// ByIndex returns the entry at the given 1-based index.
func (c *Catalog) ByIndex(index int) (Entry, bool) {
	if index < 1 || index > len(c.entries) {
		return Entry{}, false
	}
	return c.entries[index-1], true
}

// ByID returns the entry with the given id.
func (c *Catalog) ByID(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of the entries in menu order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Default returns the stock chocolate corner menu.
func Default() *Catalog {
	c, err := New([]Entry{
		{
			ID:           "dark",
			Name:         "Dark Chocolate",
			Tagline:      "Rich and intense dark chocolate flavor with minimum 70% cocoa content.",
			UnitPrice:    decimal.NewFromFloat(2.50),
			Calories:     150,
			Kind:         KindPlain,
			BulkEligible: true,
		},
		{
			ID:        "milk",
			Name:      "Milk Chocolate",
			Tagline:   "Smooth and creamy milk chocolate for everyone.",
			UnitPrice: decimal.NewFromFloat(2.00),
			Calories:  180,
			Kind:      KindPlain,
		},
		{
			ID:        "white",
			Name:      "White Chocolate",
			Tagline:   "Sweet white chocolate with hints of vanilla.",
			UnitPrice: decimal.NewFromFloat(2.20),
			Calories:  170,
			Kind:      KindPlain,
		},
		{
			ID:        "nutty",
			Name:      "Nutty Chocolate",
			Tagline:   "Crunchy hazelnuts packed inside smooth chocolate.",
			UnitPrice: decimal.NewFromFloat(3.00),
			Calories:  200,
			Kind:      KindFlavored,
			Flavor:    "Hazelnut",
		},
		{
			ID:        "fruit",
			Name:      "Fruit Chocolate",
			Tagline:   "Sweet strawberry infused chocolate with fruity aroma.",
			UnitPrice: decimal.NewFromFloat(3.20),
			Calories:  190,
			Kind:      KindFlavored,
			Flavor:    "Strawberry",
		},
		{
			ID:        "dark-winter",
			Name:      "Dark Chocolate",
			Tagline:   "Exclusive limited edition with premium ingredients.",
			UnitPrice: decimal.NewFromFloat(2.50),
			Calories:  150,
			Kind:      KindLimitedEdition,
			Edition:   "Winter",
			Premium:   decimal.NewFromFloat(1.50),
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
