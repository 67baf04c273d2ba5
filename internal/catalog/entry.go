package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the pricing and display category of a catalog entry.
type Kind int

const (
	// KindPlain is a regular chocolate priced at its listed unit price.
	KindPlain Kind = iota
	// KindFlavored carries a flavor that changes the display text only.
	KindFlavored
	// KindLimitedEdition adds a fixed per-piece surcharge and its own
	// quantity discount.
	KindLimitedEdition
)

// String returns the stable machine name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindFlavored:
		return "flavored"
	case KindLimitedEdition:
		return "limited_edition"
	default:
		return "unknown"
	}
}

// Entry is one purchasable chocolate variant. Entries are built once at shop
// start-up and never mutated afterwards; the catalog hands out copies only.
type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Tagline   string          `json:"tagline,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Calories  int             `json:"calories"`
	Kind      Kind            `json:"-"`

	// Flavor is set for KindFlavored entries.
	Flavor string `json:"flavor,omitempty"`

	// Edition and Premium are set for KindLimitedEdition entries. Premium is
	// added to the unit price before the edition quantity discount.
	Edition string          `json:"edition,omitempty"`
	Premium decimal.Decimal `json:"premium,omitempty"`

	// BulkEligible marks the plain entries that earn the bulk discount above
	// ten pieces. It is catalog data, not a property of the kind.
	BulkEligible bool `json:"-"`
}

// DisplayName returns the customer-facing name. Limited editions carry the
// edition label.
func (e Entry) DisplayName() string {
	if e.Kind == KindLimitedEdition && e.Edition != "" {
		return fmt.Sprintf("%s (%s Edition)", e.Name, e.Edition)
	}
	return e.Name
}

// ListedPrice returns the per-piece price shown to the customer. For limited
// editions this includes the premium.
func (e Entry) ListedPrice() decimal.Decimal {
	if e.Kind == KindLimitedEdition {
		return e.UnitPrice.Add(e.Premium)
	}
	return e.UnitPrice
}

// Info renders the one-line menu description for the entry.
func (e Entry) Info() string {
	switch e.Kind {
	case KindFlavored:
		return fmt.Sprintf("Chocolate: %s | Flavor: %s | Price: $%s per piece | Calories: %d",
			e.DisplayName(), e.Flavor, e.ListedPrice().StringFixed(2), e.Calories)
	case KindLimitedEdition:
		return fmt.Sprintf("Limited Edition Chocolate: %s | Price: $%s per piece | Calories: %d",
			e.DisplayName(), e.ListedPrice().StringFixed(2), e.Calories)
	default:
		return fmt.Sprintf("Chocolate: %s | Price: $%s per piece | Calories: %d",
			e.DisplayName(), e.ListedPrice().StringFixed(2), e.Calories)
	}
}
