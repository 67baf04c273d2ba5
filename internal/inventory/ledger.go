package inventory

import (
	"errors"
	"sync"
)

var (
	// ErrInvalidQuantity is returned when a non-positive quantity is supplied.
	ErrInvalidQuantity = errors.New("inventory: quantity must be positive")
	// ErrInsufficientStock is returned when a reduction would take an entry
	// below zero. The ledger never goes negative.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// Ledger tracks the live stock count per catalog entry id. All methods are
// safe for concurrent use; the shop coordinator additionally serialises the
// check-then-reduce sequence of a purchase.
type Ledger struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{counts: make(map[string]int)}
}

// AddStock creates or increments the count for the entry id.
func (l *Ledger) AddStock(id string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[id] += qty
	return nil
}

// IsAvailable reports whether at least qty pieces of the entry are on hand.
// Unknown ids count as zero stock.
func (l *Ledger) IsAvailable(id string, qty int) bool {
	if qty <= 0 {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[id] >= qty
}

// Reduce removes qty pieces from the entry. Callers check availability first;
// the re-check here keeps the count from ever going negative.
func (l *Ledger) Reduce(id string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[id] < qty {
		return ErrInsufficientStock
	}
	l.counts[id] -= qty
	return nil
}

// Quantity returns the current count for the entry id.
func (l *Ledger) Quantity(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[id]
}

// Snapshot returns a copy of the full stock mapping for display.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int, len(l.counts))
	for id, qty := range l.counts {
		out[id] = qty
	}
	return out
}
