package order

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one committed purchase. Orders are immutable once appended.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	Seq          int64           `json:"seq"`
	EntryID      string          `json:"entryId"`
	EntryName    string          `json:"entryName"`
	Quantity     int             `json:"quantity"`
	TotalCharged decimal.Decimal `json:"totalCharged"`
	PlacedAt     time.Time       `json:"placedAt"`
}

// Log is the append-only purchase history. Sequence numbers are assigned at
// append time and strictly increase; there are no update or delete operations.
type Log struct {
	mu     sync.RWMutex
	orders []Order
	seq    int64
}

// NewLog returns an empty order log.
func NewLog() *Log {
	return &Log{}
}

// Append assigns the next sequence number, stamps id and time if unset, and
// stores the order. It returns the stored copy.
func (l *Log) Append(o Order) Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	o.Seq = l.seq
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now().UTC()
	}
	l.orders = append(l.orders, o)
	return o
}

// All returns every order oldest first.
func (l *Log) All() []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Order(nil), l.orders...)
}

// Page returns one page of orders oldest first plus the total count.
func (l *Log) Page(page, perPage int) ([]Order, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := len(l.orders)
	start := (page - 1) * perPage
	if start >= total {
		return []Order{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return append([]Order(nil), l.orders[start:end]...), total
}

// Len returns the number of recorded orders.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}
