package shop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/choco-corner/internal/catalog"
	"github.com/noah-isme/choco-corner/internal/events"
	"github.com/noah-isme/choco-corner/internal/inventory"
	"github.com/noah-isme/choco-corner/internal/obs"
	"github.com/noah-isme/choco-corner/internal/order"
	"github.com/noah-isme/choco-corner/internal/payment"
	"github.com/noah-isme/choco-corner/internal/pricing"
)

// ErrUnknownProduct is returned when an index or id matches no catalog entry.
var ErrUnknownProduct = errors.New("shop: unknown product")

// Service coordinates catalog, pricing, inventory, payment, and the order log
// for the purchase flow. It holds its collaborators for the process lifetime.
type Service struct {
	catalog *catalog.Catalog
	ledger  *inventory.Ledger
	gateway payment.Gateway
	orders  *order.Log
	bus     *events.Bus
	logger  zerolog.Logger

	discountPct float64
	taxPct      float64

	// mu spans the availability check through the stock/order commit so a
	// purchase runs to completion before the next one touches the ledger.
	mu sync.Mutex
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Catalog         *catalog.Catalog
	Ledger          *inventory.Ledger
	Gateway         payment.Gateway
	Orders          *order.Log
	Events          *events.Bus
	Logger          zerolog.Logger
	DiscountPercent float64
	TaxPercent      float64
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("shop: catalog is required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("shop: inventory ledger is required")
	}
	if cfg.Gateway == nil {
		return nil, errors.New("shop: payment gateway is required")
	}
	if cfg.Orders == nil {
		return nil, errors.New("shop: order log is required")
	}
	if cfg.DiscountPercent < 0 || cfg.DiscountPercent > 100 || cfg.TaxPercent < 0 || cfg.TaxPercent > 100 {
		return nil, pricing.ErrInvalidPercentage
	}
	return &Service{
		catalog:     cfg.Catalog,
		ledger:      cfg.Ledger,
		gateway:     cfg.Gateway,
		orders:      cfg.Orders,
		bus:         cfg.Events,
		logger:      cfg.Logger,
		discountPct: cfg.DiscountPercent,
		taxPct:      cfg.TaxPercent,
	}, nil
}

// EntryView is one catalog row as shown to the presentation layer. Indexes
// are 1-based and stable for the process lifetime.
type EntryView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Info        string `json:"info"`
}

// Quote is the priced answer for an entry/quantity pair.
type Quote struct {
	Index         int             `json:"index"`
	ID            string          `json:"id"`
	DisplayName   string          `json:"displayName"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	AfterDiscount decimal.Decimal `json:"afterDiscount"`
	Price         decimal.Decimal `json:"price"`
}

// OrderResult is the outcome of a purchase attempt. Failure is an expected,
// locally recoverable result, not an error.
type OrderResult struct {
	Success       bool         `json:"success"`
	Order         *order.Order `json:"order,omitempty"`
	FailureReason Reason       `json:"failureReason,omitempty"`
}

// ListCatalog returns the menu in stable order.
func (s *Service) ListCatalog() []EntryView {
	entries := s.catalog.Entries()
	views := make([]EntryView, 0, len(entries))
	for i, e := range entries {
		views = append(views, EntryView{
			Index:       i + 1,
			ID:          e.ID,
			DisplayName: e.DisplayName(),
			Info:        e.Info(),
		})
	}
	return views
}

// Quote prices a prospective purchase without side effects.
func (s *Service) Quote(index, qty int) (Quote, error) {
	entry, ok := s.catalog.ByIndex(index)
	if !ok {
		return Quote{}, ErrUnknownProduct
	}
	res, err := pricing.Quote(entry, qty, s.discountPct, s.taxPct)
	if err != nil {
		return Quote{}, err
	}
	if !s.ledger.IsAvailable(entry.ID, qty) {
		return Quote{}, inventory.ErrInsufficientStock
	}
	return Quote{
		Index:         index,
		ID:            entry.ID,
		DisplayName:   entry.DisplayName(),
		Quantity:      qty,
		Subtotal:      res.Subtotal,
		AfterDiscount: res.AfterDiscount,
		Price:         res.AfterTax,
	}, nil
}

// ConfirmAndCharge runs one purchase transaction through the full state
// machine. Stock is decremented and an order recorded iff the charge
// succeeded; the two mutations happen as one atomic step.
func (s *Service) ConfirmAndCharge(ctx context.Context, index, qty int, confirmed bool) OrderResult {
	tx := newTransaction(index, qty)

	entry, ok := s.catalog.ByIndex(index)
	if !ok {
		return s.aborted(ctx, tx, ReasonUnknownProduct)
	}
	tx.entry = entry
	tx.advance(StateQuoting)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Availability is checked before the gateway is ever contacted.
	if qty < 1 {
		return s.aborted(ctx, tx, ReasonInvalidQuantity)
	}
	if !s.ledger.IsAvailable(entry.ID, qty) {
		return s.aborted(ctx, tx, ReasonInsufficientStock)
	}
	res, err := pricing.Quote(entry, qty, s.discountPct, s.taxPct)
	if err != nil {
		return s.aborted(ctx, tx, reasonForError(err))
	}
	tx.total = res.AfterTax
	tx.advance(StateAwaitingConfirmation)

	if !confirmed {
		return s.aborted(ctx, tx, ReasonUserCancelled)
	}
	tx.advance(StateCharging)

	paid, err := s.gateway.Charge(ctx, tx.total)
	if err != nil || !paid {
		if err != nil {
			s.logger.Warn().Err(err).Str("entry", entry.ID).Msg("charge failed")
		}
		return s.aborted(ctx, tx, ReasonPaymentDeclined)
	}

	// Commit: both mutations or neither. Reduce re-checks defensively but
	// cannot fail while mu is held across the availability check above.
	if err := s.ledger.Reduce(entry.ID, qty); err != nil {
		s.logger.Error().Err(err).Str("entry", entry.ID).Msg("stock reduce after successful charge")
		return s.aborted(ctx, tx, ReasonInsufficientStock)
	}
	stored := s.orders.Append(order.Order{
		EntryID:      entry.ID,
		EntryName:    entry.DisplayName(),
		Quantity:     qty,
		TotalCharged: tx.total,
	})
	tx.advance(StateCommitted)
	s.recordStock(entry.ID)

	s.logger.Info().
		Str("entry", entry.ID).
		Int("quantity", qty).
		Str("total", tx.total.StringFixed(2)).
		Int64("seq", stored.Seq).
		Msg("order committed")
	if s.bus != nil {
		_ = s.bus.Emit(ctx, events.TopicOrderCommitted, map[string]any{
			"orderId":  stored.ID.String(),
			"entryId":  stored.EntryID,
			"quantity": stored.Quantity,
			"total":    stored.TotalCharged.StringFixed(2),
			"seq":      stored.Seq,
		})
	}
	return OrderResult{Success: true, Order: &stored}
}

// InventorySnapshot returns the current stock mapping for display.
func (s *Service) InventorySnapshot() map[string]int {
	return s.ledger.Snapshot()
}

// OrderHistory returns every committed order oldest first.
func (s *Service) OrderHistory() []order.Order {
	return s.orders.All()
}

// OrderHistoryPage returns one page of orders plus the total count.
func (s *Service) OrderHistoryPage(page, perPage int) ([]order.Order, int) {
	return s.orders.Page(page, perPage)
}

func (s *Service) aborted(ctx context.Context, tx *transaction, reason Reason) OrderResult {
	tx.abort(reason)
	s.logger.Info().
		Int("index", tx.index).
		Int("quantity", tx.qty).
		Str("reason", string(reason)).
		Msg("purchase aborted")
	if s.bus != nil {
		_ = s.bus.Emit(ctx, events.TopicPurchaseAborted, map[string]any{
			"index":    tx.index,
			"quantity": tx.qty,
			"reason":   string(reason),
		})
	}
	return OrderResult{Success: false, FailureReason: reason}
}

func (s *Service) recordStock(id string) {
	if obs.StockLevel != nil {
		obs.StockLevel.WithLabelValues(id).Set(float64(s.ledger.Quantity(id)))
	}
}

func reasonForError(err error) Reason {
	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return ReasonInvalidQuantity
	case errors.Is(err, pricing.ErrInvalidPercentage):
		return ReasonInvalidPercentage
	case errors.Is(err, inventory.ErrInsufficientStock):
		return ReasonInsufficientStock
	case errors.Is(err, ErrUnknownProduct):
		return ReasonUnknownProduct
	default:
		return ReasonPaymentDeclined
	}
}
