package shop_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/choco-corner/internal/catalog"
	"github.com/noah-isme/choco-corner/internal/inventory"
	"github.com/noah-isme/choco-corner/internal/order"
	"github.com/noah-isme/choco-corner/internal/payment"
	"github.com/noah-isme/choco-corner/internal/shop"
)

// countingGateway records every charge attempt and answers with a fixed
// outcome.
type countingGateway struct {
	calls   int
	approve bool
	err     error
}

func (g *countingGateway) Charge(_ context.Context, _ decimal.Decimal) (bool, error) {
	g.calls++
	return g.approve, g.err
}

type fixture struct {
	svc     *shop.Service
	ledger  *inventory.Ledger
	orders  *order.Log
	gateway *countingGateway
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	menu := catalog.Default()
	ledger := inventory.NewLedger()
	for _, e := range menu.Entries() {
		if stock > 0 {
			require.NoError(t, ledger.AddStock(e.ID, stock))
		}
	}
	orders := order.NewLog()
	gateway := &countingGateway{approve: true}
	svc, err := shop.NewService(shop.ServiceConfig{
		Catalog: menu,
		Ledger:  ledger,
		Gateway: gateway,
		Orders:  orders,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return &fixture{svc: svc, ledger: ledger, orders: orders, gateway: gateway}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := shop.NewService(shop.ServiceConfig{})
	require.Error(t, err)

	_, err = shop.NewService(shop.ServiceConfig{
		Catalog:         catalog.Default(),
		Ledger:          inventory.NewLedger(),
		Gateway:         &countingGateway{},
		Orders:          order.NewLog(),
		DiscountPercent: 120,
	})
	require.Error(t, err)
}

func TestQuoteMatchesCommittedTotal(t *testing.T) {
	f := newFixture(t, 20)

	quote, err := f.svc.Quote(1, 12)
	require.NoError(t, err)
	require.Equal(t, "27.00", quote.Price.StringFixed(2))

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 12, true)
	require.True(t, result.Success)
	require.NotNil(t, result.Order)
	require.True(t, quote.Price.Equal(result.Order.TotalCharged))
}

func TestQuoteErrors(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.svc.Quote(99, 1)
	require.ErrorIs(t, err, shop.ErrUnknownProduct)

	_, err = f.svc.Quote(1, 0)
	require.Error(t, err)

	_, err = f.svc.Quote(1, 6)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
}

func TestCommitReducesStockAndAppendsOrder(t *testing.T) {
	f := newFixture(t, 20)

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 3, true)
	require.True(t, result.Success)
	require.Equal(t, 17, f.ledger.Quantity("dark"))
	require.Equal(t, 1, f.orders.Len())
	require.Equal(t, 1, f.gateway.calls)

	stored := f.orders.All()[0]
	require.Equal(t, "dark", stored.EntryID)
	require.Equal(t, int64(1), stored.Seq)
	require.Equal(t, result.Order.ID, stored.ID)
}

func TestCancelledPurchaseIsANoOp(t *testing.T) {
	f := newFixture(t, 20)

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 3, false)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonUserCancelled, result.FailureReason)
	require.Nil(t, result.Order)
	require.Equal(t, 20, f.ledger.Quantity("dark"))
	require.Equal(t, 0, f.orders.Len())
	require.Equal(t, 0, f.gateway.calls, "gateway must not be contacted on cancel")
}

func TestInsufficientStockSkipsGateway(t *testing.T) {
	f := newFixture(t, 5)

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 6, true)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonInsufficientStock, result.FailureReason)
	require.Equal(t, 0, f.gateway.calls, "availability is checked before the charge")
	require.Equal(t, 5, f.ledger.Quantity("dark"))
	require.Equal(t, 0, f.orders.Len())
}

func TestDeclinedChargeLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, 20)
	f.gateway.approve = false

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 3, true)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonPaymentDeclined, result.FailureReason)
	require.Equal(t, 1, f.gateway.calls)
	require.Equal(t, 20, f.ledger.Quantity("dark"))
	require.Equal(t, 0, f.orders.Len())
}

func TestGatewayErrorMapsToDeclined(t *testing.T) {
	f := newFixture(t, 20)

	menu := catalog.Default()
	svc, err := shop.NewService(shop.ServiceConfig{
		Catalog: menu,
		Ledger:  f.ledger,
		Gateway: payment.Declining{Err: context.DeadlineExceeded},
		Orders:  f.orders,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	result := svc.ConfirmAndCharge(context.Background(), 1, 3, true)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonPaymentDeclined, result.FailureReason)
	require.Equal(t, 20, f.ledger.Quantity("dark"))
}

func TestUnknownProductAborts(t *testing.T) {
	f := newFixture(t, 20)

	result := f.svc.ConfirmAndCharge(context.Background(), 99, 1, true)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonUnknownProduct, result.FailureReason)
	require.Equal(t, 0, f.gateway.calls)
}

func TestInvalidQuantityAborts(t *testing.T) {
	f := newFixture(t, 20)

	result := f.svc.ConfirmAndCharge(context.Background(), 1, 0, true)
	require.False(t, result.Success)
	require.Equal(t, shop.ReasonInvalidQuantity, result.FailureReason)
	require.Equal(t, 0, f.gateway.calls)
}

func TestSequentialPurchasesDrainStock(t *testing.T) {
	f := newFixture(t, 5)

	first := f.svc.ConfirmAndCharge(context.Background(), 2, 3, true)
	require.True(t, first.Success)

	second := f.svc.ConfirmAndCharge(context.Background(), 2, 3, true)
	require.False(t, second.Success)
	require.Equal(t, shop.ReasonInsufficientStock, second.FailureReason)
	require.Equal(t, 2, f.ledger.Quantity("milk"))
	require.Equal(t, 1, f.orders.Len())
}

func TestOrderHistoryOrdering(t *testing.T) {
	f := newFixture(t, 20)

	require.True(t, f.svc.ConfirmAndCharge(context.Background(), 1, 1, true).Success)
	require.True(t, f.svc.ConfirmAndCharge(context.Background(), 2, 2, true).Success)

	history := f.svc.OrderHistory()
	require.Len(t, history, 2)
	require.Equal(t, "dark", history[0].EntryID)
	require.Equal(t, "milk", history[1].EntryID)
	require.Less(t, history[0].Seq, history[1].Seq)

	page, total := f.svc.OrderHistoryPage(1, 1)
	require.Equal(t, 2, total)
	require.Len(t, page, 1)
	require.Equal(t, "dark", page[0].EntryID)
}

func TestListCatalogViews(t *testing.T) {
	f := newFixture(t, 0)

	views := f.svc.ListCatalog()
	require.Len(t, views, 6)
	require.Equal(t, 1, views[0].Index)
	require.Equal(t, "dark", views[0].ID)
	require.Equal(t, "Dark Chocolate (Winter Edition)", views[5].DisplayName)
}
