package shop

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/choco-corner/internal/catalog"
)

// State tracks a purchase transaction through its lifecycle. Committed and
// Aborted are terminal.
type State int

const (
	StateSelecting State = iota
	StateQuoting
	StateAwaitingConfirmation
	StateCharging
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateQuoting:
		return "quoting"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCharging:
		return "charging"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Reason identifies why a purchase transaction aborted.
type Reason string

const (
	ReasonUnknownProduct    Reason = "UNKNOWN_PRODUCT"
	ReasonInvalidQuantity   Reason = "INVALID_QUANTITY"
	ReasonInvalidPercentage Reason = "INVALID_PERCENTAGE"
	ReasonInsufficientStock Reason = "INSUFFICIENT_STOCK"
	ReasonUserCancelled     Reason = "USER_CANCELLED"
	ReasonPaymentDeclined   Reason = "PAYMENT_DECLINED"
)

// transaction is the in-flight record of one purchase attempt.
type transaction struct {
	state  State
	index  int
	qty    int
	entry  catalog.Entry
	total  decimal.Decimal
	reason Reason
}

func newTransaction(index, qty int) *transaction {
	return &transaction{state: StateSelecting, index: index, qty: qty}
}

// advance moves the transaction forward. Terminal states never change and the
// machine only moves in one direction.
func (t *transaction) advance(next State) {
	if t.state == StateCommitted || t.state == StateAborted {
		return
	}
	if next > t.state {
		t.state = next
	}
}

// abort marks the transaction terminally failed with the given reason.
func (t *transaction) abort(reason Reason) {
	if t.state == StateCommitted || t.state == StateAborted {
		return
	}
	t.state = StateAborted
	t.reason = reason
}
