package payment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/choco-corner/internal/obs"
)

// ErrNegativeAmount is returned when a charge is attempted for a negative amount.
var ErrNegativeAmount = errors.New("payment: amount must not be negative")

// Gateway abstracts the payment processor. The coordinator only sees the
// boolean outcome, so a real provider can be swapped in without touching the
// purchase flow.
type Gateway interface {
	Charge(ctx context.Context, amount decimal.Decimal) (bool, error)
}

// Simulated is the development gateway: it waits for the configured delay and
// approves every non-negative charge. The delay respects context
// cancellation, so a caller-imposed timeout turns into a declined charge.
type Simulated struct {
	Delay  time.Duration
	Logger zerolog.Logger
}

// Charge implements Gateway.
func (g Simulated) Charge(ctx context.Context, amount decimal.Decimal) (bool, error) {
	if amount.IsNegative() {
		return false, ErrNegativeAmount
	}
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	g.Logger.Info().Str("amount", amount.StringFixed(2)).Msg("payment approved")
	return true, nil
}

// Declining rejects every charge. Used in tests and for drills.
type Declining struct {
	Err error
}

// Charge implements Gateway.
func (g Declining) Charge(context.Context, decimal.Decimal) (bool, error) {
	return false, g.Err
}

// Resilient wraps a Gateway with a per-charge timeout and an optional circuit
// breaker. Timeouts and an open circuit surface as a failed charge, which the
// coordinator maps to a declined payment.
type Resilient struct {
	Next    Gateway
	Breaker breaker
	Timeout time.Duration
}

// breaker is the subset of resilience.Breaker the wrapper needs.
type breaker interface {
	Allow(ctx context.Context) bool
	Report(ctx context.Context, success bool)
}

// Charge implements Gateway.
func (g Resilient) Charge(ctx context.Context, amount decimal.Decimal) (bool, error) {
	if g.Next == nil {
		return false, errors.New("payment: gateway not configured")
	}
	if g.Breaker != nil && !g.Breaker.Allow(ctx) {
		recordCharge("rejected", 0)
		return false, errors.New("payment: circuit breaker open")
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	start := time.Now()
	ok, err := g.Next.Charge(ctx, amount)
	success := err == nil && ok
	if g.Breaker != nil {
		g.Breaker.Report(ctx, success)
	}
	if success {
		recordCharge("approved", time.Since(start))
	} else {
		recordCharge("declined", time.Since(start))
	}
	return ok, err
}

func recordCharge(result string, elapsed time.Duration) {
	if obs.PaymentChargeTotal != nil {
		obs.PaymentChargeTotal.WithLabelValues(result).Inc()
	}
	if obs.PaymentChargeDuration != nil && elapsed > 0 {
		obs.PaymentChargeDuration.Observe(obs.DurationMillis(elapsed))
	}
}
