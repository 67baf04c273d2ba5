package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersCommittedTotal counts purchases that reached the committed state.
	OrdersCommittedTotal prometheus.Counter
	// PurchasesAbortedTotal counts aborted purchase transactions by reason.
	PurchasesAbortedTotal *prometheus.CounterVec
	// PaymentChargeTotal counts gateway charge attempts by outcome.
	PaymentChargeTotal *prometheus.CounterVec
	// PaymentChargeDuration records charge latency in milliseconds.
	PaymentChargeDuration prometheus.Histogram
	// StockLevel tracks the live stock count per catalog entry.
	StockLevel *prometheus.GaugeVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersCommittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_committed_total",
			Help:      "Number of purchases that committed successfully.",
		})
		PurchasesAbortedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_aborted_total",
			Help:      "Number of aborted purchase transactions by reason.",
		}, []string{"reason"})
		PaymentChargeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_charge_total",
			Help:      "Count of payment gateway charge outcomes.",
		}, []string{"result"})
		PaymentChargeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_charge_duration_ms",
			Help:      "Latency of payment gateway charges in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		})
		StockLevel = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_level",
			Help:      "Current stock count per catalog entry.",
		}, []string{"entry"})

		mustRegisterCollector(reg, OrdersCommittedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersCommittedTotal = v
			}
		})
		mustRegisterCollector(reg, PurchasesAbortedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PurchasesAbortedTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentChargeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentChargeTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentChargeDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PaymentChargeDuration = v
			}
		})
		mustRegisterCollector(reg, StockLevel, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.GaugeVec); ok {
				StockLevel = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
