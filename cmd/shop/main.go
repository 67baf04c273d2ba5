package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/noah-isme/choco-corner/internal/catalog"
	"github.com/noah-isme/choco-corner/internal/config"
	"github.com/noah-isme/choco-corner/internal/events"
	"github.com/noah-isme/choco-corner/internal/inventory"
	"github.com/noah-isme/choco-corner/internal/obs"
	"github.com/noah-isme/choco-corner/internal/order"
	"github.com/noah-isme/choco-corner/internal/payment"
	"github.com/noah-isme/choco-corner/internal/shop"
)

// storefront runs the interactive terminal session against an in-process
// Service. All mutation goes through the same coordinator the API uses.
type storefront struct {
	svc      *shop.Service
	catalog  *catalog.Catalog
	in       *bufio.Scanner
	out      *os.File
	currency string
}

func main() {
	cfg := config.MustLoad()

	logLevel := "warn"
	if val := strings.TrimSpace(os.Getenv("OBS_LOG_LEVEL")); val != "" {
		logLevel = val
	}
	logger := obs.NewLogger("console", logLevel)

	menu := catalog.Default()
	ledger := inventory.NewLedger()
	for _, entry := range menu.Entries() {
		if cfg.SeedStock > 0 {
			if err := ledger.AddStock(entry.ID, cfg.SeedStock); err != nil {
				logger.Fatal().Err(err).Str("entry", entry.ID).Msg("seed stock")
			}
		}
	}

	gateway := payment.Resilient{
		Next:    payment.Simulated{Delay: cfg.PaymentDelay, Logger: logger},
		Timeout: cfg.PaymentTimeout,
	}

	svc, err := shop.NewService(shop.ServiceConfig{
		Catalog:         menu,
		Ledger:          ledger,
		Gateway:         gateway,
		Orders:          order.NewLog(),
		Events:          &events.Bus{Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}}},
		Logger:          logger,
		DiscountPercent: cfg.DiscountPercent,
		TaxPercent:      cfg.TaxPercent,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise shop service")
	}

	sf := &storefront{
		svc:      svc,
		catalog:  menu,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		currency: cfg.CurrencySymbol,
	}
	sf.run(context.Background())
}

func (s *storefront) run(ctx context.Context) {
	s.printf("=======================================\n")
	s.printf("  Welcome to the Chocolate Corner Shop \n")
	s.printf("=======================================\n")

	for {
		s.printf("\nWhat would you like to do?\n")
		s.printf("  1. View chocolates & place an order\n")
		s.printf("  2. Check inventory\n")
		s.printf("  3. View previous orders\n")
		s.printf("  4. Exit\n")

		switch s.promptInt("Enter choice (1-4): ", 1, 4) {
		case 1:
			s.orderFlow(ctx)
		case 2:
			s.showInventory()
		case 3:
			s.showOrders()
		case 4:
			s.printf("\n=======================================\n")
			s.printf("  Thank you for visiting. Goodbye!     \n")
			s.printf("=======================================\n")
			return
		}
	}
}

func (s *storefront) orderFlow(ctx context.Context) {
	views := s.svc.ListCatalog()
	s.printf("\nOur chocolates today:\n")
	for _, v := range views {
		s.printf("  %d. %s\n", v.Index, v.Info)
	}

	index := s.promptInt(fmt.Sprintf("Pick a chocolate (1-%d): ", len(views)), 1, len(views))
	qty := s.promptInt("How many would you like? ", 1, 1_000_000)

	quote, err := s.svc.Quote(index, qty)
	if err != nil {
		s.printf("Sorry, we can't do that: %v\n", err)
		return
	}

	s.printf("\nOrder summary:\n")
	s.printf("  %s x%d\n", quote.DisplayName, quote.Quantity)
	s.printf("  Subtotal:       %s%s\n", s.currency, quote.Subtotal.StringFixed(2))
	s.printf("  After discount: %s%s\n", s.currency, quote.AfterDiscount.StringFixed(2))
	s.printf("  Total (w/ tax): %s%s\n", s.currency, quote.Price.StringFixed(2))

	confirmed := s.promptYesNo("Confirm purchase? (y/n): ")

	if confirmed {
		s.printf("Processing payment...\n")
	}
	result := s.svc.ConfirmAndCharge(ctx, index, qty, confirmed)
	if !result.Success {
		switch result.FailureReason {
		case shop.ReasonUserCancelled:
			s.printf("No problem, order cancelled.\n")
		case shop.ReasonInsufficientStock:
			s.printf("Sorry, we don't have enough stock for that order.\n")
		case shop.ReasonPaymentDeclined:
			s.printf("Payment was declined. Nothing was charged.\n")
		default:
			s.printf("Order failed: %s\n", result.FailureReason)
		}
		return
	}

	s.printf("Order confirmed! You were charged %s%s.\n",
		s.currency, result.Order.TotalCharged.StringFixed(2))
	s.printf("Order reference: %s\n", result.Order.ID)
}

func (s *storefront) showInventory() {
	snapshot := s.svc.InventorySnapshot()
	s.printf("\nCurrent inventory:\n")
	for _, entry := range s.catalog.Entries() {
		s.printf("  %-35s %d in stock\n", entry.DisplayName(), snapshot[entry.ID])
	}
}

func (s *storefront) showOrders() {
	orders := s.svc.OrderHistory()
	if len(orders) == 0 {
		s.printf("\nNo orders yet.\n")
		return
	}
	s.printf("\nPrevious orders:\n")
	for _, o := range orders {
		s.printf("  #%d  %s x%d  %s%s  (%s)\n",
			o.Seq, o.EntryName, o.Quantity,
			s.currency, o.TotalCharged.StringFixed(2),
			o.PlacedAt.Format("15:04:05"))
	}
}

// promptInt re-asks until the input parses and falls inside [min, max].
func (s *storefront) promptInt(prompt string, min, max int) int {
	for {
		s.printf("%s", prompt)
		if !s.in.Scan() {
			return min
		}
		val, err := strconv.Atoi(strings.TrimSpace(s.in.Text()))
		if err != nil || val < min || val > max {
			s.printf("Please enter a number between %d and %d.\n", min, max)
			continue
		}
		return val
	}
}

func (s *storefront) promptYesNo(prompt string) bool {
	for {
		s.printf("%s", prompt)
		if !s.in.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s.in.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		s.printf("Please answer y or n.\n")
	}
}

func (s *storefront) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
