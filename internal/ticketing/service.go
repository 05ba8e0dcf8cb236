// Package ticketing implements the sale transaction: one logical unit
// combining the inventory decrement with the ledger append, followed by
// receipt and event side effects that never affect the outcome.
package ticketing

import (
	"context"
	"log"
	"time"

	"github.com/ticketline/ticketline/internal/domain"
	"github.com/ticketline/ticketline/internal/events"
	"github.com/ticketline/ticketline/internal/receipt"
	"github.com/ticketline/ticketline/internal/repository"
)

// Ledger is the slice of the repository the sale transaction needs.
type Ledger interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	TrySell(ctx context.Context, movieID int64, requested int) (repository.SaleQuote, error)
	RecordSale(ctx context.Context, params repository.SaleParams) (int64, error)
}

// EventPublisher announces committed sales to interested consumers.
type EventPublisher interface {
	PublishTicketSold(ctx context.Context, ev events.TicketSoldEvent) error
}

// Service executes sales against the shared inventory.
type Service struct {
	ledger   Ledger
	receipts receipt.Sink
	events   EventPublisher
	now      func() time.Time
	logger   *log.Logger
}

// New constructs a sale service. Receipts and events may be nil, in
// which case the corresponding side effect is skipped.
func New(ledger Ledger, receipts receipt.Sink, publisher EventPublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		ledger:   ledger,
		receipts: receipts,
		events:   publisher,
		now:      time.Now,
		logger:   logger,
	}
}

// SellInput is a validated sale request.
type SellInput struct {
	MovieID         int64
	CustomerName    string
	NumberOfTickets int
}

// SaleSummary reports a committed sale back to the caller. ReceiptPath
// is empty when the receipt sink is absent or failed.
type SaleSummary struct {
	SaleID      int64
	MovieID     int64
	Title       string
	Customer    string
	Tickets     int
	Total       float64
	SoldAt      time.Time
	ReceiptPath string
}

// Sell validates the request, then runs the decrement and the ledger
// insert inside one transaction: either both persist or neither does.
// Receipt and event side effects run after commit; their failures are
// logged, never surfaced.
func (s *Service) Sell(ctx context.Context, in SellInput) (SaleSummary, error) {
	if in.NumberOfTickets <= 0 {
		return SaleSummary{}, &domain.ValidationError{Field: "number_of_tickets", Reason: "must be > 0"}
	}

	soldAt := s.now().UTC()
	var summary SaleSummary

	err := s.ledger.WithTx(ctx, func(txCtx context.Context) error {
		quote, err := s.ledger.TrySell(txCtx, in.MovieID, in.NumberOfTickets)
		if err != nil {
			return err
		}

		total := float64(in.NumberOfTickets) * quote.Price
		saleID, err := s.ledger.RecordSale(txCtx, repository.SaleParams{
			MovieID:         in.MovieID,
			CustomerName:    in.CustomerName,
			NumberOfTickets: in.NumberOfTickets,
			Total:           total,
			SaleTime:        soldAt,
		})
		if err != nil {
			return err
		}

		summary = SaleSummary{
			SaleID:   saleID,
			MovieID:  in.MovieID,
			Title:    quote.Title,
			Customer: in.CustomerName,
			Tickets:  in.NumberOfTickets,
			Total:    total,
			SoldAt:   soldAt,
		}
		return nil
	})
	if err != nil {
		return SaleSummary{}, err
	}

	summary.ReceiptPath = s.writeReceipt(summary)
	s.publish(ctx, summary)
	return summary, nil
}

func (s *Service) writeReceipt(sale SaleSummary) string {
	if s.receipts == nil {
		return ""
	}
	path, err := s.receipts.Write(receipt.Details{
		MovieID:  sale.MovieID,
		Title:    sale.Title,
		Customer: sale.Customer,
		Tickets:  sale.Tickets,
		Total:    sale.Total,
		Time:     sale.SoldAt,
	})
	if err != nil {
		s.logger.Printf("ticketing: receipt write failed for sale %d: %v", sale.SaleID, err)
		return ""
	}
	return path
}

func (s *Service) publish(ctx context.Context, sale SaleSummary) {
	if s.events == nil {
		return
	}
	ev := events.TicketSoldEvent{
		SaleID:          sale.SaleID,
		MovieID:         sale.MovieID,
		MovieTitle:      sale.Title,
		CustomerName:    sale.Customer,
		NumberOfTickets: sale.Tickets,
		Total:           sale.Total,
		SoldAt:          sale.SoldAt.Format(time.RFC3339),
	}
	if err := s.events.PublishTicketSold(ctx, ev); err != nil {
		s.logger.Printf("ticketing: publish sale event failed for sale %d: %v", sale.SaleID, err)
	}
}
