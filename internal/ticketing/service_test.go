package ticketing

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/ticketline/ticketline/internal/domain"
	"github.com/ticketline/ticketline/internal/events"
	"github.com/ticketline/ticketline/internal/receipt"
	"github.com/ticketline/ticketline/internal/repository"
)

// fakeLedger mimics the transactional repository: mutations made inside
// WithTx are undone when the callback fails.
type fakeLedger struct {
	movieID   int64
	title     string
	price     float64
	available int

	recordErr error
	sales     []repository.SaleParams
}

func (f *fakeLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	availBefore := f.available
	salesBefore := len(f.sales)
	if err := fn(ctx); err != nil {
		f.available = availBefore
		f.sales = f.sales[:salesBefore]
		return err
	}
	return nil
}

func (f *fakeLedger) TrySell(ctx context.Context, movieID int64, requested int) (repository.SaleQuote, error) {
	if movieID != f.movieID {
		return repository.SaleQuote{}, repository.ErrNotFound
	}
	if requested > f.available {
		return repository.SaleQuote{}, &domain.InsufficientInventoryError{Available: f.available}
	}
	f.available -= requested
	return repository.SaleQuote{Title: f.title, Price: f.price}, nil
}

func (f *fakeLedger) RecordSale(ctx context.Context, params repository.SaleParams) (int64, error) {
	if f.recordErr != nil {
		return 0, f.recordErr
	}
	f.sales = append(f.sales, params)
	return int64(len(f.sales)), nil
}

type fakeSink struct {
	err   error
	wrote []receipt.Details
}

func (s *fakeSink) Write(d receipt.Details) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.wrote = append(s.wrote, d)
	return "receipts/fake.txt", nil
}

type fakePublisher struct {
	err    error
	events []events.TicketSoldEvent
}

func (p *fakePublisher) PublishTicketSold(ctx context.Context, ev events.TicketSoldEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{movieID: 1, title: "The Matrix", price: 120, available: 100}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestServiceSell(t *testing.T) {
	ledger := newFakeLedger()
	sink := &fakeSink{}
	publisher := &fakePublisher{}
	svc := New(ledger, sink, publisher, quietLogger())

	sale, err := svc.Sell(context.Background(), SellInput{MovieID: 1, CustomerName: "Ada", NumberOfTickets: 2})
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if sale.Total != 240 {
		t.Fatalf("Total = %v, want 240", sale.Total)
	}
	if sale.Title != "The Matrix" || sale.Customer != "Ada" || sale.Tickets != 2 {
		t.Fatalf("unexpected summary: %+v", sale)
	}
	if sale.ReceiptPath != "receipts/fake.txt" {
		t.Fatalf("ReceiptPath = %q", sale.ReceiptPath)
	}
	if ledger.available != 98 {
		t.Fatalf("available = %d, want 98", ledger.available)
	}
	if len(ledger.sales) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(ledger.sales))
	}
	if len(sink.wrote) != 1 || sink.wrote[0].Total != 240 {
		t.Fatalf("receipt not written with frozen total: %+v", sink.wrote)
	}
	if len(publisher.events) != 1 || publisher.events[0].NumberOfTickets != 2 {
		t.Fatalf("event not published: %+v", publisher.events)
	}
}

func TestServiceSellRejectsNonPositiveTickets(t *testing.T) {
	ledger := newFakeLedger()
	svc := New(ledger, nil, nil, quietLogger())

	for _, tickets := range []int{0, -3} {
		_, err := svc.Sell(context.Background(), SellInput{MovieID: 1, CustomerName: "Ada", NumberOfTickets: tickets})
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Sell(%d tickets) error = %v, want ValidationError", tickets, err)
		}
		if vErr.Field != "number_of_tickets" {
			t.Fatalf("field = %s, want number_of_tickets", vErr.Field)
		}
	}
	if ledger.available != 100 || len(ledger.sales) != 0 {
		t.Fatalf("rejected sale touched the ledger: avail=%d sales=%d", ledger.available, len(ledger.sales))
	}
}

func TestServiceSellInsufficientInventory(t *testing.T) {
	ledger := newFakeLedger()
	ledger.available = 5
	svc := New(ledger, nil, nil, quietLogger())

	_, err := svc.Sell(context.Background(), SellInput{MovieID: 1, CustomerName: "Ada", NumberOfTickets: 6})
	var invErr *domain.InsufficientInventoryError
	if !errors.As(err, &invErr) {
		t.Fatalf("Sell error = %v, want InsufficientInventoryError", err)
	}
	if invErr.Available != 5 {
		t.Fatalf("Available = %d, want 5", invErr.Available)
	}
	if ledger.available != 5 {
		t.Fatalf("failed sale decremented inventory to %d", ledger.available)
	}
}

func TestServiceSellRollsBackOnLedgerFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.recordErr = errors.New("ledger down")
	svc := New(ledger, nil, nil, quietLogger())

	_, err := svc.Sell(context.Background(), SellInput{MovieID: 1, CustomerName: "Ada", NumberOfTickets: 2})
	if !errors.Is(err, ledger.recordErr) {
		t.Fatalf("Sell error = %v, want ledger failure", err)
	}
	if ledger.available != 100 {
		t.Fatalf("decrement not rolled back: available = %d", ledger.available)
	}
	if len(ledger.sales) != 0 {
		t.Fatalf("ledger has %d entries after failed transaction", len(ledger.sales))
	}
}

func TestServiceSellSurvivesSideEffectFailures(t *testing.T) {
	ledger := newFakeLedger()
	sink := &fakeSink{err: errors.New("disk full")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := New(ledger, sink, publisher, quietLogger())

	sale, err := svc.Sell(context.Background(), SellInput{MovieID: 1, CustomerName: "Ada", NumberOfTickets: 1})
	if err != nil {
		t.Fatalf("Sell must not fail on side effects: %v", err)
	}
	if sale.ReceiptPath != "" {
		t.Fatalf("ReceiptPath = %q, want empty on sink failure", sale.ReceiptPath)
	}
	if ledger.available != 99 || len(ledger.sales) != 1 {
		t.Fatalf("sale not committed: avail=%d sales=%d", ledger.available, len(ledger.sales))
	}
}

func TestServiceSellUnknownMovie(t *testing.T) {
	svc := New(newFakeLedger(), nil, nil, quietLogger())

	_, err := svc.Sell(context.Background(), SellInput{MovieID: 42, CustomerName: "Ada", NumberOfTickets: 1})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Sell error = %v, want ErrNotFound", err)
	}
}
