// Package events publishes domain events to RabbitMQ. Publishing is
// best-effort: errors are logged and returned so callers can ignore
// them without interrupting the request flow.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TicketSoldQueue is the durable queue sale events are published to.
const TicketSoldQueue = "ticket.sold"

// TicketSoldEvent is published after a sale commits. It carries enough
// information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type TicketSoldEvent struct {
	SaleID          int64   `json:"sale_id"`
	MovieID         int64   `json:"movie_id"`
	MovieTitle      string  `json:"movie_title"`
	CustomerName    string  `json:"customer_name"`
	NumberOfTickets int     `json:"number_of_tickets"`
	Total           float64 `json:"total"`
	SoldAt          string  `json:"sold_at"`
}

// Publisher sends events to a RabbitMQ broker. A fresh connection is
// dialed per publish; sale volume is a few per second at most and this
// keeps the publisher free of connection state to recover.
type Publisher struct {
	url    string
	logger *log.Logger
}

// NewPublisher returns a publisher for the given AMQP URL.
func NewPublisher(url string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{url: url, logger: logger}
}

// PublishTicketSold delivers the event to the ticket.sold queue with a
// persistent delivery mode so it survives broker restarts.
func (p *Publisher) PublishTicketSold(ctx context.Context, ev TicketSoldEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Printf("events: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Printf("events: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so consumers and publisher can start in any order.
	if _, err := ch.QueueDeclare(TicketSoldQueue, true, false, false, false, nil); err != nil {
		p.logger.Printf("events: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Printf("events: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", TicketSoldQueue, false, false, pub); err != nil {
		p.logger.Printf("events: publish failed: %v", err)
		return err
	}
	return nil
}
