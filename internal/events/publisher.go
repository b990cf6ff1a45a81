package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prudentjag/inventory-pos/domain"
)

// Publisher announces terminal payment results on the pos-sales topic so
// dashboards and reporting elsewhere know their cached sales/inventory data
// is stale. Publishing is best-effort; a broker outage never blocks the
// sale flow.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "pos-sales",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) PaymentConfirmed(ctx context.Context, sale domain.Sale) {
	p.publish(ctx, "sale.payment_confirmed", sale)
}

func (p *Publisher) PaymentFailed(ctx context.Context, sale domain.Sale) {
	p.publish(ctx, "sale.payment_failed", sale)
}

func (p *Publisher) PaymentUnresolved(ctx context.Context, sale domain.Sale) {
	p.publish(ctx, "sale.payment_unresolved", sale)
}

func (p *Publisher) publish(ctx context.Context, eventType string, sale domain.Sale) {
	payload, err := json.Marshal(map[string]interface{}{
		"sale_id":        sale.ID,
		"invoice_number": sale.InvoiceNumber,
		"total_amount":   sale.TotalAmount,
		"payment_status": sale.PaymentStatus,
		"observed_at":    time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal %v event for sale %v: %v", eventType, sale.Reference(), err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(sale.Reference()), // one sale's events stay ordered
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if errWrite := p.writer.WriteMessages(ctx, msg); errWrite != nil {
		log.Printf("failed to publish %v for sale %v: %v", eventType, sale.Reference(), errWrite)
	}
}
