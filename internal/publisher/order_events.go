// Package publisher emits order-placed events for downstream integrations
// (fulfillment, studio scheduling, CRM). Checkout treats the callout as
// fire-and-forget: a publish failure is logged and never reverses the order.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

type eventItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderPlacedEvent struct {
	OrderID       string      `json:"order_id"`
	OwnerID       string      `json:"owner_id"`
	ReferenceCode string      `json:"reference_code"`
	TotalAmount   float64     `json:"total_amount"`
	Items         []eventItem `json:"items"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-placed",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	msg, err := newOrderPlacedMessage(order, items)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newOrderPlacedMessage(order *domain.Order, items []domain.OrderItem) (kafka.Message, error) {
	event := OrderPlacedEvent{
		OrderID:       order.ID.String(),
		OwnerID:       order.OwnerID,
		ReferenceCode: order.ReferenceCode,
		TotalAmount:   order.TotalAmount,
		Items:         make([]eventItem, 0, len(items)),
	}
	for _, item := range items {
		event.Items = append(event.Items, eventItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order placed event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(order.ID.String()), // order_id for partition ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
	}, nil
}
