package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	ShopCartCreated = "shopcart_created"
	ShopCartUpdated = "shopcart_updated"
	ShopCartDeleted = "shopcart_deleted"
	ShopCartCleared = "shopcart_cleared"
	ItemCreated     = "item_created"
	ItemUpdated     = "item_updated"
	ItemDeleted     = "item_deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ShopCartID uint      `json:"shopcart_id"`
	CustomerID *int      `json:"customer_id,omitempty"`
	ItemID     *uint     `json:"item_id,omitempty"`
	ProductID  *int      `json:"product_id,omitempty"`
	Quantity   *int      `json:"quantity,omitempty"`
	Price      string    `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType string, shopCartID uint) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ShopCartID: shopCartID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Key() string {
	return fmt.Sprint(e.ShopCartID)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{writer: w}, nil
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }
