// Package events provides NATS event publishing for stock-service
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

const streamName = "STOCK_EVENTS"

// Event subjects
const (
	SubjectMovementRecorded = "stock.movement.recorded"
	SubjectRefillCompleted  = "stock.refill.completed"
	SubjectLowStock         = "stock.alert.low_stock"
)

// StockEvent is the envelope published for every stock domain event
type StockEvent struct {
	EventType string    `json:"eventType"`
	SocietyID uuid.UUID `json:"societyId"`
	Timestamp time.Time `json:"timestamp"`

	StockItemID   uuid.UUID  `json:"stockItemId"`
	StockItemName string     `json:"stockItemName,omitempty"`
	MovementType  string     `json:"movementType,omitempty"`
	Quantity      int        `json:"quantity,omitempty"`
	CurrentStock  int        `json:"currentStock"`
	MinimumStock  int        `json:"minimumStock,omitempty"`
	RefillID      *uuid.UUID `json:"refillId,omitempty"`
}

// Publisher publishes stock events to NATS JetStream. A nil *Publisher is
// safe to use; publishing then becomes a no-op so the service keeps working
// without a broker.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the stock stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithField("component", "stock-events")

	nc, err := nats.Connect(natsURL,
		nats.Name("stock-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			entry.WithField("url", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			entry.WithError(err).Warn("Disconnected from NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"stock.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		entry.WithError(err).Warn("Failed to ensure stock stream exists")
	}

	return &Publisher{nc: nc, js: js, logger: entry}, nil
}

// PublishMovementRecorded publishes a stock.movement.recorded event
func (p *Publisher) PublishMovementRecorded(ctx context.Context, societyID, itemID uuid.UUID, itemName, movementType string, quantity, currentStock int) {
	p.publish(ctx, SubjectMovementRecorded, StockEvent{
		EventType:     SubjectMovementRecorded,
		SocietyID:     societyID,
		Timestamp:     time.Now(),
		StockItemID:   itemID,
		StockItemName: itemName,
		MovementType:  movementType,
		Quantity:      quantity,
		CurrentStock:  currentStock,
	})
}

// PublishRefillCompleted publishes a stock.refill.completed event
func (p *Publisher) PublishRefillCompleted(ctx context.Context, societyID, itemID, refillID uuid.UUID, itemName string, quantity, currentStock int) {
	p.publish(ctx, SubjectRefillCompleted, StockEvent{
		EventType:     SubjectRefillCompleted,
		SocietyID:     societyID,
		Timestamp:     time.Now(),
		StockItemID:   itemID,
		StockItemName: itemName,
		Quantity:      quantity,
		CurrentStock:  currentStock,
		RefillID:      &refillID,
	})
}

// PublishLowStock publishes a stock.alert.low_stock event when a take leaves
// an item at or below its minimum
func (p *Publisher) PublishLowStock(ctx context.Context, societyID, itemID uuid.UUID, itemName string, currentStock, minimumStock int) {
	p.publish(ctx, SubjectLowStock, StockEvent{
		EventType:     SubjectLowStock,
		SocietyID:     societyID,
		Timestamp:     time.Now(),
		StockItemID:   itemID,
		StockItemName: itemName,
		CurrentStock:  currentStock,
		MinimumStock:  minimumStock,
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, event StockEvent) {
	if p == nil || p.js == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal stock event")
		return
	}

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.logger.WithFields(logrus.Fields{
			"subject":     subject,
			"stockItemId": event.StockItemID,
		}).WithError(err).Error("Failed to publish stock event")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"subject":     subject,
		"stockItemId": event.StockItemID,
	}).Debug("Published stock event")
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
