package services

import (
	"encoding/json"
	"fmt"
	"time"

	"pasar/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers a JSON event body under a routing key.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	EventID        string             `json:"event_id"`
	Type           string             `json:"type"`
	OrderID        uint               `json:"order_id"`
	BuyerID        uint               `json:"buyer_id"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	ActorID        uint               `json:"actor_id"`
	ActorRole      models.Role        `json:"actor_role"`
	TotalPrice     decimal.Decimal    `json:"total_price"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// orderEvents publishes order events after the change has been committed.
// Publishing is best effort: failures are logged, never returned.
type orderEvents struct {
	publisher EventPublisher
	logger    *zap.Logger
}

func (e orderEvents) publish(eventType string, order *models.Order, previous models.OrderStatus, actor models.Actor) {
	if e.publisher == nil {
		e.logger.Debug("Event publisher is not configured, skipping order event",
			zap.String("type", eventType),
			zap.Uint("order_id", order.ID))
		return
	}

	event := OrderEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		OrderID:        order.ID,
		BuyerID:        order.BuyerID,
		Status:         order.Status,
		PreviousStatus: previous,
		ActorID:        actor.ID,
		ActorRole:      actor.Role,
		TotalPrice:     order.TotalPrice,
		OccurredAt:     time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("Failed to marshal order event", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}
	if err := e.publisher.Publish(eventType, body); err != nil {
		e.logger.Warn("Failed to publish order event",
			zap.String("type", eventType),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return
	}
	e.logger.Debug("Published order event",
		zap.String("type", eventType),
		zap.String("event_id", event.EventID),
		zap.Uint("order_id", order.ID))
}

// OrderEventLogger returns a consumer handler that records received order
// events in the log.
func OrderEventLogger(logger *zap.Logger) func(body []byte) error {
	return func(body []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode order event: %w", err)
		}
		logger.Info("Received order event",
			zap.String("type", event.Type),
			zap.String("event_id", event.EventID),
			zap.Uint("order_id", event.OrderID),
			zap.String("status", string(event.Status)),
			zap.String("previous_status", string(event.PreviousStatus)),
			zap.Uint("actor_id", event.ActorID))
		return nil
	}
}
