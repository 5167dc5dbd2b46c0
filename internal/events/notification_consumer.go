package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/notification"
	"github.com/portlink/terminal-booking/pkg/kafka"
)

// NotificationConsumer listens to booking events and materializes
// notification records for the affected carrier.
type NotificationConsumer struct {
	consumer *kafka.Consumer
	repo     notification.Repository
	logger   *zap.Logger
}

// NewNotificationConsumer creates a NotificationConsumer.
func NewNotificationConsumer(
	brokers []string,
	groupID string,
	repo notification.Repository,
	logger *zap.Logger,
) *NotificationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &NotificationConsumer{
		consumer: consumer,
		repo:     repo,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case DriverAssigned:
		return c.handleDriverAssigned(ctx, cloudEvent)
	case BookingConsumed:
		return c.handleBookingConsumed(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) handleDriverAssigned(ctx context.Context, ce kafka.CloudEvent) error {
	var evt DriverAssignedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse driver assigned event", zap.Error(err))
		return nil
	}

	msg := fmt.Sprintf("A driver has been assigned to your booking for %s", evt.Date)
	n := notification.New(evt.CarrierID, notification.TypeGeneric, msg, &evt.BookingID)
	if err := c.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save assignment notification: %w", err)
	}
	return nil
}

func (c *NotificationConsumer) handleBookingConsumed(ctx context.Context, ce kafka.CloudEvent) error {
	var evt BookingConsumedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse booking consumed event", zap.Error(err))
		return nil
	}

	n := notification.New(evt.CarrierID, notification.TypeGeneric,
		"Your booking has been completed at the terminal", &evt.BookingID)
	if err := c.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save consumption notification: %w", err)
	}
	return nil
}
