package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// QueueManager publishes ledger events to a durable RabbitMQ queue.
type QueueManager struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     *config.QueueConfig
	logger  *zap.Logger
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	conn, err := amqp.Dial(cfg.ConnectionURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a queue channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	return &QueueManager{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger.With(zap.String("module", "queue")),
	}, nil
}

// PushLedgerEvent publishes one emitted fact. Events are published after
// the operation has committed; a failure here is surfaced to the caller
// for counting, never for rollback.
func (qm *QueueManager) PushLedgerEvent(ctx context.Context, event *types.LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType, err)
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	err = qm.channel.PublishWithContext(
		ctx,
		"", // default exchange
		qm.cfg.QueueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType, err)
	}

	qm.logger.Debug("published ledger event",
		zap.String("event_type", event.EventType.String()),
		zap.String("address", event.Address),
	)
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	qm.logger.Info("shutting down queue manager")
	if err := qm.channel.Close(); err != nil {
		qm.logger.Error("failed to close queue channel", zap.Error(err))
	}
	if err := qm.conn.Close(); err != nil {
		qm.logger.Error("failed to close queue connection", zap.Error(err))
	}
}
