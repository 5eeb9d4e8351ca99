package producer

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
)

const drainBatchSize = 50

// ProcessOutboxEvents polls the outbox table and exports committed events to
// Kafka until ctx is cancelled. Each tick drains full batches until the table
// has no due rows, so a burst clears in one cycle instead of one batch per
// poll interval. Failed rows stay behind with a bumped retry counter and come
// back once their backoff elapses.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			drainDueEvents(ctx, repo, writer, log)
		}
	}
}

func drainDueEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
) {
	for {
		events, err := repo.ListDue(ctx, drainBatchSize)
		if err != nil {
			logger.Error("list due outbox events failed", zap.Error(err))
			return
		}
		if len(events) == 0 {
			return
		}

		logger.Info("exporting outbox batch", zap.Int("count", len(events)))

		for _, event := range events {
			exportEvent(ctx, repo, writer, logger, event)
		}

		if len(events) < drainBatchSize {
			return
		}
	}
}

func exportEvent(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	event kafka.OutboxEvent,
) {
	if err := publishEvent(ctx, writer, event); err != nil {
		logger.Error("publish outbox event failed",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("retry_count", event.RetryCount),
			zap.Error(err),
		)
		if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			logger.Error("mark outbox failed errored",
				zap.String("outbox_id", event.ID),
				zap.Error(markErr),
			)
		}
		return
	}

	if err := repo.MarkSent(ctx, event.ID); err != nil {
		// The event reached Kafka but the bookkeeping did not; the row will
		// be picked up and published again, consumers must tolerate the dup.
		logger.Error("mark outbox sent failed",
			zap.String("outbox_id", event.ID),
			zap.Error(err),
		)
		return
	}

	logger.Info("outbox event sent",
		zap.String("outbox_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("topic", event.Topic),
	)
}
