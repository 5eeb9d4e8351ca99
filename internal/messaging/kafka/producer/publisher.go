package producer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
)

func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}

// Publisher mirrors in-process events onto Kafka without going through the
// outbox table. It is used for facts produced outside a database transaction,
// where there is no row to gate the export on.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewPublisher(writer *kafkago.Writer, logger ...*zap.Logger) *Publisher {
	l := zap.L().Named("kafka.producer.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.publisher")
	}
	return &Publisher{writer: writer, logger: l}
}

// PublishDomainEvent writes evt to the given topic, keyed by aggregate id so
// all facts about one employee land on the same partition.
func (p *Publisher) PublishDomainEvent(ctx context.Context, topic string, evt events.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(evt.AggregateID()),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.Kind())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish domain event failed",
			zap.String("topic", topic),
			zap.String("event_type", string(evt.Kind())),
			zap.String("aggregate_id", evt.AggregateID()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
