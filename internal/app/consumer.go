package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/employee"
	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka/consumer"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/connection"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/counter"
)

// RunConsumer reads identity link confirmations from Kafka and writes them
// back onto the employee aggregate. It lets the link survive even when the
// in-process confirmation was lost to a crash.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	// The consumer only calls LinkIdentity, which raises no events, so a
	// bus with an idle pool keeps the service constructor satisfied.
	pool := eventbus.NewPool(1, 16, logger)
	defer pool.Shutdown(0)
	bus := eventbus.NewBus(pool, logger)

	employeeRepo := employee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	employeeService := employee.NewService(sqlDB, employeeRepo, counterRepo, outboxRepo, bus, nil, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.IdentityLinkedTopic,
		GroupID:        "people-flow-identity-link",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeIdentityLinked(ctx, reader, employeeService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
