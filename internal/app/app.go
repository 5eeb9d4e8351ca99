package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
	"github.com/junicoVilela/people-flow-api-sub000/internal/middleware"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/connection"
)

// BuildApp connects the infrastructure, wires every module and registers the
// HTTP routes. The returned cleanup stops the event worker pool and closes
// the Kafka writer; call it after the HTTP server has drained.
func BuildApp(router *gin.Engine, logger *zap.Logger) (func(), error) {
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
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("redis connection established")

	// The Kafka writer is optional for the API process: without it the
	// outbox still gates every export, only the identity-linked mirror is
	// skipped.
	var kafkaWriter *kafkago.Writer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		kafkaWriter, err = connection.ConnectKafkaWithRetry(broker, 5)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		logger.Info("kafka connection established")
	}

	pool := eventbus.NewPool(envInt("EVENTBUS_WORKERS", defaultPoolWorkers), envInt("EVENTBUS_QUEUE", 256), logger)
	bus := eventbus.NewBus(pool, logger)

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(logger))

	if err := registerModules(router, db, gormDB, rdb, bus, kafkaWriter, logger); err != nil {
		return nil, err
	}

	drainGrace := time.Duration(envInt("EVENTBUS_DRAIN_GRACE", 10)) * time.Second
	cleanup := func() {
		pool.Shutdown(drainGrace)
		if kafkaWriter != nil {
			_ = kafkaWriter.Close()
		}
	}
	return cleanup, nil
}

// defaultPoolWorkers is small and bounded on purpose: provisioning calls out
// to the identity provider, which rate limits admin API traffic.
const defaultPoolWorkers = 4

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
