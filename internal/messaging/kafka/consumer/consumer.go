package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
)

// IdentityLinker writes the external identity id back onto the employee
// aggregate. The write must be idempotent: the topic is at-least-once and the
// same confirmation also arrives on the in-process bus.
type IdentityLinker interface {
	LinkIdentity(ctx context.Context, employeeID, identityID string) error
}

// ConsumeIdentityLinked reads identity confirmations and persists the
// employee-to-identity link. Messages are committed only after the link is
// stored, so a crash between the two replays the event instead of losing it.
func ConsumeIdentityLinked(
	ctx context.Context,
	reader *kafkago.Reader,
	linker IdentityLinker,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.identity_linked")
	log.Info("identity linked consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("identity linked consumer stopped")
				return
			}
			log.Error("fetch identity linked message failed", zap.Error(err))
			continue
		}

		var event events.IdentityLinked
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// A malformed message never becomes valid; commit and move on.
			log.Error("decode identity linked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := linker.LinkIdentity(ctx, event.EmployeeID, event.IdentityID); err != nil {
			log.Error("persist identity link failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("identity_id", event.IdentityID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit identity linked message failed", zap.Error(err))
			continue
		}

		log.Info("identity link persisted",
			zap.String("employee_id", event.EmployeeID),
			zap.String("identity_id", event.IdentityID),
		)
	}
}
