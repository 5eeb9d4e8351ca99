package provisioning

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
)

// LifecycleSyncer keeps the provider account's enabled flag in step with the
// employee's status. Identities are resolved by the employeeId attribute
// rather than the locally stored link, which may lag behind provisioning.
type LifecycleSyncer struct {
	gateway identity.Gateway
	logger  *zap.Logger
}

func NewLifecycleSyncer(gateway identity.Gateway, logger ...*zap.Logger) *LifecycleSyncer {
	l := zap.L().Named("provisioning.lifecycle")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioning.lifecycle")
	}
	return &LifecycleSyncer{gateway: gateway, logger: l}
}

// HandleLifecycleEvent runs on the worker pool for activated, deactivated,
// terminated, deleted and reactivated events. Gateway failures never
// propagate past this handler.
func (s *LifecycleSyncer) HandleLifecycleEvent(ctx context.Context, evt events.Event) {
	log := s.logger.With(
		zap.String("employee_id", evt.AggregateID()),
		zap.String("kind", string(evt.Kind())),
	)

	identityID, found, err := s.resolve(ctx, evt.AggregateID())
	if err != nil {
		log.Error("identity lookup failed", zap.Error(err))
		return
	}
	if !found {
		// Normal for employees without system access.
		log.Info("no identity found for employee, skipping sync")
		return
	}

	switch evt.Kind() {
	case events.KindEmployeeDeactivated, events.KindEmployeeTerminated, events.KindEmployeeDeleted:
		if err := s.gateway.Disable(ctx, identityID); err != nil {
			log.Error("failed to disable identity", zap.String("identity_id", identityID), zap.Error(err))
			return
		}
		log.Info("identity disabled", zap.String("identity_id", identityID))

	case events.KindEmployeeActivated:
		if err := s.gateway.Enable(ctx, identityID); err != nil {
			log.Error("failed to enable identity", zap.String("identity_id", identityID), zap.Error(err))
			return
		}
		log.Info("identity enabled", zap.String("identity_id", identityID))

	case events.KindEmployeeReactivated:
		if err := s.gateway.Enable(ctx, identityID); err != nil {
			log.Error("failed to enable identity", zap.String("identity_id", identityID), zap.Error(err))
			return
		}
		stamp := evt.At().UTC().Format(time.RFC3339)
		if err := s.gateway.SetAttribute(ctx, identityID, identity.AttrReactivatedAt, stamp); err != nil {
			log.Error("failed to stamp reactivation", zap.String("identity_id", identityID), zap.Error(err))
			return
		}
		log.Info("identity reactivated", zap.String("identity_id", identityID))

	default:
		log.Warn("lifecycle handler received unhandled event kind")
	}
}

func (s *LifecycleSyncer) resolve(ctx context.Context, employeeID string) (string, bool, error) {
	matches, err := s.gateway.FindByAttribute(ctx, identity.AttrEmployeeID, employeeID)
	if err != nil {
		return "", false, err
	}
	if len(matches) == 0 {
		return "", false, nil
	}

	if len(matches) > 1 {
		s.logger.Warn("multiple identities share one employee id, using first",
			zap.String("employee_id", employeeID),
			zap.Int("count", len(matches)),
		)
	}
	return matches[0].ID, true, nil
}
