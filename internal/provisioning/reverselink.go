package provisioning

import (
	"context"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
)

// IdentityLinker is the write-back side of provisioning, satisfied by the
// employee service. The implementation must be idempotent because linked
// confirmations are delivered at least once.
type IdentityLinker interface {
	LinkIdentity(ctx context.Context, employeeID, identityID string) error
}

// ReverseLinker persists the provider identity id onto the employee record
// when an IdentityLinked confirmation arrives.
type ReverseLinker struct {
	employees IdentityLinker
	logger    *zap.Logger
}

func NewReverseLinker(employees IdentityLinker, logger ...*zap.Logger) *ReverseLinker {
	l := zap.L().Named("provisioning.reverselink")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioning.reverselink")
	}
	return &ReverseLinker{employees: employees, logger: l}
}

func (r *ReverseLinker) HandleIdentityLinked(ctx context.Context, evt events.Event) {
	linked, ok := evt.(events.IdentityLinked)
	if !ok {
		r.logger.Error("unexpected event payload", zap.String("kind", string(evt.Kind())))
		return
	}

	if err := r.employees.LinkIdentity(ctx, linked.EmployeeID, linked.IdentityID); err != nil {
		r.logger.Error("failed to persist identity link",
			zap.String("employee_id", linked.EmployeeID),
			zap.String("identity_id", linked.IdentityID),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("identity link persisted",
		zap.String("employee_id", linked.EmployeeID),
		zap.String("identity_id", linked.IdentityID),
	)
}
