package provisioning

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
)

// EventPublisher closes the provisioning loop: the IdentityLinked
// confirmation goes back through the bus so the reverse-link handler can
// write the identity id onto the aggregate.
type EventPublisher interface {
	Dispatch(ctx context.Context, evts ...events.Event)
}

// Provisioner handles the created event for employees flagged as needing
// system access. The steps after the identity exists are each fault-isolated:
// a failed role assignment still lets the group assignment, the notification
// and the link confirmation run.
type Provisioner struct {
	gateway  identity.Gateway
	assigner *AutoAssigner
	bus      EventPublisher
	logger   *zap.Logger
}

func NewProvisioner(
	gateway identity.Gateway,
	assigner *AutoAssigner,
	bus EventPublisher,
	logger ...*zap.Logger,
) *Provisioner {
	l := zap.L().Named("provisioning.provisioner")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioning.provisioner")
	}
	return &Provisioner{
		gateway:  gateway,
		assigner: assigner,
		bus:      bus,
		logger:   l,
	}
}

// HandleEmployeeCreated runs on the worker pool. It never returns an error
// to the bus; provisioning failures are logged and dropped.
func (p *Provisioner) HandleEmployeeCreated(ctx context.Context, evt events.Event) {
	created, ok := evt.(events.EmployeeCreated)
	if !ok {
		p.logger.Error("unexpected event payload", zap.String("kind", string(evt.Kind())))
		return
	}

	if !created.RequiresSystemAccess {
		p.logger.Debug("employee does not require system access, skipping",
			zap.String("employee_id", created.EmployeeID),
		)
		return
	}

	log := p.logger.With(
		zap.String("employee_id", created.EmployeeID),
		zap.String("email", created.Email),
		zap.String("request_id", created.RequestID),
	)

	identityID, err := p.ensureIdentity(ctx, created, log)
	if err != nil {
		log.Error("identity provisioning failed", zap.Error(err))
		return
	}

	p.assigner.AssignAll(ctx, identityID, created.TenantID, created.JobRoleID, created.DepartmentID)

	if err := p.gateway.SendCredentialSetupNotification(ctx, identityID); err != nil {
		log.Warn("credential setup notification failed", zap.Error(err))
	}

	p.bus.Dispatch(ctx, events.IdentityLinked{
		IdentityID: identityID,
		EmployeeID: created.EmployeeID,
		Email:      created.Email,
		RequestID:  created.RequestID,
		OccurredAt: created.OccurredAt,
	})
}

// ensureIdentity finds an identity that already uses the employee's email as
// username and links it, or creates a fresh one. The link-only path covers
// accounts that predate the employee record.
func (p *Provisioner) ensureIdentity(ctx context.Context, created events.EmployeeCreated, log *zap.Logger) (string, error) {
	username := created.Email

	existing, err := p.gateway.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if existing != nil {
		if err := p.gateway.SetAttribute(ctx, existing.ID, identity.AttrEmployeeID, created.EmployeeID); err != nil {
			return "", err
		}
		log.Info("linked pre-existing identity", zap.String("identity_id", existing.ID))
		return existing.ID, nil
	}

	firstName, lastName := splitName(created.EmployeeName)
	attrs := map[string]string{
		identity.AttrEmployeeID: created.EmployeeID,
		identity.AttrTaxID:      created.TaxID,
	}
	if created.CompanyID != "" {
		attrs[identity.AttrCompanyID] = created.CompanyID
	}

	identityID, err := p.gateway.CreateIdentity(ctx, username, created.Email, firstName, lastName, attrs)
	if err != nil {
		return "", err
	}

	log.Info("identity created", zap.String("identity_id", identityID))
	return identityID, nil
}

// splitName takes the first token as first name and everything after it as
// last name. Single-token names get an empty last name.
func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
