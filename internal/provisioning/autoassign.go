// Package provisioning reacts to committed employee lifecycle facts by
// creating, linking, granting and disabling accounts at the identity
// provider. Every handler here swallows gateway failures at its own boundary;
// the employee operation that raised the event already succeeded and must not
// be affected by what happens on this side.
package provisioning

import (
	"context"

	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
	"github.com/junicoVilela/people-flow-api-sub000/internal/orgmapping"
)

// AutoAssigner grants realm roles and group membership derived from the
// employee's organisational placement.
type AutoAssigner struct {
	gateway identity.Gateway
	roles   orgmapping.RoleMapping
	groups  orgmapping.DepartmentGroup
	logger  *zap.Logger
}

func NewAutoAssigner(
	gateway identity.Gateway,
	roles orgmapping.RoleMapping,
	groups orgmapping.DepartmentGroup,
	logger ...*zap.Logger,
) *AutoAssigner {
	l := zap.L().Named("provisioning.autoassign")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("provisioning.autoassign")
	}
	return &AutoAssigner{
		gateway: gateway,
		roles:   roles,
		groups:  groups,
		logger:  l,
	}
}

// AssignRoles resolves the role mapping for the job role and bulk-assigns
// the result. An empty mapping is a warning, not an error.
func (a *AutoAssigner) AssignRoles(ctx context.Context, identityID, tenantID, jobRoleID string) error {
	roleNames, err := a.roles.RolesForJobRole(ctx, tenantID, jobRoleID)
	if err != nil {
		return err
	}

	if len(roleNames) == 0 {
		a.logger.Warn("no role mapping configured for job role",
			zap.String("job_role_id", jobRoleID),
			zap.String("identity_id", identityID),
		)
		return nil
	}

	if err := a.gateway.AssignRoles(ctx, identityID, roleNames); err != nil {
		return err
	}

	a.logger.Info("roles assigned",
		zap.String("identity_id", identityID),
		zap.Strings("roles", roleNames),
	)
	return nil
}

// AssignGroup adds the identity to the provider group mapped to the
// department. A department without a configured group is a no-op.
func (a *AutoAssigner) AssignGroup(ctx context.Context, identityID, tenantID, departmentID string) error {
	groupID, ok, err := a.groups.GroupForDepartment(ctx, tenantID, departmentID)
	if err != nil {
		return err
	}

	if !ok {
		a.logger.Warn("no group configured for department",
			zap.String("department_id", departmentID),
			zap.String("identity_id", identityID),
		)
		return nil
	}

	if err := a.gateway.AddToGroup(ctx, identityID, groupID); err != nil {
		return err
	}

	a.logger.Info("group assigned",
		zap.String("identity_id", identityID),
		zap.String("group_id", groupID),
	)
	return nil
}

// AssignAll runs the role and group assignments independently. A failure in
// one is logged and does not prevent the other.
func (a *AutoAssigner) AssignAll(ctx context.Context, identityID, tenantID string, jobRoleID, departmentID *string) {
	if jobRoleID != nil {
		if err := a.AssignRoles(ctx, identityID, tenantID, *jobRoleID); err != nil {
			a.logger.Error("role assignment failed",
				zap.String("identity_id", identityID),
				zap.String("job_role_id", *jobRoleID),
				zap.Error(err),
			)
		}
	}

	if departmentID != nil {
		if err := a.AssignGroup(ctx, identityID, tenantID, *departmentID); err != nil {
			a.logger.Error("group assignment failed",
				zap.String("identity_id", identityID),
				zap.String("department_id", *departmentID),
				zap.Error(err),
			)
		}
	}
}
