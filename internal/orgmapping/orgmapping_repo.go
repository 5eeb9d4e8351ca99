// Package orgmapping resolves organisational structure into identity
// provider grants: job roles map to realm role names, departments map to a
// provider group.
package orgmapping

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=orgmapping_repo.go -destination=mock/orgmapping_repo_mock.go -package=mock

// RoleMapping yields the provider role names configured for a job role. An
// empty slice means no mapping exists; callers treat that as a no-op.
type RoleMapping interface {
	RolesForJobRole(ctx context.Context, tenantID, jobRoleID string) ([]string, error)
}

// DepartmentGroup yields the provider group id configured for a department.
// ok is false when the department has no group configured.
type DepartmentGroup interface {
	GroupForDepartment(ctx context.Context, tenantID, departmentID string) (groupID string, ok bool, err error)
}

type Repository interface {
	RoleMapping
	DepartmentGroup
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RolesForJobRole(ctx context.Context, tenantID, jobRoleID string) ([]string, error) {
	var names []string

	err := r.db.WithContext(ctx).
		Table("job_role_identity_roles").
		Select("job_role_identity_roles.role_name").
		Joins("JOIN job_roles ON job_roles.id = job_role_identity_roles.job_role_id").
		Where("job_role_identity_roles.job_role_id = ?", jobRoleID).
		Where("job_roles.tenant_id = ?", tenantID).
		Order("job_role_identity_roles.role_name ASC").
		Scan(&names).Error

	return names, err
}

func (r *repository) GroupForDepartment(ctx context.Context, tenantID, departmentID string) (string, bool, error) {
	var groupID *string

	err := r.db.WithContext(ctx).
		Table("departments").
		Select("identity_group_id").
		Where("id = ?", departmentID).
		Where("tenant_id = ?", tenantID).
		Scan(&groupID).Error
	if err != nil {
		return "", false, err
	}

	if groupID == nil || *groupID == "" {
		return "", false, nil
	}
	return *groupID, true, nil
}
