package jobrole

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/tenant"
)

//go:generate mockgen -source=jobrole_repo.go -destination=mock/jobrole_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, role *JobRole) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]JobRole, error)
	FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*JobRole, error)
	Update(ctx context.Context, role *JobRole) error
	Delete(ctx context.Context, tenantID string, id string) error
	ReplaceIdentityRoles(ctx context.Context, jobRoleID string, roleNames []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, role *JobRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]JobRole, error) {
	var roles []JobRole
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("IdentityRoles").
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*JobRole, error) {
	var role JobRole
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Preload("IdentityRoles").
		Where("id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) Update(ctx context.Context, role *JobRole) error {
	return r.db.WithContext(ctx).
		Omit("IdentityRoles").
		Save(role).Error
}

func (r *repository) Delete(ctx context.Context, tenantID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&JobRole{}).Error
}

// ReplaceIdentityRoles swaps the full mapping in place. Callers run it inside
// the same transaction as the job role write.
func (r *repository) ReplaceIdentityRoles(ctx context.Context, jobRoleID string, roleNames []string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("job_role_id = ?", jobRoleID).Delete(&IdentityRole{}).Error; err != nil {
		return err
	}

	if len(roleNames) == 0 {
		return nil
	}

	for _, name := range roleNames {
		if name == "" {
			continue
		}
		if err := db.Exec(
			"INSERT INTO job_role_identity_roles (job_role_id, role_name) VALUES (?, ?)",
			jobRoleID, name,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
