package company

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/tenant"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, comp *Company) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]Company, error)
	FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*Company, error)
	Update(ctx context.Context, comp *Company) error
	Delete(ctx context.Context, tenantID string, id string) error
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

func (r *repository) Create(ctx context.Context, comp *Company) error {
	return r.db.WithContext(ctx).Create(comp).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]Company, error) {
	var comps []Company
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&comps).Error
	return comps, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*Company, error) {
	var comp Company
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&comp).Error
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

func (r *repository) Update(ctx context.Context, comp *Company) error {
	return r.db.WithContext(ctx).Save(comp).Error
}

func (r *repository) Delete(ctx context.Context, tenantID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&Company{}).Error
}
