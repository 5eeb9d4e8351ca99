package costcenter

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/tenant"
)

//go:generate mockgen -source=costcenter_repo.go -destination=mock/costcenter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cc *CostCenter) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]CostCenter, error)
	FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*CostCenter, error)
	Update(ctx context.Context, cc *CostCenter) error
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

func (r *repository) Create(ctx context.Context, cc *CostCenter) error {
	return r.db.WithContext(ctx).Create(cc).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]CostCenter, error) {
	var ccs []CostCenter
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("code ASC").
		Find(&ccs).Error
	return ccs, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID string, id string) (*CostCenter, error) {
	var cc CostCenter
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&cc).Error
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (r *repository) Update(ctx context.Context, cc *CostCenter) error {
	return r.db.WithContext(ctx).Save(cc).Error
}

func (r *repository) Delete(ctx context.Context, tenantID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&CostCenter{}).Error
}
