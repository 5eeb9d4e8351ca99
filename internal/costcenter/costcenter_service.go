package costcenter

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

var ErrCostCenterNotFound = apperror.New(
	apperror.CodeNotFound,
	"Cost center not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=costcenter_service.go -destination=mock/costcenter_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateCostCenterRequest) (CostCenterResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]CostCenterResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (CostCenterResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateCostCenterRequest) (CostCenterResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	tenantID string,
	req CreateCostCenterRequest,
) (CostCenterResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return CostCenterResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CostCenterResponse{}, err
	}
	defer tx.Rollback()

	cc := &CostCenter{
		ID:       uuid.New(),
		Code:     req.Code,
		Name:     req.Name,
		TenantID: tenantUUID,
	}

	if err := s.repo.WithTx(tx).Create(ctx, cc); err != nil {
		return CostCenterResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CostCenterResponse{}, err
	}

	return mapToResponse(*cc), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]CostCenterResponse, error) {
	ccs, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	res := make([]CostCenterResponse, len(ccs))
	for i, cc := range ccs {
		res[i] = mapToResponse(cc)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (CostCenterResponse, error) {
	cc, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostCenterResponse{}, ErrCostCenterNotFound
		}
		return CostCenterResponse{}, err
	}
	return mapToResponse(*cc), nil
}

func (s *service) Update(
	ctx context.Context,
	tenantID, id string,
	req UpdateCostCenterRequest,
) (CostCenterResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CostCenterResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cc, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostCenterResponse{}, ErrCostCenterNotFound
		}
		return CostCenterResponse{}, err
	}

	cc.Code = req.Code
	cc.Name = req.Name

	if err := qtx.Update(ctx, cc); err != nil {
		return CostCenterResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CostCenterResponse{}, err
	}

	return mapToResponse(*cc), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return tx.Commit()
}

func mapToResponse(cc CostCenter) CostCenterResponse {
	return CostCenterResponse{
		ID:       cc.ID.String(),
		TenantID: cc.TenantID.String(),
		Code:     cc.Code,
		Name:     cc.Name,
	}
}
