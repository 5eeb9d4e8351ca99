package company

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

var ErrCompanyNotFound = apperror.New(
	apperror.CodeNotFound,
	"Company not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateCompanyRequest) (CompanyResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]CompanyResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (CompanyResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateCompanyRequest) (CompanyResponse, error)
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
	req CreateCompanyRequest,
) (CompanyResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return CompanyResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	comp := &Company{
		ID:        uuid.New(),
		Name:      req.Name,
		LegalName: req.LegalName,
		TaxID:     req.TaxID,
		TenantID:  tenantUUID,
	}

	if err := s.repo.WithTx(tx).Create(ctx, comp); err != nil {
		return CompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	return mapToResponse(*comp), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]CompanyResponse, error) {
	comps, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	res := make([]CompanyResponse, len(comps))
	for i, c := range comps {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (CompanyResponse, error) {
	comp, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*comp), nil
}

func (s *service) Update(
	ctx context.Context,
	tenantID, id string,
	req UpdateCompanyRequest,
) (CompanyResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	comp, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	comp.Name = req.Name
	comp.LegalName = req.LegalName

	if err := qtx.Update(ctx, comp); err != nil {
		return CompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	return mapToResponse(*comp), nil
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

func mapToResponse(comp Company) CompanyResponse {
	return CompanyResponse{
		ID:        comp.ID.String(),
		TenantID:  comp.TenantID.String(),
		Name:      comp.Name,
		LegalName: comp.LegalName,
		TaxID:     comp.TaxID,
	}
}
