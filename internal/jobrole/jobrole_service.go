package jobrole

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
)

var ErrJobRoleNotFound = apperror.New(
	apperror.CodeNotFound,
	"Job role not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=jobrole_service.go -destination=mock/jobrole_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateJobRoleRequest) (JobRoleResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]JobRoleResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (JobRoleResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateJobRoleRequest) (JobRoleResponse, error)
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
	req CreateJobRoleRequest,
) (JobRoleResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return JobRoleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return JobRoleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	role := &JobRole{
		ID:       uuid.New(),
		Name:     req.Name,
		TenantID: tenantUUID,
	}

	if err := qtx.Create(ctx, role); err != nil {
		return JobRoleResponse{}, err
	}
	if err := qtx.ReplaceIdentityRoles(ctx, role.ID.String(), req.IdentityRoles); err != nil {
		return JobRoleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return JobRoleResponse{}, err
	}

	return mapToResponse(*role, req.IdentityRoles), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]JobRoleResponse, error) {
	roles, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	res := make([]JobRoleResponse, len(roles))
	for i, role := range roles {
		res[i] = mapToResponse(role, roleNames(role))
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (JobRoleResponse, error) {
	role, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JobRoleResponse{}, ErrJobRoleNotFound
		}
		return JobRoleResponse{}, err
	}
	return mapToResponse(*role, roleNames(*role)), nil
}

func (s *service) Update(
	ctx context.Context,
	tenantID, id string,
	req UpdateJobRoleRequest,
) (JobRoleResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return JobRoleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	role, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JobRoleResponse{}, ErrJobRoleNotFound
		}
		return JobRoleResponse{}, err
	}

	role.Name = req.Name

	if err := qtx.Update(ctx, role); err != nil {
		return JobRoleResponse{}, err
	}
	if err := qtx.ReplaceIdentityRoles(ctx, role.ID.String(), req.IdentityRoles); err != nil {
		return JobRoleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return JobRoleResponse{}, err
	}

	return mapToResponse(*role, req.IdentityRoles), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.ReplaceIdentityRoles(ctx, id, nil); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return tx.Commit()
}

func roleNames(role JobRole) []string {
	names := make([]string, len(role.IdentityRoles))
	for i, r := range role.IdentityRoles {
		names[i] = r.RoleName
	}
	return names
}

func mapToResponse(role JobRole, identityRoles []string) JobRoleResponse {
	if identityRoles == nil {
		identityRoles = []string{}
	}
	return JobRoleResponse{
		ID:            role.ID.String(),
		TenantID:      role.TenantID.String(),
		Name:          role.Name,
		IdentityRoles: identityRoles,
	}
}
