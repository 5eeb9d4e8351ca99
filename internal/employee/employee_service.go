package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/junicoVilela/people-flow-api-sub000/internal/eventbus"
	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/contextutil"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/counter"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(tenantID string) string {
	return EmployeeOptionsKeyPrefix + tenantID
}

const dateLayout = "2006-01-02"

// EventDispatcher receives events that survived a commit. Satisfied by
// *eventbus.Bus.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evts ...events.Event)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Admit(ctx context.Context, tenantID string, req AdmitEmployeeRequest) (EmployeeResponse, error)
	Import(ctx context.Context, tenantID string, req ImportEmployeeRequest) (EmployeeResponse, error)
	Transfer(ctx context.Context, tenantID, id string, req TransferEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, tenantID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, tenantID, id string) (EmployeeResponse, error)
	Activate(ctx context.Context, tenantID, id string) (EmployeeResponse, error)
	Terminate(ctx context.Context, tenantID, id string, req TerminateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	Reactivate(ctx context.Context, tenantID, id string, req ReactivateEmployeeRequest) (EmployeeResponse, error)
	// LinkIdentity is the reverse-link write-back. It is idempotent so
	// redelivered IdentityLinked events leave the aggregate unchanged.
	LinkIdentity(ctx context.Context, employeeID, identityID string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	bus     EventDispatcher
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	bus EventDispatcher,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		bus:     bus,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Admit(
	ctx context.Context,
	tenantID string,
	req AdmitEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("admit employee requested",
		zap.String("tenant_id", tenantID),
		zap.String("email", req.Email),
		zap.Bool("requires_system_access", req.RequiresSystemAccess),
	)

	hireDate, err := parseOptionalDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	companyUUID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	registration := req.RegistrationNumber
	if registration == "" {
		nextVal, err := s.counter.GetNextValue(ctx, tenantID, "registration_number")
		if err != nil {
			log.Error("admit employee generate registration failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		registration = fmt.Sprintf("EMP-%06d", nextVal)
	}

	emp, err := NewAdmission(AdmissionParams{
		Name:               req.Name,
		TaxID:              req.TaxID,
		Email:              req.Email,
		RegistrationNumber: registration,
		HireDate:           hireDate,
		TenantID:           tenantUUID,
		CompanyID:          companyUUID,
		DepartmentID:       uuidPtr(req.DepartmentID),
		CostCenterID:       uuidPtr(req.CostCenterID),
		JobRoleID:          uuidPtr(req.JobRoleID),
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	created := events.EmployeeCreated{
		EmployeeID:           emp.ID.String(),
		EmployeeName:         emp.Name,
		Email:                emp.Email,
		TaxID:                emp.TaxID,
		TenantID:             tenantID,
		CompanyID:            emp.CompanyID.String(),
		DepartmentID:         req.DepartmentID,
		JobRoleID:            req.JobRoleID,
		RequiresSystemAccess: req.RequiresSystemAccess,
		RequestID:            rid,
		OccurredAt:           time.Now().UTC(),
	}

	if err := s.persistNew(ctx, &emp, created); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, tenantID)
	log.Info("admit employee success",
		zap.String("employee_id", emp.ID.String()),
	)

	return mapToResponse(emp), nil
}

func (s *service) Import(
	ctx context.Context,
	tenantID string,
	req ImportEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	hireDate, err := time.Parse(dateLayout, req.HireDate)
	if err != nil {
		return EmployeeResponse{}, errors.New("invalid hire_date format, expected YYYY-MM-DD")
	}

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	companyUUID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp, recognized, err := ByLegacyImport(AdmissionParams{
		Name:               req.Name,
		TaxID:              req.TaxID,
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
		TenantID:           tenantUUID,
		CompanyID:          companyUUID,
		DepartmentID:       uuidPtr(req.DepartmentID),
		CostCenterID:       uuidPtr(req.CostCenterID),
		JobRoleID:          uuidPtr(req.JobRoleID),
	}, req.LegacyStatus, hireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !recognized {
		log.Warn("legacy status not recognized, defaulted to active",
			zap.String("legacy_status", req.LegacyStatus),
			zap.String("tax_id", req.TaxID),
		)
	}

	imported := events.EmployeeImported{
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.Name,
		LegacyStatus: req.LegacyStatus,
		RequestID:    rid,
		OccurredAt:   time.Now().UTC(),
	}

	if err := s.persistNew(ctx, &emp, imported); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, tenantID)
	log.Info("import employee success",
		zap.String("employee_id", emp.ID.String()),
		zap.String("legacy_status", req.LegacyStatus),
	)

	return mapToResponse(emp), nil
}

func (s *service) Transfer(
	ctx context.Context,
	tenantID, id string,
	req TransferEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	transferDate, err := parseOptionalDate(req.TransferDate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	newCompanyUUID, err := uuid.Parse(req.NewCompanyID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	original, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	transferred, err := ByTransfer(
		*original,
		newCompanyUUID,
		uuidPtr(req.NewDepartmentID),
		uuidPtr(req.NewCostCenterID),
		transferDate,
	)
	if err != nil {
		return EmployeeResponse{}, err
	}

	// The original engagement ends on the transfer date; the new one starts
	// the same day under the new company. Both rows move in one unit of work.
	closed, err := original.Terminate(transferred.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, &closed); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := qtx.Create(ctx, &transferred); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	evt := events.EmployeeTransferred{
		EmployeeID:      transferred.ID.String(),
		EmployeeName:    transferred.Name,
		NewCompanyID:    transferred.CompanyID.String(),
		NewDepartmentID: req.NewDepartmentID,
		TransferDate:    transferred.HireDate,
		RequestID:       rid,
		OccurredAt:      time.Now().UTC(),
	}

	rec := eventbus.NewRecorder()
	rec.Record(evt)

	if err := s.writeOutbox(ctx, tx, evt, transferred.ID.String(), rid); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("transfer employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.bus.Dispatch(ctx, rec.Drain()...)
	s.invalidateOptionsCache(ctx, tenantID)
	log.Info("transfer employee success",
		zap.String("employee_id", transferred.ID.String()),
		zap.String("new_company_id", req.NewCompanyID),
	)

	return mapToResponse(transferred), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetOptions(ctx context.Context, tenantID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(tenantID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps a cache miss from hammering the database when many
	// admins open the same form at once.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindAllByTenant(ctx, tenantID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, 10*time.Minute).Err(); err != nil {
					s.logger.Warn("employee options cache set failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(
	ctx context.Context,
	tenantID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	email, err := NewEmail(req.Email)
	if err != nil {
		return EmployeeResponse{}, err
	}

	return s.mutate(ctx, tenantID, id, "update", func(current Employee) (Employee, events.Event, error) {
		updated := current
		updated.Name = req.Name
		updated.Email = email.String()
		updated.DepartmentID = uuidPtr(req.DepartmentID)
		updated.CostCenterID = uuidPtr(req.CostCenterID)
		updated.JobRoleID = uuidPtr(req.JobRoleID)

		evt := events.EmployeeUpdated{
			EmployeeID:   updated.ID.String(),
			EmployeeName: updated.Name,
			RequestID:    contextutil.GetRequestID(ctx),
			OccurredAt:   time.Now().UTC(),
		}
		return updated, evt, nil
	})
}

func (s *service) Deactivate(ctx context.Context, tenantID, id string) (EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, id, "deactivate", func(current Employee) (Employee, events.Event, error) {
		next, err := current.Deactivate()
		if err != nil {
			return Employee{}, nil, err
		}

		evt := events.EmployeeDeactivated{
			EmployeeID:   next.ID.String(),
			EmployeeName: next.Name,
			RequestID:    contextutil.GetRequestID(ctx),
			OccurredAt:   time.Now().UTC(),
		}
		return next, evt, nil
	})
}

func (s *service) Activate(ctx context.Context, tenantID, id string) (EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, id, "activate", func(current Employee) (Employee, events.Event, error) {
		next, err := current.Activate()
		if err != nil {
			return Employee{}, nil, err
		}

		evt := events.EmployeeActivated{
			EmployeeID:   next.ID.String(),
			EmployeeName: next.Name,
			RequestID:    contextutil.GetRequestID(ctx),
			OccurredAt:   time.Now().UTC(),
		}
		return next, evt, nil
	})
}

func (s *service) Terminate(
	ctx context.Context,
	tenantID, id string,
	req TerminateEmployeeRequest,
) (EmployeeResponse, error) {
	terminationDate, err := time.Parse(dateLayout, req.TerminationDate)
	if err != nil {
		return EmployeeResponse{}, errors.New("invalid termination_date format, expected YYYY-MM-DD")
	}

	return s.mutate(ctx, tenantID, id, "terminate", func(current Employee) (Employee, events.Event, error) {
		next, err := current.Terminate(terminationDate)
		if err != nil {
			return Employee{}, nil, err
		}

		evt := events.EmployeeTerminated{
			EmployeeID:      next.ID.String(),
			EmployeeName:    next.Name,
			TerminationDate: *next.TerminationDate,
			RequestID:       contextutil.GetRequestID(ctx),
			OccurredAt:      time.Now().UTC(),
		}
		return next, evt, nil
	})
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	_, err := s.mutate(ctx, tenantID, id, "delete", func(current Employee) (Employee, events.Event, error) {
		next, err := current.Delete()
		if err != nil {
			return Employee{}, nil, err
		}

		evt := events.EmployeeDeleted{
			EmployeeID:   next.ID.String(),
			EmployeeName: next.Name,
			RequestID:    contextutil.GetRequestID(ctx),
			OccurredAt:   time.Now().UTC(),
		}
		return next, evt, nil
	})
	return err
}

func (s *service) Reactivate(
	ctx context.Context,
	tenantID, id string,
	req ReactivateEmployeeRequest,
) (EmployeeResponse, error) {
	newHireDate, err := parseOptionalDate(req.NewHireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	return s.mutate(ctx, tenantID, id, "reactivate", func(current Employee) (Employee, events.Event, error) {
		next, err := current.Reactivate(newHireDate)
		if err != nil {
			return Employee{}, nil, err
		}

		evt := events.EmployeeReactivated{
			EmployeeID:   next.ID.String(),
			EmployeeName: next.Name,
			NewHireDate:  next.HireDate,
			RequestID:    contextutil.GetRequestID(ctx),
			OccurredAt:   time.Now().UTC(),
		}
		return next, evt, nil
	})
}

func (s *service) LinkIdentity(ctx context.Context, employeeID, identityID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByID(ctx, employeeID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if emp.ExternalIdentityID != nil && *emp.ExternalIdentityID == identityID {
		// Redelivered confirmation; nothing to write.
		return nil
	}

	linked, err := emp.LinkExternalIdentity(identityID)
	if err != nil {
		return err
	}

	if err := qtx.Update(ctx, &linked); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("external identity linked",
		zap.String("employee_id", employeeID),
		zap.String("identity_id", identityID),
	)
	return nil
}

// persistNew writes a freshly built aggregate plus its event in one unit of
// work and dispatches the event only after the commit.
func (s *service) persistNew(ctx context.Context, emp *Employee, evt events.Event) error {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, emp); err != nil {
		log.Error("persist employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	rec := eventbus.NewRecorder()
	rec.Record(evt)

	if err := s.writeOutbox(ctx, tx, evt, emp.ID.String(), rid); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.Error(err))
		return err
	}

	s.bus.Dispatch(ctx, rec.Drain()...)
	return nil
}

// mutate applies one guarded transition inside a unit of work. The event
// returned by fn reaches the bus only when the commit succeeds; on any error
// the deferred rollback discards both the row change and the event.
func (s *service) mutate(
	ctx context.Context,
	tenantID, id, op string,
	fn func(current Employee) (Employee, events.Event, error),
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin tx failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	next, evt, err := fn(*current)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, &next); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	rec := eventbus.NewRecorder()
	rec.Record(evt)

	if err := s.writeOutbox(ctx, tx, evt, next.ID.String(), rid); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.bus.Dispatch(ctx, rec.Drain()...)
	s.invalidateOptionsCache(ctx, tenantID)

	log.Info("employee operation success",
		zap.String("op", op),
		zap.String("employee_id", id),
	)

	return mapToResponse(next), nil
}

func (s *service) writeOutbox(
	ctx context.Context,
	tx *sql.Tx,
	evt events.Event,
	aggregateID, rid string,
) error {
	if s.outbox == nil {
		return nil
	}

	log := contextutil.GetLogger(ctx, s.logger)

	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error("marshal event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   aggregateID,
		EventType:     string(evt.Kind()),
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		log.Error("outbox persist failed",
			zap.String("employee_id", aggregateID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, tenantID string) {
	if s.rdb == nil {
		return
	}

	cacheKey := GetEmployeeOptionsKey(tenantID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func uuidPtr(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}

	parsed, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func mapToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                 emp.ID.String(),
		Name:               emp.Name,
		TaxID:              emp.TaxID,
		Email:              emp.Email,
		RegistrationNumber: emp.RegistrationNumber,
		HireDate:           emp.HireDate.Format(dateLayout),
		Status:             string(emp.Status),
		TenantID:           emp.TenantID.String(),
		CompanyID:          emp.CompanyID.String(),
		ExternalIdentityID: emp.ExternalIdentityID,
	}

	if emp.TerminationDate != nil {
		formatted := emp.TerminationDate.Format(dateLayout)
		resp.TerminationDate = &formatted
	}
	if emp.DepartmentID != nil {
		id := emp.DepartmentID.String()
		resp.DepartmentID = &id
	}
	if emp.CostCenterID != nil {
		id := emp.CostCenterID.String()
		resp.CostCenterID = &id
	}
	if emp.JobRoleID != nil {
		id := emp.JobRoleID.String()
		resp.JobRoleID = &id
	}

	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}
