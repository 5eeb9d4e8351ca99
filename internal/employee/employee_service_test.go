package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junicoVilela/people-flow-api-sub000/internal/employee"
	employeeerrors "github.com/junicoVilela/people-flow-api-sub000/internal/employee/errors"
	employeeMock "github.com/junicoVilela/people-flow-api-sub000/internal/employee/mock"
	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	kafka "github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka"
	kafkaMock "github.com/junicoVilela/people-flow-api-sub000/internal/messaging/kafka/mock"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/apperror"
	"github.com/junicoVilela/people-flow-api-sub000/internal/shared/contextutil"
	counterMock "github.com/junicoVilela/people-flow-api-sub000/internal/shared/counter/mock"
)

type recordingDispatcher struct {
	dispatched []events.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, evts ...events.Event) {
	d.dispatched = append(d.dispatched, evts...)
}

type serviceFixture struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	bus       *recordingDispatcher
	rdb       *redis.Client
	redisMock redismock.ClientMock
	service   employee.Service
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)

	rdb, redisMock := redismock.NewClientMock()

	f := &serviceFixture{
		db:        db,
		sqlMock:   sqlMock,
		repo:      employeeMock.NewMockRepository(ctrl),
		counter:   counterMock.NewMockRepository(ctrl),
		outbox:    kafkaMock.NewMockOutboxRepository(ctrl),
		bus:       &recordingDispatcher{},
		rdb:       rdb,
		redisMock: redisMock,
	}

	// The repositories hand back themselves when rebound onto a transaction
	// so the gomock expectations keep applying.
	f.repo.EXPECT().WithTx(gomock.Any()).Return(f.repo).AnyTimes()
	f.outbox.EXPECT().WithTx(gomock.Any()).Return(f.outbox).AnyTimes()

	f.service = employee.NewService(db, f.repo, f.counter, f.outbox, f.bus, rdb, zap.NewNop())
	return f
}

func activeEmployee(tenantID, companyID uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:                 uuid.New(),
		Name:               "Maria Silva",
		TaxID:              validTaxID,
		Email:              "maria@x.com",
		RegistrationNumber: "EMP-000001",
		HireDate:           time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:             employee.StatusActive,
		TenantID:           tenantID,
		CompanyID:          companyID,
	}
}

func TestService_Admit_DispatchesAfterCommit(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	companyID := uuid.New()

	f.counter.EXPECT().
		GetNextValue(ctx, tenantID.String(), "registration_number").
		Return(int64(7), nil)

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, emp *employee.Employee) error {
			assert.Equal(t, "EMP-000007", emp.RegistrationNumber)
			assert.Equal(t, employee.StatusActive, emp.Status)
			return nil
		})
	f.outbox.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, evt kafka.OutboxEvent) error {
			assert.Equal(t, "employee", evt.AggregateType)
			assert.Equal(t, string(events.KindEmployeeCreated), evt.EventType)
			assert.Equal(t, events.EmployeeLifecycleTopic, evt.Topic)
			return nil
		})
	f.sqlMock.ExpectCommit()
	f.redisMock.ExpectDel(employee.GetEmployeeOptionsKey(tenantID.String())).SetVal(1)

	resp, err := f.service.Admit(ctx, tenantID.String(), employee.AdmitEmployeeRequest{
		Name:                 "Maria Silva",
		TaxID:                validTaxID,
		Email:                "maria@x.com",
		CompanyID:            companyID.String(),
		RequiresSystemAccess: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)

	require.Len(t, f.bus.dispatched, 1)
	created, ok := f.bus.dispatched[0].(events.EmployeeCreated)
	require.True(t, ok)
	assert.True(t, created.RequiresSystemAccess)
	assert.Equal(t, "maria@x.com", created.Email)

	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestService_Admit_InvalidTaxIDNeverTouchesStorage(t *testing.T) {
	f := setupServiceTest(t)

	_, err := f.service.Admit(context.Background(), uuid.NewString(), employee.AdmitEmployeeRequest{
		Name:               "Maria Silva",
		TaxID:              "11111111111",
		Email:              "maria@x.com",
		RegistrationNumber: "EMP-000001",
		CompanyID:          uuid.NewString(),
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CPF_INVALIDO", appErr.Code)
	assert.Empty(t, f.bus.dispatched)
}

func TestService_Terminate_DateBeforeHireRollsBack(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID.String(), emp.ID.String()).
		Return(emp, nil)
	f.sqlMock.ExpectRollback()

	_, err := f.service.Terminate(ctx, tenantID.String(), emp.ID.String(), employee.TerminateEmployeeRequest{
		TerminationDate: "2024-01-10",
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATA_DEMISSAO_INVALIDA", appErr.Code)

	assert.Empty(t, f.bus.dispatched, "nothing may reach the bus on rollback")
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestService_Terminate_Success(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID.String(), emp.ID.String()).
		Return(emp, nil)
	f.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, next *employee.Employee) error {
			assert.Equal(t, employee.StatusTerminated, next.Status)
			require.NotNil(t, next.TerminationDate)
			return nil
		})
	f.outbox.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, evt kafka.OutboxEvent) error {
			assert.Equal(t, string(events.KindEmployeeTerminated), evt.EventType)
			return nil
		})
	f.sqlMock.ExpectCommit()
	f.redisMock.ExpectDel(employee.GetEmployeeOptionsKey(tenantID.String())).SetVal(1)

	resp, err := f.service.Terminate(ctx, tenantID.String(), emp.ID.String(), employee.TerminateEmployeeRequest{
		TerminationDate: "2024-06-30",
	})

	require.NoError(t, err)
	assert.Equal(t, "TERMINATED", resp.Status)
	require.Len(t, f.bus.dispatched, 1)
	assert.Equal(t, events.KindEmployeeTerminated, f.bus.dispatched[0].Kind())
}

func TestService_Deactivate_CommitFailureSuppressesDispatch(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID.String(), emp.ID.String()).
		Return(emp, nil)
	f.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	f.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.sqlMock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	_, err := f.service.Deactivate(ctx, tenantID.String(), emp.ID.String())

	require.Error(t, err)
	assert.Empty(t, f.bus.dispatched, "a failed commit must discard buffered events")
}

func TestService_Delete_ThenReactivateGuards(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())

	// Reactivating an employee that is not deleted fails before any write.
	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID.String(), emp.ID.String()).
		Return(emp, nil)
	f.sqlMock.ExpectRollback()

	_, err := f.service.Reactivate(ctx, tenantID.String(), emp.ID.String(), employee.ReactivateEmployeeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, employeeerrors.ErrReactivationRequiresDeleted)
	assert.Empty(t, f.bus.dispatched)
}

func TestService_GetOptions_CacheMissLoadsAndStores(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())
	key := employee.GetEmployeeOptionsKey(tenantID.String())

	f.repo.EXPECT().
		FindAllByTenant(ctx, tenantID.String()).
		Return([]employee.Employee{*emp}, nil)

	f.redisMock.ExpectGet(key).RedisNil()
	f.redisMock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetVal("OK")

	resp, err := f.service.GetOptions(ctx, tenantID.String())

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, emp.ID.String(), resp[0].ID)
}

func TestService_GetOptions_CacheHitSkipsDatabase(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())
	key := employee.GetEmployeeOptionsKey(tenantID.String())

	cached := []employee.EmployeeResponse{{ID: emp.ID.String(), Name: emp.Name, Status: "ACTIVE"}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	f.redisMock.ExpectGet(key).SetVal(string(payload))

	resp, err := f.service.GetOptions(ctx, tenantID.String())

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, emp.ID.String(), resp[0].ID)
}

func TestService_LinkIdentity_IdempotentOnRedelivery(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	emp := activeEmployee(uuid.New(), uuid.New())
	identityID := "kc-1"
	emp.ExternalIdentityID = &identityID

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByID(ctx, emp.ID.String()).
		Return(emp, nil)
	f.sqlMock.ExpectRollback()

	err := f.service.LinkIdentity(ctx, emp.ID.String(), identityID)
	require.NoError(t, err, "re-applying the same identity id is a no-op")
}

func TestService_LinkIdentity_WritesOnFirstDelivery(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	emp := activeEmployee(uuid.New(), uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByID(ctx, emp.ID.String()).
		Return(emp, nil)
	f.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, next *employee.Employee) error {
			require.NotNil(t, next.ExternalIdentityID)
			assert.Equal(t, "kc-1", *next.ExternalIdentityID)
			return nil
		})
	f.sqlMock.ExpectCommit()

	err := f.service.LinkIdentity(ctx, emp.ID.String(), "kc-1")
	require.NoError(t, err)
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestService_Transfer_ClosesOriginalAndOpensNew(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	newCompanyID := uuid.New()
	emp := activeEmployee(tenantID, uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID.String(), emp.ID.String()).
		Return(emp, nil)
	f.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, closed *employee.Employee) error {
			assert.Equal(t, emp.ID, closed.ID)
			assert.Equal(t, employee.StatusTerminated, closed.Status)
			return nil
		})
	f.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, opened *employee.Employee) error {
			assert.NotEqual(t, emp.ID, opened.ID, "transfer opens a new engagement")
			assert.Equal(t, newCompanyID, opened.CompanyID)
			assert.Equal(t, employee.StatusActive, opened.Status)
			return nil
		})
	f.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	f.sqlMock.ExpectCommit()
	f.redisMock.ExpectDel(employee.GetEmployeeOptionsKey(tenantID.String())).SetVal(1)

	resp, err := f.service.Transfer(ctx, tenantID.String(), emp.ID.String(), employee.TransferEmployeeRequest{
		NewCompanyID: newCompanyID.String(),
		TransferDate: "2024-07-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	require.Len(t, f.bus.dispatched, 1)
	assert.Equal(t, events.KindEmployeeTransferred, f.bus.dispatched[0].Kind())
}

func TestService_LinkIdentity_UsesRequestScopedLogger(t *testing.T) {
	f := setupServiceTest(t)

	core, recorded := observer.New(zap.InfoLevel)
	ctx := contextutil.WithLogger(context.Background(), zap.New(core).With(
		zap.String("request_id", "req-42"),
	))

	emp := activeEmployee(uuid.New(), uuid.New())

	f.sqlMock.ExpectBegin()
	f.repo.EXPECT().FindByID(ctx, emp.ID.String()).Return(emp, nil)
	f.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	f.sqlMock.ExpectCommit()

	err := f.service.LinkIdentity(ctx, emp.ID.String(), "kc-9")
	require.NoError(t, err)

	entries := recorded.FilterMessage("external identity linked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}
