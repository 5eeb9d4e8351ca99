package department_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/department"
	departmentMock "github.com/junicoVilela/people-flow-api-sub000/internal/department/mock"
)

func setupServiceTest(t *testing.T) (sqlmock.Sqlmock, *departmentMock.MockRepository, department.Service) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	repo := departmentMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()

	return sqlMock, repo, department.NewService(db, repo)
}

func TestDepartmentService_Create(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New().String()
	groupID := "engineering-group"

	sqlMock.ExpectBegin()
	repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, dept *department.Department) error {
			assert.Equal(t, "Engenharia", dept.Name)
			require.NotNil(t, dept.IdentityGroupID)
			assert.Equal(t, groupID, *dept.IdentityGroupID)
			return nil
		})
	sqlMock.ExpectCommit()

	resp, err := svc.Create(ctx, tenantID, department.CreateDepartmentRequest{
		Name:            "Engenharia",
		CompanyID:       uuid.New().String(),
		IdentityGroupID: &groupID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Engenharia", resp.Name)
	require.NotNil(t, resp.IdentityGroupID)
	assert.Equal(t, groupID, *resp.IdentityGroupID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDepartmentService_Update_ClearsIdentityGroup(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New().String()
	groupID := "old-group"
	dept := &department.Department{
		ID:              uuid.New(),
		Name:            "Engenharia",
		TenantID:        uuid.MustParse(tenantID),
		CompanyID:       uuid.New(),
		IdentityGroupID: &groupID,
	}

	sqlMock.ExpectBegin()
	repo.EXPECT().
		FindByIDAndTenant(ctx, tenantID, dept.ID.String()).
		Return(dept, nil)
	repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, next *department.Department) error {
			assert.Nil(t, next.IdentityGroupID, "omitting the group clears the placement")
			return nil
		})
	sqlMock.ExpectCommit()

	resp, err := svc.Update(ctx, tenantID, dept.ID.String(), department.UpdateDepartmentRequest{
		Name: "Engenharia de Software",
	})

	require.NoError(t, err)
	assert.Equal(t, "Engenharia de Software", resp.Name)
	assert.Nil(t, resp.IdentityGroupID)
}

func TestDepartmentService_GetByID_NotFound(t *testing.T) {
	_, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	repo.EXPECT().
		FindByIDAndTenant(ctx, gomock.Any(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
