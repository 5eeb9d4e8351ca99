package jobrole_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/junicoVilela/people-flow-api-sub000/internal/jobrole"
	jobroleMock "github.com/junicoVilela/people-flow-api-sub000/internal/jobrole/mock"
)

func setupServiceTest(t *testing.T) (sqlmock.Sqlmock, *jobroleMock.MockRepository, jobrole.Service) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	repo := jobroleMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()

	return sqlMock, repo, jobrole.NewService(db, repo)
}

func TestJobRoleService_Create_PersistsRoleMappingInSameTx(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New().String()

	sqlMock.ExpectBegin()
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, role *jobrole.JobRole) error {
			assert.Equal(t, "Analista de RH", role.Name)
			assert.Equal(t, tenantID, role.TenantID.String())
			return nil
		})
	repo.EXPECT().
		ReplaceIdentityRoles(gomock.Any(), gomock.Any(), []string{"hr-viewer", "hr-editor"}).
		Return(nil)
	sqlMock.ExpectCommit()

	res, err := svc.Create(ctx, tenantID, jobrole.CreateJobRoleRequest{
		Name:          "Analista de RH",
		IdentityRoles: []string{"hr-viewer", "hr-editor"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Analista de RH", res.Name)
	assert.Equal(t, []string{"hr-viewer", "hr-editor"}, res.IdentityRoles)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestJobRoleService_Create_MappingFailureRollsBack(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		ReplaceIdentityRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("insert failed"))
	sqlMock.ExpectRollback()

	_, err := svc.Create(ctx, uuid.New().String(), jobrole.CreateJobRoleRequest{
		Name:          "Gerente",
		IdentityRoles: []string{"hr-manager"},
	})

	assert.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestJobRoleService_Update_ReplacesRoleMapping(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	roleID := uuid.New()
	existing := &jobrole.JobRole{
		ID:       roleID,
		Name:     "Analista",
		TenantID: tenantID,
		IdentityRoles: []jobrole.IdentityRole{
			{JobRoleID: roleID, RoleName: "hr-viewer"},
		},
	}

	sqlMock.ExpectBegin()
	repo.EXPECT().
		FindByIDAndTenant(gomock.Any(), tenantID.String(), roleID.String()).
		Return(existing, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, role *jobrole.JobRole) error {
			assert.Equal(t, "Analista Senior", role.Name)
			return nil
		})
	repo.EXPECT().
		ReplaceIdentityRoles(gomock.Any(), roleID.String(), []string{"hr-editor"}).
		Return(nil)
	sqlMock.ExpectCommit()

	res, err := svc.Update(ctx, tenantID.String(), roleID.String(), jobrole.UpdateJobRoleRequest{
		Name:          "Analista Senior",
		IdentityRoles: []string{"hr-editor"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hr-editor"}, res.IdentityRoles)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestJobRoleService_GetByID_NotFound(t *testing.T) {
	_, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	repo.EXPECT().
		FindByIDAndTenant(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, jobrole.ErrJobRoleNotFound)
}

func TestJobRoleService_Delete_ClearsMappingFirst(t *testing.T) {
	sqlMock, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New().String()
	roleID := uuid.New().String()

	sqlMock.ExpectBegin()
	gomock.InOrder(
		repo.EXPECT().ReplaceIdentityRoles(gomock.Any(), roleID, nil).Return(nil),
		repo.EXPECT().Delete(gomock.Any(), tenantID, roleID).Return(nil),
	)
	sqlMock.ExpectCommit()

	err := svc.Delete(ctx, tenantID, roleID)

	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestJobRoleService_GetAll_FlattensRoleNames(t *testing.T) {
	_, repo, svc := setupServiceTest(t)
	ctx := context.Background()

	tenantID := uuid.New()
	roleID := uuid.New()
	repo.EXPECT().
		FindAllByTenant(gomock.Any(), tenantID.String()).
		Return([]jobrole.JobRole{
			{
				ID:       roleID,
				Name:     "Analista",
				TenantID: tenantID,
				IdentityRoles: []jobrole.IdentityRole{
					{JobRoleID: roleID, RoleName: "hr-viewer"},
					{JobRoleID: roleID, RoleName: "hr-editor"},
				},
			},
			{ID: uuid.New(), Name: "Estagiario", TenantID: tenantID},
		}, nil)

	res, err := svc.GetAll(ctx, tenantID.String())

	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []string{"hr-viewer", "hr-editor"}, res[0].IdentityRoles)
	assert.Equal(t, []string{}, res[1].IdentityRoles)
}

func TestJobRoleService_Create_InvalidTenantID(t *testing.T) {
	_, _, svc := setupServiceTest(t)

	_, err := svc.Create(context.Background(), "not-a-uuid", jobrole.CreateJobRoleRequest{Name: "X"})

	assert.Error(t, err)
}
