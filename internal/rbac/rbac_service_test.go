package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepo struct{}

func (m *mockRepo) GetEmployeeRoles(tenantID string) ([]EmployeeRoleRow, error) {
	if tenantID != "tenant-1" {
		return nil, nil
	}
	return []EmployeeRoleRow{
		{EmployeeID: "emp-1", RoleID: "role-admin"},
	}, nil
}

func (m *mockRepo) GetRolePermissions(tenantID string) ([]RolePermissionRow, error) {
	if tenantID != "tenant-1" {
		return nil, nil
	}
	return []RolePermissionRow{
		{RoleID: "role-admin", Resource: "employee", Action: "read"},
	}, nil
}

func (m *mockRepo) ListRoles(string) ([]RoleRow, error)                 { return nil, nil }
func (m *mockRepo) GetRoleByID(string) (*RoleRow, error)                { return nil, nil }
func (m *mockRepo) GetRoleByName(string, string) (*RoleRow, error)      { return nil, nil }
func (m *mockRepo) CreateRole(*RoleRow) error                           { return nil }
func (m *mockRepo) UpdateRole(*RoleRow) error                           { return nil }
func (m *mockRepo) DeleteRole(string) error                             { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)           { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(string, []string) error { return nil }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer, zap.NewNop())

	err := service.LoadTenantPolicy("tenant-1")
	assert.NoError(t, err)

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		TenantID:   "tenant-1",
		Resource:   "employee",
		Action:     "read",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		TenantID:   "tenant-1",
		Resource:   "payroll",
		Action:     "delete",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_EnforceDeniesForeignTenant(t *testing.T) {
	service := NewService(&mockRepo{}, newTestEnforcer(t), zap.NewNop())

	allowed, err := service.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		TenantID:   "tenant-other",
		Resource:   "employee",
		Action:     "read",
	})

	assert.NoError(t, err)
	// Grouping policy is tenant scoped, membership in tenant-1 grants
	// nothing elsewhere.
	assert.False(t, allowed)
}
