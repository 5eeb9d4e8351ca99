package provisioning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/junicoVilela/people-flow-api-sub000/internal/events"
	"github.com/junicoVilela/people-flow-api-sub000/internal/identity"
)

type fakeGateway struct {
	mu sync.Mutex

	existing map[string]identity.Identity // by username
	byAttr   map[string][]identity.Identity

	createErr       error
	assignRolesErr  error
	addToGroupErr   error
	disableErr      error
	notificationErr error

	createdUsernames []string
	createdAttrs     map[string]string
	setAttrs         map[string]string
	assignedRoles    []string
	groupsJoined     []string
	enabled          []string
	disabled         []string
	notified         []string
	calls            int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		existing:     map[string]identity.Identity{},
		byAttr:       map[string][]identity.Identity{},
		createdAttrs: map[string]string{},
		setAttrs:     map[string]string{},
	}
}

func (g *fakeGateway) CreateIdentity(_ context.Context, username, _, _, _ string, attrs map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.createErr != nil {
		return "", g.createErr
	}
	g.createdUsernames = append(g.createdUsernames, username)
	for k, v := range attrs {
		g.createdAttrs[k] = v
	}
	return "kc-new-id", nil
}

func (g *fakeGateway) FindByUsername(_ context.Context, username string) (*identity.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if found, ok := g.existing[username]; ok {
		return &found, nil
	}
	return nil, nil
}

func (g *fakeGateway) FindByAttribute(_ context.Context, _, value string) ([]identity.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.byAttr[value], nil
}

func (g *fakeGateway) Enable(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.enabled = append(g.enabled, id)
	return nil
}

func (g *fakeGateway) Disable(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.disableErr != nil {
		return g.disableErr
	}
	g.disabled = append(g.disabled, id)
	return nil
}

func (g *fakeGateway) SetAttribute(_ context.Context, id, name, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.setAttrs[id+"/"+name] = value
	return nil
}

func (g *fakeGateway) AssignRoles(_ context.Context, _ string, roleNames []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.assignRolesErr != nil {
		return g.assignRolesErr
	}
	g.assignedRoles = append(g.assignedRoles, roleNames...)
	return nil
}

func (g *fakeGateway) AddToGroup(_ context.Context, _, groupID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.addToGroupErr != nil {
		return g.addToGroupErr
	}
	g.groupsJoined = append(g.groupsJoined, groupID)
	return nil
}

func (g *fakeGateway) SendCredentialSetupNotification(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.notificationErr != nil {
		return g.notificationErr
	}
	g.notified = append(g.notified, id)
	return nil
}

type fakeRoleMapping struct {
	roles map[string][]string
	err   error
}

func (m *fakeRoleMapping) RolesForJobRole(_ context.Context, _, jobRoleID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[jobRoleID], nil
}

type fakeDepartmentGroup struct {
	groups map[string]string
	err    error
}

func (m *fakeDepartmentGroup) GroupForDepartment(_ context.Context, _, departmentID string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	groupID, ok := m.groups[departmentID]
	return groupID, ok, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *fakePublisher) Dispatch(_ context.Context, evts ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, evts...)
}

type fakeLinker struct {
	mu    sync.Mutex
	links map[string]string
	err   error
	calls int
}

func (l *fakeLinker) LinkIdentity(_ context.Context, employeeID, identityID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return l.err
	}
	if l.links == nil {
		l.links = map[string]string{}
	}
	l.links[employeeID] = identityID
	return nil
}

func strPtr(s string) *string { return &s }

func createdEvent() events.EmployeeCreated {
	return events.EmployeeCreated{
		EmployeeID:           "emp-1",
		EmployeeName:         "Maria Silva",
		Email:                "maria@x.com",
		TaxID:                "52998224725",
		TenantID:             "tenant-1",
		CompanyID:            "company-1",
		DepartmentID:         strPtr("dep-5"),
		JobRoleID:            strPtr("role-1"),
		RequiresSystemAccess: true,
		OccurredAt:           time.Now(),
	}
}

func newProvisionerUnderTest(gw *fakeGateway, roles *fakeRoleMapping, groups *fakeDepartmentGroup, pub *fakePublisher) *Provisioner {
	assigner := NewAutoAssigner(gw, roles, groups, zap.NewNop())
	return NewProvisioner(gw, assigner, pub, zap.NewNop())
}

func TestProvisioner_CreatesAssignsAndConfirms(t *testing.T) {
	gw := newFakeGateway()
	roles := &fakeRoleMapping{roles: map[string][]string{"role-1": {"r:create", "r:read"}}}
	groups := &fakeDepartmentGroup{groups: map[string]string{"dep-5": "g-456"}}
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, roles, groups, pub)

	p.HandleEmployeeCreated(context.Background(), createdEvent())

	assert.Equal(t, []string{"maria@x.com"}, gw.createdUsernames)
	assert.Equal(t, "emp-1", gw.createdAttrs[identity.AttrEmployeeID])
	assert.Equal(t, "52998224725", gw.createdAttrs[identity.AttrTaxID])
	assert.Equal(t, "company-1", gw.createdAttrs[identity.AttrCompanyID])
	assert.Equal(t, []string{"r:create", "r:read"}, gw.assignedRoles)
	assert.Equal(t, []string{"g-456"}, gw.groupsJoined)
	assert.Equal(t, []string{"kc-new-id"}, gw.notified)

	require.Len(t, pub.published, 1)
	linked, ok := pub.published[0].(events.IdentityLinked)
	require.True(t, ok)
	assert.Equal(t, "kc-new-id", linked.IdentityID)
	assert.Equal(t, "emp-1", linked.EmployeeID)
	assert.Equal(t, "maria@x.com", linked.Email)
}

func TestProvisioner_NoAccessRequired_NoGatewayCalls(t *testing.T) {
	gw := newFakeGateway()
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, &fakeRoleMapping{}, &fakeDepartmentGroup{}, pub)

	evt := createdEvent()
	evt.RequiresSystemAccess = false
	p.HandleEmployeeCreated(context.Background(), evt)

	assert.Zero(t, gw.calls)
	assert.Empty(t, pub.published)
}

func TestProvisioner_LinkOnlyPathForExistingIdentity(t *testing.T) {
	gw := newFakeGateway()
	gw.existing["maria@x.com"] = identity.Identity{ID: "kc-existing", Username: "maria@x.com"}
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, &fakeRoleMapping{}, &fakeDepartmentGroup{}, pub)

	p.HandleEmployeeCreated(context.Background(), createdEvent())

	assert.Empty(t, gw.createdUsernames, "must not create a second identity")
	assert.Equal(t, "emp-1", gw.setAttrs["kc-existing/"+identity.AttrEmployeeID])

	require.Len(t, pub.published, 1)
	linked := pub.published[0].(events.IdentityLinked)
	assert.Equal(t, "kc-existing", linked.IdentityID)
}

func TestProvisioner_CreateFailureStopsEverything(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = identity.ErrConflict
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, &fakeRoleMapping{}, &fakeDepartmentGroup{}, pub)

	p.HandleEmployeeCreated(context.Background(), createdEvent())

	assert.Empty(t, gw.assignedRoles)
	assert.Empty(t, gw.notified)
	assert.Empty(t, pub.published)
}

func TestProvisioner_RoleFailureDoesNotBlockGroupNotificationOrConfirmation(t *testing.T) {
	gw := newFakeGateway()
	gw.assignRolesErr = errors.New("role endpoint down")
	roles := &fakeRoleMapping{roles: map[string][]string{"role-1": {"r:create"}}}
	groups := &fakeDepartmentGroup{groups: map[string]string{"dep-5": "g-456"}}
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, roles, groups, pub)

	p.HandleEmployeeCreated(context.Background(), createdEvent())

	assert.Empty(t, gw.assignedRoles)
	assert.Equal(t, []string{"g-456"}, gw.groupsJoined)
	assert.Equal(t, []string{"kc-new-id"}, gw.notified)
	assert.Len(t, pub.published, 1)
}

func TestProvisioner_NotificationFailureStillConfirmsLink(t *testing.T) {
	gw := newFakeGateway()
	gw.notificationErr = errors.New("smtp down")
	pub := &fakePublisher{}
	p := newProvisionerUnderTest(gw, &fakeRoleMapping{}, &fakeDepartmentGroup{}, pub)

	p.HandleEmployeeCreated(context.Background(), createdEvent())

	assert.Len(t, pub.published, 1)
}

func TestAutoAssigner_EmptyRoleMappingIsNoOpButGroupStillRuns(t *testing.T) {
	gw := newFakeGateway()
	roles := &fakeRoleMapping{roles: map[string][]string{}}
	groups := &fakeDepartmentGroup{groups: map[string]string{"dep-5": "g-456"}}
	assigner := NewAutoAssigner(gw, roles, groups, zap.NewNop())

	assigner.AssignAll(context.Background(), "kc-1", "tenant-1", strPtr("role-unmapped"), strPtr("dep-5"))

	assert.Empty(t, gw.assignedRoles)
	assert.Equal(t, []string{"g-456"}, gw.groupsJoined)
}

func TestAutoAssigner_NilPlacementSkipsBothAssignments(t *testing.T) {
	gw := newFakeGateway()
	assigner := NewAutoAssigner(gw, &fakeRoleMapping{}, &fakeDepartmentGroup{}, zap.NewNop())

	assigner.AssignAll(context.Background(), "kc-1", "tenant-1", nil, nil)

	assert.Zero(t, gw.calls)
}

func TestLifecycleSyncer_DisablesOnTermination(t *testing.T) {
	gw := newFakeGateway()
	gw.byAttr["emp-1"] = []identity.Identity{{ID: "kc-1"}}
	s := NewLifecycleSyncer(gw, zap.NewNop())

	s.HandleLifecycleEvent(context.Background(), events.EmployeeTerminated{
		EmployeeID:      "emp-1",
		TerminationDate: time.Now(),
		OccurredAt:      time.Now(),
	})

	assert.Equal(t, []string{"kc-1"}, gw.disabled)
}

func TestLifecycleSyncer_MissingIdentityIsSkippedWithoutError(t *testing.T) {
	gw := newFakeGateway()
	s := NewLifecycleSyncer(gw, zap.NewNop())

	s.HandleLifecycleEvent(context.Background(), events.EmployeeDeactivated{
		EmployeeID: "emp-unknown",
		OccurredAt: time.Now(),
	})

	assert.Empty(t, gw.disabled)
	assert.Empty(t, gw.enabled)
}

func TestLifecycleSyncer_EnableOnActivation(t *testing.T) {
	gw := newFakeGateway()
	gw.byAttr["emp-1"] = []identity.Identity{{ID: "kc-1"}}
	s := NewLifecycleSyncer(gw, zap.NewNop())

	s.HandleLifecycleEvent(context.Background(), events.EmployeeActivated{
		EmployeeID: "emp-1",
		OccurredAt: time.Now(),
	})

	assert.Equal(t, []string{"kc-1"}, gw.enabled)
	assert.Empty(t, gw.setAttrs)
}

func TestLifecycleSyncer_ReactivationStampsAttribute(t *testing.T) {
	gw := newFakeGateway()
	gw.byAttr["emp-1"] = []identity.Identity{{ID: "kc-1"}}
	s := NewLifecycleSyncer(gw, zap.NewNop())

	occurred := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	s.HandleLifecycleEvent(context.Background(), events.EmployeeReactivated{
		EmployeeID:  "emp-1",
		NewHireDate: occurred,
		OccurredAt:  occurred,
	})

	assert.Equal(t, []string{"kc-1"}, gw.enabled)
	assert.Equal(t, "2026-03-15T09:30:00Z", gw.setAttrs["kc-1/"+identity.AttrReactivatedAt])
}

func TestLifecycleSyncer_DisableFailureDoesNotPanicOrPropagate(t *testing.T) {
	gw := newFakeGateway()
	gw.byAttr["emp-1"] = []identity.Identity{{ID: "kc-1"}}
	gw.disableErr = errors.New("gateway down")
	s := NewLifecycleSyncer(gw, zap.NewNop())

	assert.NotPanics(t, func() {
		s.HandleLifecycleEvent(context.Background(), events.EmployeeDeleted{
			EmployeeID: "emp-1",
			OccurredAt: time.Now(),
		})
	})
}

func TestReverseLinker_PersistsLink(t *testing.T) {
	linker := &fakeLinker{}
	r := NewReverseLinker(linker, zap.NewNop())

	evt := events.IdentityLinked{IdentityID: "kc-1", EmployeeID: "emp-1", Email: "maria@x.com", OccurredAt: time.Now()}
	r.HandleIdentityLinked(context.Background(), evt)
	r.HandleIdentityLinked(context.Background(), evt)

	assert.Equal(t, "kc-1", linker.links["emp-1"])
	assert.Equal(t, 2, linker.calls, "redelivery reaches the idempotent writer unchanged")
}

func TestReverseLinker_WriteFailureIsSwallowed(t *testing.T) {
	linker := &fakeLinker{err: errors.New("db down")}
	r := NewReverseLinker(linker, zap.NewNop())

	assert.NotPanics(t, func() {
		r.HandleIdentityLinked(context.Background(), events.IdentityLinked{
			IdentityID: "kc-1",
			EmployeeID: "emp-1",
			OccurredAt: time.Now(),
		})
	})
}
