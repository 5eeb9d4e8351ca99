// Package events is the shared contract between the modules that raise
// employee lifecycle facts and the listeners that react to them. Consumers
// switch on Kind instead of inspecting concrete types by name, so the
// contract stays stable across module boundaries.
package events

import "time"

type Kind string

const (
	KindEmployeeCreated     Kind = "employee.created"
	KindEmployeeUpdated     Kind = "employee.updated"
	KindEmployeeActivated   Kind = "employee.activated"
	KindEmployeeDeactivated Kind = "employee.deactivated"
	KindEmployeeTerminated  Kind = "employee.terminated"
	KindEmployeeDeleted     Kind = "employee.deleted"
	KindEmployeeTransferred Kind = "employee.transferred"
	KindEmployeeImported    Kind = "employee.imported"
	KindEmployeeReactivated Kind = "employee.reactivated"
	KindIdentityLinked      Kind = "identity.linked"
)

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"
	IdentityLinkedTopic    = "hr.identity.linked.v1"
)

// Event is a committed, immutable fact. Delivery is at-least-once once the
// fact leaves the process, so every handler must be idempotent.
type Event interface {
	Kind() Kind
	AggregateID() string
	At() time.Time
}

type EmployeeCreated struct {
	EmployeeID           string    `json:"employee_id"`
	EmployeeName         string    `json:"employee_name"`
	Email                string    `json:"email"`
	TaxID                string    `json:"tax_id"`
	TenantID             string    `json:"tenant_id"`
	CompanyID            string    `json:"company_id"`
	DepartmentID         *string   `json:"department_id,omitempty"`
	JobRoleID            *string   `json:"job_role_id,omitempty"`
	RequiresSystemAccess bool      `json:"requires_system_access"`
	RequestID            string    `json:"request_id,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}

func (e EmployeeCreated) Kind() Kind          { return KindEmployeeCreated }
func (e EmployeeCreated) AggregateID() string { return e.EmployeeID }
func (e EmployeeCreated) At() time.Time       { return e.OccurredAt }

type EmployeeUpdated struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeUpdated) Kind() Kind          { return KindEmployeeUpdated }
func (e EmployeeUpdated) AggregateID() string { return e.EmployeeID }
func (e EmployeeUpdated) At() time.Time       { return e.OccurredAt }

type EmployeeActivated struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeActivated) Kind() Kind          { return KindEmployeeActivated }
func (e EmployeeActivated) AggregateID() string { return e.EmployeeID }
func (e EmployeeActivated) At() time.Time       { return e.OccurredAt }

type EmployeeDeactivated struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeDeactivated) Kind() Kind          { return KindEmployeeDeactivated }
func (e EmployeeDeactivated) AggregateID() string { return e.EmployeeID }
func (e EmployeeDeactivated) At() time.Time       { return e.OccurredAt }

type EmployeeTerminated struct {
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	TerminationDate time.Time `json:"termination_date"`
	RequestID       string    `json:"request_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (e EmployeeTerminated) Kind() Kind          { return KindEmployeeTerminated }
func (e EmployeeTerminated) AggregateID() string { return e.EmployeeID }
func (e EmployeeTerminated) At() time.Time       { return e.OccurredAt }

type EmployeeDeleted struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeDeleted) Kind() Kind          { return KindEmployeeDeleted }
func (e EmployeeDeleted) AggregateID() string { return e.EmployeeID }
func (e EmployeeDeleted) At() time.Time       { return e.OccurredAt }

type EmployeeTransferred struct {
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	NewCompanyID    string    `json:"new_company_id"`
	NewDepartmentID *string   `json:"new_department_id,omitempty"`
	TransferDate    time.Time `json:"transfer_date"`
	RequestID       string    `json:"request_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (e EmployeeTransferred) Kind() Kind          { return KindEmployeeTransferred }
func (e EmployeeTransferred) AggregateID() string { return e.EmployeeID }
func (e EmployeeTransferred) At() time.Time       { return e.OccurredAt }

type EmployeeImported struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	LegacyStatus string    `json:"legacy_status"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeImported) Kind() Kind          { return KindEmployeeImported }
func (e EmployeeImported) AggregateID() string { return e.EmployeeID }
func (e EmployeeImported) At() time.Time       { return e.OccurredAt }

type EmployeeReactivated struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	NewHireDate  time.Time `json:"new_hire_date"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e EmployeeReactivated) Kind() Kind          { return KindEmployeeReactivated }
func (e EmployeeReactivated) AggregateID() string { return e.EmployeeID }
func (e EmployeeReactivated) At() time.Time       { return e.OccurredAt }

// IdentityLinked confirms that an external identity was created or linked for
// an employee. It closes the provisioning loop via the reverse-link handler.
type IdentityLinked struct {
	IdentityID string    `json:"identity_id"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e IdentityLinked) Kind() Kind          { return KindIdentityLinked }
func (e IdentityLinked) AggregateID() string { return e.EmployeeID }
func (e IdentityLinked) At() time.Time       { return e.OccurredAt }
