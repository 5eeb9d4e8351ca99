package employee

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusTerminated Status = "TERMINATED"
	StatusDeleted    Status = "DELETED"
)

// Employee is the aggregate root for the employment relationship. Rows are
// never physically removed; delete is a status transition.
//
// All mutation goes through the transition methods in employee_aggregate.go,
// which return a modified copy. Holding an Employee value therefore never
// exposes shared mutable state.
type Employee struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name               string     `gorm:"size:255;not null"`
	TaxID              string     `gorm:"size:11;not null;uniqueIndex:uq_employee_tax_id"`
	Email              string     `gorm:"size:255;not null;uniqueIndex:uq_employee_email"`
	RegistrationNumber string     `gorm:"size:40"`
	HireDate           time.Time  `gorm:"not null"`
	TerminationDate    *time.Time
	Status             Status     `gorm:"size:20;not null"`
	TenantID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID       *uuid.UUID `gorm:"type:uuid"`
	CostCenterID       *uuid.UUID `gorm:"type:uuid"`
	JobRoleID          *uuid.UUID `gorm:"type:uuid"`
	ExternalIdentityID *string    `gorm:"size:64"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}
