package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"

	employeeerrors "github.com/junicoVilela/people-flow-api-sub000/internal/employee/errors"
)

// Transition table:
//
//	Active/Inactive            -> Deactivate  -> Inactive
//	Active/Inactive            -> Activate    -> Active
//	Active/Inactive            -> Terminate   -> Terminated  (date >= hire date)
//	Active/Inactive/Terminated -> Delete      -> Deleted
//	Deleted                    -> Reactivate  -> Active      (hire date not in the future)
//
// Terminated employees cannot go back to Active through Activate; leaving
// Terminated requires Delete followed by Reactivate, or a new admission.

const legacyRegistrationPrefix = "LEG-"

type AdmissionParams struct {
	Name               string
	TaxID              string
	Email              string
	RegistrationNumber string
	HireDate           *time.Time
	TenantID           uuid.UUID
	CompanyID          uuid.UUID
	DepartmentID       *uuid.UUID
	CostCenterID       *uuid.UUID
	JobRoleID          *uuid.UUID
}

// NewAdmission builds an Active employee for the ordinary hiring flow. The
// hire date defaults to today.
func NewAdmission(p AdmissionParams) (Employee, error) {
	taxID, email, err := validateIdentification(p.Name, p.TaxID, p.Email, p.TenantID, p.CompanyID)
	if err != nil {
		return Employee{}, err
	}

	hireDate := today()
	if p.HireDate != nil {
		hireDate = dateOnly(*p.HireDate)
	}

	return Employee{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(p.Name),
		TaxID:              taxID.String(),
		Email:              email.String(),
		RegistrationNumber: p.RegistrationNumber,
		HireDate:           hireDate,
		Status:             StatusActive,
		TenantID:           p.TenantID,
		CompanyID:          p.CompanyID,
		DepartmentID:       p.DepartmentID,
		CostCenterID:       p.CostCenterID,
		JobRoleID:          p.JobRoleID,
	}, nil
}

// ByTransfer starts a new engagement for an active employee under another
// company, preserving personal data and the external identity link while
// swapping the organizational placement.
func ByTransfer(
	original Employee,
	newCompanyID uuid.UUID,
	newDepartmentID, newCostCenterID *uuid.UUID,
	date *time.Time,
) (Employee, error) {
	if original.Status != StatusActive {
		return Employee{}, employeeerrors.ErrTransferNotAllowed
	}

	transferDate := today()
	if date != nil {
		transferDate = dateOnly(*date)
	}
	if transferDate.Before(dateOnly(original.HireDate)) {
		return Employee{}, employeeerrors.ErrTransferDateBeforeHire
	}

	transferred := original
	transferred.ID = uuid.New()
	transferred.CompanyID = newCompanyID
	transferred.DepartmentID = newDepartmentID
	transferred.CostCenterID = newCostCenterID
	transferred.HireDate = transferDate
	transferred.TerminationDate = nil
	transferred.Status = StatusActive
	return transferred, nil
}

// legacyStatusTable translates payroll-provider status flags. Unknown values
// fall back to Active; the caller is expected to flag the lossy default.
var legacyStatusTable = map[string]Status{
	"ACTIVE":   StatusActive,
	"A":        StatusActive,
	"1":        StatusActive,
	"INACTIVE": StatusInactive,
	"I":        StatusInactive,
	"0":        StatusInactive,
	"FIRED":    StatusTerminated,
	"D":        StatusTerminated,
	"2":        StatusTerminated,
	"DELETED":  StatusDeleted,
	"E":        StatusDeleted,
	"9":        StatusDeleted,
}

// TranslateLegacyStatus maps a legacy status flag to a Status. The second
// return reports whether the flag was recognized.
func TranslateLegacyStatus(legacy string) (Status, bool) {
	status, ok := legacyStatusTable[strings.ToUpper(strings.TrimSpace(legacy))]
	if !ok {
		return StatusActive, false
	}
	return status, true
}

// ByLegacyImport admits an employee migrated from the previous HR system.
// The hire date is mandatory and must not be in the future; the registration
// number is rewritten with a traceability prefix.
func ByLegacyImport(p AdmissionParams, legacyStatus string, hireDate time.Time) (Employee, bool, error) {
	taxID, email, err := validateIdentification(p.Name, p.TaxID, p.Email, p.TenantID, p.CompanyID)
	if err != nil {
		return Employee{}, false, err
	}

	hire := dateOnly(hireDate)
	if hire.After(today()) {
		return Employee{}, false, employeeerrors.ErrHireDateInFuture
	}

	status, recognized := TranslateLegacyStatus(legacyStatus)

	registration := p.RegistrationNumber
	if !strings.HasPrefix(registration, legacyRegistrationPrefix) {
		registration = legacyRegistrationPrefix + registration
	}

	imported := Employee{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(p.Name),
		TaxID:              taxID.String(),
		Email:              email.String(),
		RegistrationNumber: registration,
		HireDate:           hire,
		Status:             status,
		TenantID:           p.TenantID,
		CompanyID:          p.CompanyID,
		DepartmentID:       p.DepartmentID,
		CostCenterID:       p.CostCenterID,
		JobRoleID:          p.JobRoleID,
	}
	return imported, recognized, nil
}

// ByReactivation restores a deleted employee as a fresh Active engagement.
func ByReactivation(deleted Employee, newHireDate *time.Time) (Employee, error) {
	return deleted.Reactivate(newHireDate)
}

// Deactivate suspends the employee without ending the engagement.
func (e Employee) Deactivate() (Employee, error) {
	if e.Status != StatusActive && e.Status != StatusInactive {
		return Employee{}, employeeerrors.ErrInvalidTransition
	}

	out := e
	out.Status = StatusInactive
	return out, nil
}

// Activate resumes a suspended employee.
func (e Employee) Activate() (Employee, error) {
	if e.Status == StatusDeleted {
		return Employee{}, employeeerrors.ErrAlreadyDeleted
	}
	if e.Status != StatusActive && e.Status != StatusInactive {
		return Employee{}, employeeerrors.ErrInvalidTransition
	}

	out := e
	out.Status = StatusActive
	return out, nil
}

// Terminate ends the engagement on the given date.
func (e Employee) Terminate(date time.Time) (Employee, error) {
	if e.Status == StatusTerminated {
		return Employee{}, employeeerrors.ErrAlreadyTerminated
	}
	if e.Status != StatusActive && e.Status != StatusInactive {
		return Employee{}, employeeerrors.ErrInvalidTransition
	}

	termination := dateOnly(date)
	if termination.Before(dateOnly(e.HireDate)) {
		return Employee{}, employeeerrors.ErrTerminationBeforeHire
	}

	out := e
	out.Status = StatusTerminated
	out.TerminationDate = &termination
	return out, nil
}

// Delete removes the employee logically. The row stays; only the status
// changes.
func (e Employee) Delete() (Employee, error) {
	if e.Status == StatusDeleted {
		return Employee{}, employeeerrors.ErrAlreadyDeleted
	}

	out := e
	out.Status = StatusDeleted
	return out, nil
}

// Reactivate restores a deleted employee. The new hire date defaults to
// today and must not be in the future; any previous termination is cleared.
func (e Employee) Reactivate(newHireDate *time.Time) (Employee, error) {
	if e.Status != StatusDeleted {
		return Employee{}, employeeerrors.ErrReactivationRequiresDeleted
	}

	hire := today()
	if newHireDate != nil {
		hire = dateOnly(*newHireDate)
	}
	if hire.After(today()) {
		return Employee{}, employeeerrors.ErrHireDateInFuture
	}

	out := e
	out.Status = StatusActive
	out.HireDate = hire
	out.TerminationDate = nil
	return out, nil
}

// LinkExternalIdentity records the id of the provisioned identity. The
// employee only holds a weak reference; re-applying the same id is a no-op.
func (e Employee) LinkExternalIdentity(identityID string) (Employee, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return Employee{}, employeeerrors.ErrBlankIdentityID
	}

	out := e
	out.ExternalIdentityID = &identityID
	return out, nil
}

func validateIdentification(
	name, rawTaxID, rawEmail string,
	tenantID, companyID uuid.UUID,
) (TaxID, Email, error) {
	if strings.TrimSpace(name) == "" || tenantID == uuid.Nil || companyID == uuid.Nil {
		return "", "", employeeerrors.ErrMissingRequiredFields
	}

	taxID, err := NewTaxID(rawTaxID)
	if err != nil {
		return "", "", err
	}

	email, err := NewEmail(rawEmail)
	if err != nil {
		return "", "", err
	}

	return taxID, email, nil
}

func today() time.Time {
	return dateOnly(time.Now().UTC())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
