package employee

type AdmitEmployeeRequest struct {
	Name                 string  `json:"name" binding:"required"`
	TaxID                string  `json:"tax_id" binding:"required"`
	Email                string  `json:"email" binding:"required,email"`
	RegistrationNumber   string  `json:"registration_number"`
	HireDate             string  `json:"hire_date"`
	CompanyID            string  `json:"company_id" binding:"required,uuid"`
	DepartmentID         *string `json:"department_id" binding:"omitempty,uuid"`
	CostCenterID         *string `json:"cost_center_id" binding:"omitempty,uuid"`
	JobRoleID            *string `json:"job_role_id" binding:"omitempty,uuid"`
	RequiresSystemAccess bool    `json:"requires_system_access"`
}

type TransferEmployeeRequest struct {
	NewCompanyID    string  `json:"new_company_id" binding:"required,uuid"`
	NewDepartmentID *string `json:"new_department_id" binding:"omitempty,uuid"`
	NewCostCenterID *string `json:"new_cost_center_id" binding:"omitempty,uuid"`
	TransferDate    string  `json:"transfer_date"`
}

type ImportEmployeeRequest struct {
	Name               string  `json:"name" binding:"required"`
	TaxID              string  `json:"tax_id" binding:"required"`
	Email              string  `json:"email" binding:"required,email"`
	RegistrationNumber string  `json:"registration_number"`
	HireDate           string  `json:"hire_date" binding:"required"`
	LegacyStatus       string  `json:"legacy_status" binding:"required"`
	CompanyID          string  `json:"company_id" binding:"required,uuid"`
	DepartmentID       *string `json:"department_id" binding:"omitempty,uuid"`
	CostCenterID       *string `json:"cost_center_id" binding:"omitempty,uuid"`
	JobRoleID          *string `json:"job_role_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	CostCenterID *string `json:"cost_center_id" binding:"omitempty,uuid"`
	JobRoleID    *string `json:"job_role_id" binding:"omitempty,uuid"`
}

type TerminateEmployeeRequest struct {
	TerminationDate string `json:"termination_date" binding:"required"`
}

type ReactivateEmployeeRequest struct {
	NewHireDate string `json:"new_hire_date"`
}

type EmployeeResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TaxID              string  `json:"tax_id"`
	Email              string  `json:"email"`
	RegistrationNumber string  `json:"registration_number,omitempty"`
	HireDate           string  `json:"hire_date"`
	TerminationDate    *string `json:"termination_date,omitempty"`
	Status             string  `json:"status"`
	TenantID           string  `json:"tenant_id"`
	CompanyID          string  `json:"company_id"`
	DepartmentID       *string `json:"department_id,omitempty"`
	CostCenterID       *string `json:"cost_center_id,omitempty"`
	JobRoleID          *string `json:"job_role_id,omitempty"`
	ExternalIdentityID *string `json:"external_identity_id,omitempty"`
}
