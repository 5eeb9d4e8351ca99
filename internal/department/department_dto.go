package department

type CreateDepartmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	CompanyID       string  `json:"company_id" binding:"required,uuid"`
	IdentityGroupID *string `json:"identity_group_id"`
}

type UpdateDepartmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	IdentityGroupID *string `json:"identity_group_id"`
}

type DepartmentResponse struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenant_id"`
	CompanyID       string  `json:"company_id"`
	Name            string  `json:"name"`
	IdentityGroupID *string `json:"identity_group_id,omitempty"`
}
