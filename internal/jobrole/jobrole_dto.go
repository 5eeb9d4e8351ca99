package jobrole

type CreateJobRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	IdentityRoles []string `json:"identity_roles"`
}

type UpdateJobRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	IdentityRoles []string `json:"identity_roles"`
}

type JobRoleResponse struct {
	ID            string   `json:"id"`
	TenantID      string   `json:"tenant_id"`
	Name          string   `json:"name"`
	IdentityRoles []string `json:"identity_roles"`
}
