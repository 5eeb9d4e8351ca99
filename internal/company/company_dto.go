package company

type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	LegalName string `json:"legal_name"`
	TaxID     string `json:"tax_id" binding:"required"`
}

type UpdateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	LegalName string `json:"legal_name"`
}

type CompanyResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	LegalName string `json:"legal_name,omitempty"`
	TaxID     string `json:"tax_id"`
}
