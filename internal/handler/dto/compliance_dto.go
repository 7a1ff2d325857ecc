package dto

// SignAgreementRequest - тело запроса на подписание соглашения
type SignAgreementRequest struct {
	AgreementType   string `json:"agreement_type" binding:"required"`
	DocumentVersion string `json:"document_version" binding:"required"`
	SignerName      string `json:"signer_name" binding:"required"`
	SignerEmail     string `json:"signer_email" binding:"required"`
	SignatureMethod string `json:"signature_method" binding:"required"`
	SignatureData   string `json:"signature_data,omitempty"`
	ProgramID       string `json:"program_id,omitempty"`
	TenantID        string `json:"tenant_id,omitempty"`
	OrganizationID  string `json:"organization_id,omitempty"`
}

// AcknowledgeHandbookRequest - тело запроса на подтверждение справочника
type AcknowledgeHandbookRequest struct {
	HandbookVersion string `json:"handbook_version" binding:"required"`
	Attendance      bool   `json:"attendance"`
	DressCode       bool   `json:"dress_code"`
	Conduct         bool   `json:"conduct"`
	Safety          bool   `json:"safety"`
	GrievancePolicy bool   `json:"grievance_policy"`
	TenantID        string `json:"tenant_id,omitempty"`
}

// UpdateProgressRequest - тело запроса на обновление шага онбординга
type UpdateProgressRequest struct {
	Completed bool `json:"completed"`
}

// WriteResultResponse - унифицированный ответ write-операций: {success, id?, error?}
type WriteResultResponse struct {
	Success bool   `json:"success"`
	ID      uint   `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
