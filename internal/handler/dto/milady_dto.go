package dto

// ProcessPaymentRequest - тело запроса webhook-реле на обработку платежа
type ProcessPaymentRequest struct {
	EnrollmentID string  `json:"enrollment_id" binding:"required"`
	StudentID    string  `json:"student_id" binding:"required"`
	ProgramID    string  `json:"program_id" binding:"required"`
	Amount       float64 `json:"amount,omitempty"`
}

// MarkProvisionedRequest - тело запроса админского закрытия ручного провижининга
type MarkProvisionedRequest struct {
	StudentID         string `json:"student_id" binding:"required"`
	ProgramSlug       string `json:"program_slug" binding:"required"`
	Username          string `json:"username,omitempty"`
	TemporaryPassword string `json:"temporary_password,omitempty"`
	LicenseCode       string `json:"license_code,omitempty"`
}
