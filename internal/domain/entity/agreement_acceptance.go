package entity

import "time"

// Типы соглашений, требующих явной подписи пользователя
const (
	AgreementEnrollment    = "enrollment"
	AgreementParticipation = "participation"
	AgreementFERPA         = "ferpa"
	AgreementHandbook      = "handbook"
	AgreementMOU           = "mou"
	AgreementNDA           = "nda"
	AgreementEmployer      = "employer"
	AgreementLicense       = "license"
	AgreementEULA          = "eula"
	AgreementTOS           = "tos"
	AgreementAUP           = "aup"
)

// Методы подписи
const (
	SignatureMethodCheckbox = "checkbox"
	SignatureMethodTyped    = "typed"
	SignatureMethodDrawn    = "drawn"
)

// AgreementAcceptance хранит запись о подписании пользователем одного соглашения.
// Запись неизменяема после создания: новая версия документа подписывается новой
// строкой, история сохраняется.
type AgreementAcceptance struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;not null;index" json:"user_id"`
	AgreementType   string    `gorm:"size:30;not null;index" json:"agreement_type"`
	DocumentVersion string    `gorm:"size:20;not null" json:"document_version"`
	SignerName      string    `gorm:"size:200;not null" json:"signer_name"`
	SignerEmail     string    `gorm:"size:255;not null" json:"signer_email"`
	AuthEmail       string    `gorm:"size:255;not null" json:"auth_email"`
	SignatureMethod string    `gorm:"size:10;not null" json:"signature_method"`
	SignatureData   string    `gorm:"type:text" json:"signature_data,omitempty"`
	ProgramID       string    `gorm:"size:100" json:"program_id,omitempty"`
	TenantID        string    `gorm:"size:100;index" json:"tenant_id,omitempty"`
	OrganizationID  string    `gorm:"size:100" json:"organization_id,omitempty"`
	IP              string    `gorm:"size:50" json:"ip,omitempty"`
	UserAgent       string    `gorm:"type:text" json:"user_agent,omitempty"`
	AcceptedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"accepted_at"`
}

// TableName определяет имя таблицы для GORM
func (AgreementAcceptance) TableName() string {
	return "agreement_acceptances"
}

// ValidAgreementType проверяет, что тип соглашения входит в перечисление
func ValidAgreementType(t string) bool {
	switch t {
	case AgreementEnrollment, AgreementParticipation, AgreementFERPA,
		AgreementHandbook, AgreementMOU, AgreementNDA, AgreementEmployer,
		AgreementLicense, AgreementEULA, AgreementTOS, AgreementAUP:
		return true
	}
	return false
}

// ValidSignatureMethod проверяет метод подписи
func ValidSignatureMethod(m string) bool {
	switch m {
	case SignatureMethodCheckbox, SignatureMethodTyped, SignatureMethodDrawn:
		return true
	}
	return false
}
