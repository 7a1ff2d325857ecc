package entity

import "time"

// Методы провижининга доступа Milady
const (
	ProvisionMethodAPI           = "api"
	ProvisionMethodLicenseCode   = "license_code"
	ProvisionMethodStripeConnect = "stripe_connect"
	ProvisionMethodManual        = "manual"
	ProvisionMethodLink          = "link"
)

// Статусы доступа
const (
	AccessPendingSetup = "pending_setup"
	AccessActive       = "active"
)

// MiladyAccess - итог провижининга для студента, уникален по
// (student_id, program_slug). Повторный успешный провижининг перезаписывает
// более раннюю pending-строку (upsert).
type MiladyAccess struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	StudentID             string     `gorm:"type:uuid;not null;uniqueIndex:ux_milady_access_student_program" json:"student_id"`
	ProgramSlug           string     `gorm:"size:100;not null;uniqueIndex:ux_milady_access_student_program" json:"program_slug"`
	ProvisioningMethod    string     `gorm:"size:20;not null" json:"provisioning_method"`
	AccessURL             string     `gorm:"size:500" json:"access_url,omitempty"`
	LicenseCode           string     `gorm:"size:100" json:"license_code,omitempty"`
	Username              string     `gorm:"size:255" json:"username,omitempty"`
	Status                string     `gorm:"size:20;not null;default:'pending_setup'" json:"status"`
	ProvisionedAt         *time.Time `json:"provisioned_at,omitempty"`
	ManuallyProvisionedAt *time.Time `json:"manually_provisioned_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (MiladyAccess) TableName() string {
	return "milady_access"
}
