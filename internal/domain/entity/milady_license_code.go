package entity

import "time"

// Статусы лицензионных кодов
const (
	LicenseAvailable = "available"
	LicenseAssigned  = "assigned"
)

// MiladyLicenseCode - предоплаченный лицензионный код, расходуемый ресурс.
// Назначение кода - одноразовая compare-and-set операция на уровне хранилища:
// после перехода в assigned код никогда не переназначается другому студенту.
type MiladyLicenseCode struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProgramSlug string     `gorm:"size:100;not null;index" json:"program_slug"`
	Code        string     `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Status      string     `gorm:"size:20;not null;default:'available';index" json:"status"`
	AssignedTo  string     `gorm:"type:uuid" json:"assigned_to,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (MiladyLicenseCode) TableName() string {
	return "milady_license_codes"
}
