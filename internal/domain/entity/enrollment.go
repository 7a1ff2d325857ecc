package entity

import "time"

// Enrollment - денормализованная проекция зачисления. Оркестрация платежа
// обновляет здесь только вендорные поля; остальное принадлежит внешнему
// admissions-контуру.
type Enrollment struct {
	ID              string     `gorm:"size:100;primaryKey" json:"id"`
	StudentID       string     `gorm:"type:uuid;not null;index" json:"student_id"`
	ProgramID       string     `gorm:"size:100;not null" json:"program_id"`
	VendorStatus    string     `gorm:"size:30" json:"vendor_status,omitempty"`
	VendorAccessURL string     `gorm:"size:500" json:"vendor_access_url,omitempty"`
	VendorUpdatedAt *time.Time `json:"vendor_updated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Enrollment) TableName() string {
	return "enrollments"
}
