package entity

import "time"

// StudentProfile - профиль студента, заполняется платформой при регистрации.
// Для провижининга используется только как read-only источник контактных данных.
type StudentProfile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName string    `gorm:"size:100" json:"first_name,omitempty"`
	LastName  string    `gorm:"size:100" json:"last_name,omitempty"`
	FullName  string    `gorm:"size:255" json:"full_name,omitempty"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	TenantID  string    `gorm:"size:100;index" json:"tenant_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (StudentProfile) TableName() string {
	return "profiles"
}

// DisplayName возвращает имя для писем и очереди провижининга
func (p *StudentProfile) DisplayName() string {
	if p.FirstName != "" || p.LastName != "" {
		if p.FirstName != "" && p.LastName != "" {
			return p.FirstName + " " + p.LastName
		}
		if p.FirstName != "" {
			return p.FirstName
		}
		return p.LastName
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
