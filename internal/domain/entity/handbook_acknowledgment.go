package entity

import "time"

// HandbookAcknowledgment фиксирует, что пользователь ознакомился с конкретной
// версией справочника. Пользователь может иметь несколько строк (по одной на
// версию), для гейтинга авторитетна только последняя.
type HandbookAcknowledgment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;not null;index" json:"user_id"`
	HandbookVersion string    `gorm:"size:20;not null" json:"handbook_version"`
	Attendance      bool      `gorm:"not null;default:false" json:"attendance"`
	DressCode       bool      `gorm:"not null;default:false" json:"dress_code"`
	Conduct         bool      `gorm:"not null;default:false" json:"conduct"`
	Safety          bool      `gorm:"not null;default:false" json:"safety"`
	GrievancePolicy bool      `gorm:"not null;default:false" json:"grievance_policy"`
	TenantID        string    `gorm:"size:100;index" json:"tenant_id,omitempty"`
	IP              string    `gorm:"size:50" json:"ip,omitempty"`
	UserAgent       string    `gorm:"type:text" json:"user_agent,omitempty"`
	AcknowledgedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"acknowledged_at"`
}

// TableName определяет имя таблицы для GORM
func (HandbookAcknowledgment) TableName() string {
	return "handbook_acknowledgments"
}

// AllAcknowledged возвращает true, если подтверждены все пять разделов политики
func (h *HandbookAcknowledgment) AllAcknowledged() bool {
	return h.Attendance && h.DressCode && h.Conduct && h.Safety && h.GrievancePolicy
}
