package entity

import "time"

// ComplianceAuditLog - append-only строка аудита. Ядро никогда не обновляет и
// не удаляет записи; упорядочение - по времени вставки.
type ComplianceAuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"type:uuid;not null;uniqueIndex" json:"event_id"`
	EventType   string    `gorm:"size:64;not null;index" json:"event_type"`
	UserID      string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	UserEmail   string    `gorm:"size:255" json:"user_email,omitempty"`
	TargetTable string    `gorm:"size:100" json:"target_table,omitempty"`
	TargetID    string    `gorm:"size:100" json:"target_id,omitempty"`
	TenantID    string    `gorm:"size:100;index" json:"tenant_id,omitempty"`
	Details     JSONMap   `gorm:"type:jsonb" json:"details,omitempty"`
	IP          string    `gorm:"size:50" json:"ip,omitempty"`
	UserAgent   string    `gorm:"type:text" json:"user_agent,omitempty"`
	RequestPath string    `gorm:"size:500" json:"request_path,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ComplianceAuditLog) TableName() string {
	return "compliance_audit_log"
}
