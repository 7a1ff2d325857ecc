package repository

import "github.com/yourusername/elevate-api/internal/domain/entity"

// ComplianceAuditLogRepository интерфейс для append-only журнала аудита
type ComplianceAuditLogRepository interface {
	// Create вставляет одну строку аудита. Записи никогда не обновляются.
	Create(log *entity.ComplianceAuditLog) error
}
