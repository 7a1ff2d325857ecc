package postgres

import (
	"fmt"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// ComplianceAuditLogRepo реализует ComplianceAuditLogRepository
type ComplianceAuditLogRepo struct {
	db *gorm.DB
}

// NewComplianceAuditLogRepo создает новый экземпляр
func NewComplianceAuditLogRepo(db *gorm.DB) *ComplianceAuditLogRepo {
	return &ComplianceAuditLogRepo{db: db}
}

// Create вставляет одну строку аудита
func (r *ComplianceAuditLogRepo) Create(log *entity.ComplianceAuditLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}
