package postgres

import (
	"fmt"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// EnrollmentRepo реализует EnrollmentRepository
type EnrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo создает новый экземпляр
func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// UpdateVendorStatus обновляет вендорные поля денормализованной проекции зачисления
func (r *EnrollmentRepo) UpdateVendorStatus(enrollmentID, status, accessURL string, at time.Time) error {
	err := r.db.Model(&entity.Enrollment{}).
		Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"vendor_status":     status,
			"vendor_access_url": accessURL,
			"vendor_updated_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update enrollment vendor status: %w", err)
	}
	return nil
}
