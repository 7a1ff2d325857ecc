package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MiladyAccessRepo реализует MiladyAccessRepository
type MiladyAccessRepo struct {
	db *gorm.DB
}

// NewMiladyAccessRepo создает новый экземпляр
func NewMiladyAccessRepo(db *gorm.DB) *MiladyAccessRepo {
	return &MiladyAccessRepo{db: db}
}

// Upsert создаёт или перезаписывает итог провижининга по (student_id, program_slug)
func (r *MiladyAccessRepo) Upsert(access *entity.MiladyAccess) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "program_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provisioning_method", "access_url", "license_code", "username",
			"status", "provisioned_at", "updated_at",
		}),
	}).Create(access).Error
	if err != nil {
		return fmt.Errorf("failed to upsert milady access: %w", err)
	}
	return nil
}

// GetByStudentAndProgram возвращает итог провижининга пары
func (r *MiladyAccessRepo) GetByStudentAndProgram(studentID, programSlug string) (*entity.MiladyAccess, error) {
	var access entity.MiladyAccess
	err := r.db.Where("student_id = ? AND program_slug = ?", studentID, programSlug).First(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get milady access: %w", err)
	}
	return &access, nil
}

// Activate переводит запись в active и проставляет учётные данные.
// Единственный разрешённый выход из pending_setup.
func (r *MiladyAccessRepo) Activate(studentID, programSlug, username, licenseCode, accessURL string, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":                  entity.AccessActive,
		"access_url":              accessURL,
		"manually_provisioned_at": at,
	}
	if username != "" {
		updates["username"] = username
	}
	if licenseCode != "" {
		updates["license_code"] = licenseCode
	}

	result := r.db.Model(&entity.MiladyAccess{}).
		Where("student_id = ? AND program_slug = ?", studentID, programSlug).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to activate milady access: %w", result.Error)
	}
	return result.RowsAffected, nil
}
