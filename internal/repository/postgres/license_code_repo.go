package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// MiladyLicenseCodeRepo реализует MiladyLicenseCodeRepository
type MiladyLicenseCodeRepo struct {
	db *gorm.DB
}

// NewMiladyLicenseCodeRepo создает новый экземпляр
func NewMiladyLicenseCodeRepo(db *gorm.DB) *MiladyLicenseCodeRepo {
	return &MiladyLicenseCodeRepo{db: db}
}

// AssignAvailable атомарно назначает один доступный код студенту.
//
// Инвариант эксклюзивности держится на самом UPDATE: условие status='available'
// входит в WHERE, поэтому из двух конкурентных запросов, прочитавших один и тот
// же код, успех (RowsAffected == 1) увидит ровно один. Проигравший получает
// ErrConflict и должен перейти к следующей стратегии провижининга.
//
// Ошибки:
// - ErrNotFound  → для программы нет доступных кодов
// - ErrConflict  → кандидат перехвачен конкурентным запросом
func (r *MiladyLicenseCodeRepo) AssignAvailable(programSlug, studentID string, at time.Time) (*entity.MiladyLicenseCode, error) {
	var code entity.MiladyLicenseCode
	err := r.db.Where("program_slug = ? AND status = ?", programSlug, entity.LicenseAvailable).
		Order("id").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query available license codes: %w", err)
	}

	result := r.db.Model(&entity.MiladyLicenseCode{}).
		Where("id = ? AND status = ?", code.ID, entity.LicenseAvailable).
		Updates(map[string]interface{}{
			"status":      entity.LicenseAssigned,
			"assigned_to": studentID,
			"assigned_at": at,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to assign license code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Гонка проиграна: код успел уйти другому запросу
		return nil, apperrors.ErrConflict
	}

	code.Status = entity.LicenseAssigned
	code.AssignedTo = studentID
	code.AssignedAt = &at
	return &code, nil
}
