package postgres

import (
	"errors"
	"fmt"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnboardingProgressRepo реализует OnboardingProgressRepository
type OnboardingProgressRepo struct {
	db *gorm.DB
}

// NewOnboardingProgressRepo создает новый экземпляр
func NewOnboardingProgressRepo(db *gorm.DB) *OnboardingProgressRepo {
	return &OnboardingProgressRepo{db: db}
}

// GetByUserID возвращает строку прогресса пользователя
func (r *OnboardingProgressRepo) GetByUserID(userID string) (*entity.OnboardingProgress, error) {
	var progress entity.OnboardingProgress
	err := r.db.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get onboarding progress: %w", err)
	}
	return &progress, nil
}

// Upsert создаёт или обновляет строку прогресса, ключ - user_id
func (r *OnboardingProgressRepo) Upsert(progress *entity.OnboardingProgress) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(progress).Error
	if err != nil {
		return fmt.Errorf("failed to upsert onboarding progress: %w", err)
	}
	return nil
}

// PortalAccessRepo реализует PortalAccessRepository через хранимую функцию БД.
// Решение о доступе принимает единственный серверный предикат, чтобы UI и API
// не могли разойтись в трактовке правил.
type PortalAccessRepo struct {
	db *gorm.DB
}

// NewPortalAccessRepo создает новый экземпляр
func NewPortalAccessRepo(db *gorm.DB) *PortalAccessRepo {
	return &PortalAccessRepo{db: db}
}

// CanAccess вызывает can_access_portal(user_id)
func (r *PortalAccessRepo) CanAccess(userID string) (bool, error) {
	var allowed bool
	err := r.db.Raw("SELECT can_access_portal(?)", userID).Scan(&allowed).Error
	if err != nil {
		return false, fmt.Errorf("failed to evaluate portal access predicate: %w", err)
	}
	return allowed, nil
}
