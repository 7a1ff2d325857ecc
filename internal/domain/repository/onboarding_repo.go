package repository

import "github.com/yourusername/elevate-api/internal/domain/entity"

// OnboardingProgressRepository интерфейс для агрегата онбординга
type OnboardingProgressRepository interface {
	// GetByUserID возвращает строку прогресса пользователя или apperrors.ErrNotFound
	GetByUserID(userID string) (*entity.OnboardingProgress, error)

	// Upsert создаёт или обновляет строку, ключ - user_id
	Upsert(progress *entity.OnboardingProgress) error
}

// PortalAccessRepository - единственный авторитетный предикат доступа.
// Делегирует решение серверной функции БД, а не собирает его в приложении.
type PortalAccessRepository interface {
	// CanAccess вызывает хранимую функцию can_access_portal(user_id)
	CanAccess(userID string) (bool, error)
}
