package repository

import "github.com/yourusername/elevate-api/internal/domain/entity"

// HandbookAcknowledgmentRepository интерфейс для подтверждений справочника
type HandbookAcknowledgmentRepository interface {
	// Create сохраняет новое подтверждение (по одной строке на версию)
	Create(ack *entity.HandbookAcknowledgment) error

	// GetLatestByUserID возвращает последнее подтверждение пользователя.
	// Для гейтинга авторитетна только последняя строка.
	GetLatestByUserID(userID string) (*entity.HandbookAcknowledgment, error)
}
