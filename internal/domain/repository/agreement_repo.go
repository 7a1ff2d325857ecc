package repository

import "github.com/yourusername/elevate-api/internal/domain/entity"

// AgreementAcceptanceRepository интерфейс для работы с подписанными соглашениями.
// Записи неизменяемы: интерфейс сознательно не содержит Update/Delete.
type AgreementAcceptanceRepository interface {
	// Create сохраняет новую запись о подписании
	Create(acceptance *entity.AgreementAcceptance) error

	// GetAllByUserID возвращает все подписания пользователя (история), новые первыми
	GetAllByUserID(userID string) ([]*entity.AgreementAcceptance, error)

	// GetSignedTypes возвращает множество типов соглашений, подписанных пользователем
	GetSignedTypes(userID string) (map[string]bool, error)
}

// AgreementVersionRepository интерфейс для актуальных версий документов
type AgreementVersionRepository interface {
	// GetCurrent возвращает неистёкшие версии по всем типам соглашений
	GetCurrent() ([]*entity.AgreementVersion, error)
}
