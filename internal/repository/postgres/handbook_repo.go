package postgres

import (
	"errors"
	"fmt"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// HandbookAcknowledgmentRepo реализует HandbookAcknowledgmentRepository
type HandbookAcknowledgmentRepo struct {
	db *gorm.DB
}

// NewHandbookAcknowledgmentRepo создает новый экземпляр
func NewHandbookAcknowledgmentRepo(db *gorm.DB) *HandbookAcknowledgmentRepo {
	return &HandbookAcknowledgmentRepo{db: db}
}

// Create сохраняет новое подтверждение справочника
func (r *HandbookAcknowledgmentRepo) Create(ack *entity.HandbookAcknowledgment) error {
	if err := r.db.Create(ack).Error; err != nil {
		return fmt.Errorf("failed to create handbook acknowledgment: %w", err)
	}
	return nil
}

// GetLatestByUserID возвращает последнее подтверждение пользователя
func (r *HandbookAcknowledgmentRepo) GetLatestByUserID(userID string) (*entity.HandbookAcknowledgment, error) {
	var ack entity.HandbookAcknowledgment
	err := r.db.Where("user_id = ?", userID).Order("acknowledged_at DESC").First(&ack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest handbook acknowledgment: %w", err)
	}
	return &ack, nil
}
