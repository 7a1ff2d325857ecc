package postgres

import (
	"fmt"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// AgreementAcceptanceRepo реализует AgreementAcceptanceRepository
type AgreementAcceptanceRepo struct {
	db *gorm.DB
}

// NewAgreementAcceptanceRepo создает новый экземпляр
func NewAgreementAcceptanceRepo(db *gorm.DB) *AgreementAcceptanceRepo {
	return &AgreementAcceptanceRepo{db: db}
}

// Create сохраняет новую запись о подписании соглашения
func (r *AgreementAcceptanceRepo) Create(acceptance *entity.AgreementAcceptance) error {
	if err := r.db.Create(acceptance).Error; err != nil {
		return fmt.Errorf("failed to create agreement acceptance: %w", err)
	}
	return nil
}

// GetAllByUserID возвращает всю историю подписаний пользователя, новые первыми
func (r *AgreementAcceptanceRepo) GetAllByUserID(userID string) ([]*entity.AgreementAcceptance, error) {
	var acceptances []*entity.AgreementAcceptance
	err := r.db.Where("user_id = ?", userID).Order("accepted_at DESC").Find(&acceptances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get agreement acceptances: %w", err)
	}
	return acceptances, nil
}

// GetSignedTypes возвращает множество типов соглашений, подписанных пользователем
func (r *AgreementAcceptanceRepo) GetSignedTypes(userID string) (map[string]bool, error) {
	var types []string
	err := r.db.Model(&entity.AgreementAcceptance{}).
		Where("user_id = ?", userID).
		Distinct("agreement_type").
		Pluck("agreement_type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get signed agreement types: %w", err)
	}

	signed := make(map[string]bool, len(types))
	for _, t := range types {
		signed[t] = true
	}
	return signed, nil
}

// AgreementVersionRepo реализует AgreementVersionRepository
type AgreementVersionRepo struct {
	db *gorm.DB
}

// NewAgreementVersionRepo создает новый экземпляр
func NewAgreementVersionRepo(db *gorm.DB) *AgreementVersionRepo {
	return &AgreementVersionRepo{db: db}
}

// GetCurrent возвращает неистёкшие версии документов по всем типам соглашений
func (r *AgreementVersionRepo) GetCurrent() ([]*entity.AgreementVersion, error) {
	var versions []*entity.AgreementVersion
	err := r.db.Where("expired = false").Order("agreement_type, effective_date DESC").Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get agreement versions: %w", err)
	}
	return versions, nil
}
