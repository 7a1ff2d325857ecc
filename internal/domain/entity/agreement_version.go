package entity

import "time"

// AgreementVersion описывает актуальную версию документа для каждого типа
// соглашения. UI использует её, чтобы знать, какую версию пользователь должен
// подписать следующей.
type AgreementVersion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AgreementType string    `gorm:"size:30;not null;index" json:"agreement_type"`
	Version       string    `gorm:"size:20;not null" json:"version"`
	DocumentURL   string    `gorm:"size:500" json:"document_url,omitempty"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
	Expired       bool      `gorm:"not null;default:false" json:"expired"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (AgreementVersion) TableName() string {
	return "agreement_versions"
}
