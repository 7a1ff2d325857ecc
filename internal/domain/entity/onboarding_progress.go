package entity

import "time"

// Статусы онбординга
const (
	OnboardingNotStarted = "not_started"
	OnboardingInProgress = "in_progress"
	OnboardingCompleted  = "completed"
)

// Шаги онбординга
const (
	StepProfile    = "profile"
	StepAgreements = "agreements"
	StepHandbook   = "handbook"
	StepDocuments  = "documents"
)

// OnboardingProgress - агрегат завершённости шагов онбординга, одна строка на
// пользователя. Status никогда не выставляется вручную: он пересчитывается из
// четырёх флагов при каждом обновлении шага.
type OnboardingProgress struct {
	UserID              string     `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProfileComplete     bool       `gorm:"not null;default:false" json:"profile_complete"`
	ProfileCompletedAt  *time.Time `json:"profile_completed_at,omitempty"`
	AgreementsComplete  bool       `gorm:"not null;default:false" json:"agreements_complete"`
	AgreementsSignedAt  *time.Time `json:"agreements_signed_at,omitempty"`
	HandbookComplete    bool       `gorm:"not null;default:false" json:"handbook_complete"`
	HandbookReviewedAt  *time.Time `json:"handbook_reviewed_at,omitempty"`
	DocumentsComplete   bool       `gorm:"not null;default:false" json:"documents_complete"`
	DocumentsUploadedAt *time.Time `json:"documents_uploaded_at,omitempty"`
	Status              string     `gorm:"size:20;not null;default:'not_started'" json:"status"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (OnboardingProgress) TableName() string {
	return "onboarding_progress"
}

// ValidOnboardingStep проверяет имя шага
func ValidOnboardingStep(step string) bool {
	switch step {
	case StepProfile, StepAgreements, StepHandbook, StepDocuments:
		return true
	}
	return false
}

// SetStep выставляет флаг и отметку времени для одного шага
func (p *OnboardingProgress) SetStep(step string, completed bool, now time.Time) {
	var ts *time.Time
	if completed {
		ts = &now
	}
	switch step {
	case StepProfile:
		p.ProfileComplete = completed
		p.ProfileCompletedAt = ts
	case StepAgreements:
		p.AgreementsComplete = completed
		p.AgreementsSignedAt = ts
	case StepHandbook:
		p.HandbookComplete = completed
		p.HandbookReviewedAt = ts
	case StepDocuments:
		p.DocumentsComplete = completed
		p.DocumentsUploadedAt = ts
	}
}

// RecomputeStatus пересчитывает агрегатный статус из текущих флагов.
// completed только когда все четыре шага завершены одновременно; любой
// незавершённый шаг даёт in_progress (или not_started, если шагов ещё не было).
func (p *OnboardingProgress) RecomputeStatus(now time.Time) {
	all := p.ProfileComplete && p.AgreementsComplete && p.HandbookComplete && p.DocumentsComplete
	any := p.ProfileComplete || p.AgreementsComplete || p.HandbookComplete || p.DocumentsComplete

	switch {
	case all:
		p.Status = OnboardingCompleted
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
	case any:
		p.Status = OnboardingInProgress
		p.CompletedAt = nil
	default:
		p.Status = OnboardingNotStarted
		p.CompletedAt = nil
	}
}
