package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"github.com/yourusername/elevate-api/internal/domain/repository"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
)

// Контексты доступа: каждый выбирает свой фиксированный набор соглашений
const (
	ContextStudent  = "student"
	ContextPartner  = "partner"
	ContextEmployer = "employer"
	ContextLicensee = "licensee"
	ContextDefault  = "default"
)

// requiredAgreements - неизменяемая таблица: контекст -> обязательные соглашения
var requiredAgreements = map[string][]string{
	ContextStudent:  {entity.AgreementEnrollment, entity.AgreementParticipation, entity.AgreementFERPA, entity.AgreementHandbook},
	ContextPartner:  {entity.AgreementMOU, entity.AgreementNDA},
	ContextEmployer: {entity.AgreementEmployer, entity.AgreementNDA},
	ContextLicensee: {entity.AgreementLicense, entity.AgreementEULA},
	ContextDefault:  {entity.AgreementTOS, entity.AgreementAUP},
}

// Точки редиректа по первому незавершённому шагу
const (
	onboardingEntryPath = "/student-portal/onboarding"
	agreementsPath      = "/student-portal/onboarding/agreements"
	handbookPath        = "/student-portal/handbook/acknowledge"
	documentsPath       = "/student-portal/onboarding/documents"
)

// RequiredAgreementsFor возвращает набор соглашений для контекста доступа
// (неизвестный контекст трактуется как default)
func RequiredAgreementsFor(accessContext string) []string {
	if types, ok := requiredAgreements[accessContext]; ok {
		return types
	}
	return requiredAgreements[ContextDefault]
}

// cacheContext нормализует контекст для ключа кеша: неизвестный псевдоним
// сводится к default, иначе закешированный под ним статус переживал бы
// сброс кеша write-операциями до истечения TTL
func cacheContext(accessContext string) string {
	if _, ok := requiredAgreements[accessContext]; ok {
		return accessContext
	}
	return ContextDefault
}

// ComplianceStatus - структурированный результат проверки доступа
type ComplianceStatus struct {
	CanAccess          bool     `json:"can_access"`
	OnboardingComplete bool     `json:"onboarding_complete"`
	AgreementsComplete bool     `json:"agreements_complete"`
	HandbookComplete   bool     `json:"handbook_complete"`
	MissingAgreements  []string `json:"missing_agreements"`
	RedirectTo         string   `json:"redirect_to,omitempty"`
}

// ClientMeta - метаданные запроса, захваченные на границе HTTP
type ClientMeta struct {
	IP          string
	UserAgent   string
	RequestPath string
}

// AgreementAcceptanceParams - входные данные операции подписания
type AgreementAcceptanceParams struct {
	UserID          string
	AgreementType   string
	DocumentVersion string
	SignerName      string
	SignerEmail     string
	AuthEmail       string
	SignatureMethod string
	SignatureData   string
	ProgramID       string
	TenantID        string
	OrganizationID  string
	Client          ClientMeta
}

// HandbookAcknowledgmentParams - входные данные подтверждения справочника
type HandbookAcknowledgmentParams struct {
	UserID          string
	HandbookVersion string
	Attendance      bool
	DressCode       bool
	Conduct         bool
	Safety          bool
	GrievancePolicy bool
	TenantID        string
	Client          ClientMeta
}

// AgreementVersionInfo - проекция актуальной версии документа для UI
type AgreementVersionInfo struct {
	Version       string    `json:"version"`
	DocumentURL   string    `json:"document_url,omitempty"`
	EffectiveDate time.Time `json:"effective_date"`
}

// ComplianceService - Compliance Gate: решает, допущен ли пользователь к
// закрытым разделам платформы, и предоставляет write-операции, продвигающие
// пользователя к допуску.
type ComplianceService struct {
	portalRepo     repository.PortalAccessRepository
	agreementRepo  repository.AgreementAcceptanceRepository
	versionRepo    repository.AgreementVersionRepository
	handbookRepo   repository.HandbookAcknowledgmentRepository
	onboardingRepo repository.OnboardingProgressRepository
	cacheRepo      repository.CacheRepository
	audit          *AuditService
	cacheTTL       time.Duration
}

// NewComplianceService создает новый Compliance Gate
func NewComplianceService(
	portalRepo repository.PortalAccessRepository,
	agreementRepo repository.AgreementAcceptanceRepository,
	versionRepo repository.AgreementVersionRepository,
	handbookRepo repository.HandbookAcknowledgmentRepository,
	onboardingRepo repository.OnboardingProgressRepository,
	cacheRepo repository.CacheRepository,
	audit *AuditService,
	cacheTTL time.Duration,
) *ComplianceService {
	return &ComplianceService{
		portalRepo:     portalRepo,
		agreementRepo:  agreementRepo,
		versionRepo:    versionRepo,
		handbookRepo:   handbookRepo,
		onboardingRepo: onboardingRepo,
		cacheRepo:      cacheRepo,
		audit:          audit,
		cacheTTL:       cacheTTL,
	}
}

// failClosed - единственный способ ответить при невозможности вычислить статус.
// Неоднозначность никогда не становится допуском.
func failClosed() *ComplianceStatus {
	return &ComplianceStatus{
		CanAccess:          false,
		OnboardingComplete: false,
		AgreementsComplete: false,
		HandbookComplete:   false,
		MissingAgreements:  []string{"unknown"},
		RedirectTo:         onboardingEntryPath,
	}
}

// CheckStatus решает, допущен ли пользователь, и какой шаг ему предстоит.
// Побочных эффектов нет. Любая ошибка хранилища даёт fail-closed результат.
func (s *ComplianceService) CheckStatus(userID, accessContext string) *ComplianceStatus {
	if strings.TrimSpace(userID) == "" {
		return failClosed()
	}

	cacheKey := fmt.Sprintf("compliance:status:%s:%s", userID, cacheContext(accessContext))
	if s.cacheRepo != nil && s.cacheTTL > 0 {
		var cached ComplianceStatus
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached
		}
		// Промах или ошибка кеша: кеш только вспомогательный, идём к предикату
	}

	// Единственный авторитетный предикат доступа - серверная функция БД
	allowed, err := s.portalRepo.CanAccess(userID)
	if err != nil {
		log.Printf("[ComplianceService] предикат доступа недоступен для user=%s: %v", userID, err)
		return failClosed()
	}

	progress, err := s.onboardingRepo.GetByUserID(userID)
	if err != nil {
		if err != apperrors.ErrNotFound {
			log.Printf("[ComplianceService] ошибка чтения онбординга user=%s: %v", userID, err)
			return failClosed()
		}
		progress = &entity.OnboardingProgress{UserID: userID, Status: entity.OnboardingNotStarted}
	}

	signed, err := s.agreementRepo.GetSignedTypes(userID)
	if err != nil {
		log.Printf("[ComplianceService] ошибка чтения соглашений user=%s: %v", userID, err)
		return failClosed()
	}

	handbookComplete := false
	ack, err := s.handbookRepo.GetLatestByUserID(userID)
	if err != nil && err != apperrors.ErrNotFound {
		log.Printf("[ComplianceService] ошибка чтения справочника user=%s: %v", userID, err)
		return failClosed()
	}
	if err == nil {
		handbookComplete = ack.AllAcknowledged()
	}

	missing := make([]string, 0)
	for _, required := range RequiredAgreementsFor(accessContext) {
		if !signed[required] {
			missing = append(missing, required)
		}
	}

	status := &ComplianceStatus{
		CanAccess:          allowed,
		OnboardingComplete: progress.Status == entity.OnboardingCompleted,
		AgreementsComplete: len(missing) == 0,
		HandbookComplete:   handbookComplete,
		MissingAgreements:  missing,
		RedirectTo:         s.redirectTarget(progress, len(missing) == 0, handbookComplete),
	}

	if s.cacheRepo != nil && s.cacheTTL > 0 {
		if err := s.cacheRepo.SetJSON(cacheKey, status, s.cacheTTL); err != nil {
			log.Printf("[ComplianceService] не удалось закешировать статус user=%s: %v", userID, err)
		}
	}

	return status
}

// redirectTarget возвращает путь первого незавершённого шага ("" если всё готово)
func (s *ComplianceService) redirectTarget(progress *entity.OnboardingProgress, agreementsComplete, handbookComplete bool) string {
	switch {
	case !progress.ProfileComplete:
		return onboardingEntryPath
	case !agreementsComplete || !progress.AgreementsComplete:
		return agreementsPath
	case !handbookComplete || !progress.HandbookComplete:
		return handbookPath
	case !progress.DocumentsComplete:
		return documentsPath
	}
	return ""
}

// RecordAgreementAcceptance сохраняет неизменяемую запись о подписании.
// Операция сознательно НЕ идемпотентна: каждое подписание - отдельное
// юридическое событие, повторный вызов создаёт новую историческую строку.
func (s *ComplianceService) RecordAgreementAcceptance(params AgreementAcceptanceParams) (*entity.AgreementAcceptance, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if !entity.ValidAgreementType(params.AgreementType) {
		return nil, fmt.Errorf("%w: unknown agreement type %q", apperrors.ErrValidation, params.AgreementType)
	}
	if strings.TrimSpace(params.DocumentVersion) == "" {
		return nil, fmt.Errorf("%w: document version is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(params.SignerName) == "" {
		return nil, fmt.Errorf("%w: signer name is required", apperrors.ErrValidation)
	}
	if !entity.ValidSignatureMethod(params.SignatureMethod) {
		return nil, fmt.Errorf("%w: unknown signature method %q", apperrors.ErrValidation, params.SignatureMethod)
	}

	// Подписант обязан быть владельцем аккаунта: email сравнивается
	// без учёта регистра, при несовпадении запись не создаётся
	if !strings.EqualFold(strings.TrimSpace(params.SignerEmail), strings.TrimSpace(params.AuthEmail)) {
		return nil, fmt.Errorf("%w: signer email must match authenticated account email", apperrors.ErrValidation)
	}

	acceptance := &entity.AgreementAcceptance{
		UserID:          params.UserID,
		AgreementType:   params.AgreementType,
		DocumentVersion: params.DocumentVersion,
		SignerName:      strings.TrimSpace(params.SignerName),
		SignerEmail:     strings.TrimSpace(params.SignerEmail),
		AuthEmail:       strings.TrimSpace(params.AuthEmail),
		SignatureMethod: params.SignatureMethod,
		SignatureData:   params.SignatureData,
		ProgramID:       params.ProgramID,
		TenantID:        params.TenantID,
		OrganizationID:  params.OrganizationID,
		IP:              params.Client.IP,
		UserAgent:       params.Client.UserAgent,
		AcceptedAt:      time.Now(),
	}

	if err := s.agreementRepo.Create(acceptance); err != nil {
		return nil, err
	}

	s.logEvent(EventAgreementAccepted, params.UserID, params.AuthEmail, acceptance.TableName(), params.TenantID, params.Client, entity.JSONMap{
		"agreement_type":   params.AgreementType,
		"document_version": params.DocumentVersion,
		"signature_method": params.SignatureMethod,
	})
	s.invalidateStatusCache(params.UserID)

	return acceptance, nil
}

// RecordHandbookAcknowledgment сохраняет подтверждение справочника
func (s *ComplianceService) RecordHandbookAcknowledgment(params HandbookAcknowledgmentParams) (*entity.HandbookAcknowledgment, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(params.HandbookVersion) == "" {
		return nil, fmt.Errorf("%w: handbook version is required", apperrors.ErrValidation)
	}

	ack := &entity.HandbookAcknowledgment{
		UserID:          params.UserID,
		HandbookVersion: params.HandbookVersion,
		Attendance:      params.Attendance,
		DressCode:       params.DressCode,
		Conduct:         params.Conduct,
		Safety:          params.Safety,
		GrievancePolicy: params.GrievancePolicy,
		TenantID:        params.TenantID,
		IP:              params.Client.IP,
		UserAgent:       params.Client.UserAgent,
		AcknowledgedAt:  time.Now(),
	}

	if !ack.AllAcknowledged() {
		return nil, fmt.Errorf("%w: all five policy sections must be acknowledged", apperrors.ErrValidation)
	}

	if err := s.handbookRepo.Create(ack); err != nil {
		return nil, err
	}

	s.logEvent(EventHandbookAcknowledged, params.UserID, "", ack.TableName(), params.TenantID, params.Client, entity.JSONMap{
		"handbook_version": params.HandbookVersion,
	})
	s.invalidateStatusCache(params.UserID)

	return ack, nil
}

// UpdateOnboardingProgress выставляет один шаг и пересчитывает агрегатный статус.
// Остальные три флага всегда перечитываются из хранилища, а не берутся от
// вызывающего: иначе шаги, завершённые не по порядку или конкурентно, дадут
// устаревший агрегат. Операция идемпотентна.
func (s *ComplianceService) UpdateOnboardingProgress(userID, step string, completed bool) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if !entity.ValidOnboardingStep(step) {
		return fmt.Errorf("%w: unknown onboarding step %q", apperrors.ErrValidation, step)
	}

	now := time.Now()

	progress, err := s.onboardingRepo.GetByUserID(userID)
	if err != nil {
		if err != apperrors.ErrNotFound {
			return err
		}
		progress = &entity.OnboardingProgress{UserID: userID, Status: entity.OnboardingNotStarted}
	}

	progress.SetStep(step, completed, now)
	progress.RecomputeStatus(now)

	if err := s.onboardingRepo.Upsert(progress); err != nil {
		return err
	}

	s.logEvent(EventOnboardingStepUpdated, userID, "", progress.TableName(), "", ClientMeta{}, entity.JSONMap{
		"step":      step,
		"completed": completed,
		"status":    progress.Status,
	})
	s.invalidateStatusCache(userID)

	return nil
}

// GetUserAgreements возвращает историю подписаний пользователя, новые первыми
func (s *ComplianceService) GetUserAgreements(userID string) ([]*entity.AgreementAcceptance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	return s.agreementRepo.GetAllByUserID(userID)
}

// GetCurrentAgreementVersions возвращает актуальную версию по каждому типу
// соглашения (последняя effective_date среди неистёкших)
func (s *ComplianceService) GetCurrentAgreementVersions() (map[string]AgreementVersionInfo, error) {
	versions, err := s.versionRepo.GetCurrent()
	if err != nil {
		return nil, err
	}

	current := make(map[string]AgreementVersionInfo)
	for _, v := range versions {
		// Репозиторий отдаёт строки отсортированными по типу и убыванию
		// effective_date: первая строка типа - актуальная
		if _, ok := current[v.AgreementType]; ok {
			continue
		}
		current[v.AgreementType] = AgreementVersionInfo{
			Version:       v.Version,
			DocumentURL:   v.DocumentURL,
			EffectiveDate: v.EffectiveDate,
		}
	}
	return current, nil
}

// LogComplianceEvent - fire-and-forget запись произвольного события аудита
func (s *ComplianceService) LogComplianceEvent(eventType, userID, userEmail, tenantID string, client ClientMeta, details entity.JSONMap) {
	s.logEvent(eventType, userID, userEmail, "", tenantID, client, details)
}

func (s *ComplianceService) logEvent(eventType, userID, userEmail, targetTable, tenantID string, client ClientMeta, details entity.JSONMap) {
	if s.audit == nil {
		return
	}
	s.audit.Log(entity.ComplianceAuditLog{
		EventType:   eventType,
		UserID:      userID,
		UserEmail:   userEmail,
		TargetTable: targetTable,
		TenantID:    tenantID,
		Details:     details,
		IP:          client.IP,
		UserAgent:   client.UserAgent,
		RequestPath: client.RequestPath,
	})
}

// invalidateStatusCache сбрасывает кеш статуса по всем контекстам доступа
func (s *ComplianceService) invalidateStatusCache(userID string) {
	if s.cacheRepo == nil || s.cacheTTL <= 0 {
		return
	}
	for accessContext := range requiredAgreements {
		key := fmt.Sprintf("compliance:status:%s:%s", userID, accessContext)
		if err := s.cacheRepo.Delete(key); err != nil {
			log.Printf("[ComplianceService] не удалось сбросить кеш %s: %v", key, err)
		}
	}
}
