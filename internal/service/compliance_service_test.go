package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
)

// Создаем мок-объекты для интерфейсов

type MockPortalAccessRepository struct {
	mock.Mock
}

func (m *MockPortalAccessRepository) CanAccess(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

type MockAgreementAcceptanceRepository struct {
	mock.Mock
}

func (m *MockAgreementAcceptanceRepository) Create(acceptance *entity.AgreementAcceptance) error {
	args := m.Called(acceptance)
	return args.Error(0)
}

func (m *MockAgreementAcceptanceRepository) GetAllByUserID(userID string) ([]*entity.AgreementAcceptance, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AgreementAcceptance), args.Error(1)
}

func (m *MockAgreementAcceptanceRepository) GetSignedTypes(userID string) (map[string]bool, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type MockAgreementVersionRepository struct {
	mock.Mock
}

func (m *MockAgreementVersionRepository) GetCurrent() ([]*entity.AgreementVersion, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AgreementVersion), args.Error(1)
}

type MockHandbookAcknowledgmentRepository struct {
	mock.Mock
}

func (m *MockHandbookAcknowledgmentRepository) Create(ack *entity.HandbookAcknowledgment) error {
	args := m.Called(ack)
	return args.Error(0)
}

func (m *MockHandbookAcknowledgmentRepository) GetLatestByUserID(userID string) (*entity.HandbookAcknowledgment, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HandbookAcknowledgment), args.Error(1)
}

type MockOnboardingProgressRepository struct {
	mock.Mock
}

func (m *MockOnboardingProgressRepository) GetByUserID(userID string) (*entity.OnboardingProgress, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OnboardingProgress), args.Error(1)
}

func (m *MockOnboardingProgressRepository) Upsert(progress *entity.OnboardingProgress) error {
	args := m.Called(progress)
	return args.Error(0)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

const testUserID = "7d3f9a4e-0c51-4b8a-9f6e-2a1b3c4d5e6f"

func newComplianceServiceForTest(
	portalRepo *MockPortalAccessRepository,
	agreementRepo *MockAgreementAcceptanceRepository,
	versionRepo *MockAgreementVersionRepository,
	handbookRepo *MockHandbookAcknowledgmentRepository,
	onboardingRepo *MockOnboardingProgressRepository,
) *ComplianceService {
	// Кеш и аудит отключены: тестируем только логику гейтинга
	return NewComplianceService(portalRepo, agreementRepo, versionRepo, handbookRepo, onboardingRepo, nil, nil, 0)
}

func TestComplianceService_CheckStatus(t *testing.T) {
	t.Run("Fully compliant student gets access", func(t *testing.T) {
		// Подготавливаем моки
		portalRepo := new(MockPortalAccessRepository)
		agreementRepo := new(MockAgreementAcceptanceRepository)
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		onboardingRepo := new(MockOnboardingProgressRepository)

		portalRepo.On("CanAccess", testUserID).Return(true, nil).Once()
		onboardingRepo.On("GetByUserID", testUserID).Return(&entity.OnboardingProgress{
			UserID:             testUserID,
			ProfileComplete:    true,
			AgreementsComplete: true,
			HandbookComplete:   true,
			DocumentsComplete:  true,
			Status:             entity.OnboardingCompleted,
		}, nil).Once()
		agreementRepo.On("GetSignedTypes", testUserID).Return(map[string]bool{
			entity.AgreementEnrollment:    true,
			entity.AgreementParticipation: true,
			entity.AgreementFERPA:         true,
			entity.AgreementHandbook:      true,
		}, nil).Once()
		handbookRepo.On("GetLatestByUserID", testUserID).Return(&entity.HandbookAcknowledgment{
			Attendance: true, DressCode: true, Conduct: true, Safety: true, GrievancePolicy: true,
		}, nil).Once()

		svc := newComplianceServiceForTest(portalRepo, agreementRepo, nil, handbookRepo, onboardingRepo)

		// Вызов метода
		status := svc.CheckStatus(testUserID, ContextStudent)

		// Проверка результатов
		assert.True(t, status.CanAccess, "Полностью соответствующий студент должен получить доступ")
		assert.True(t, status.OnboardingComplete)
		assert.True(t, status.AgreementsComplete)
		assert.True(t, status.HandbookComplete)
		assert.Empty(t, status.MissingAgreements, "Не должно быть недостающих соглашений")
		assert.Empty(t, status.RedirectTo, "Редирект не нужен, когда всё завершено")
		portalRepo.AssertExpectations(t)
	})

	t.Run("Predicate failure fails closed", func(t *testing.T) {
		portalRepo := new(MockPortalAccessRepository)
		portalRepo.On("CanAccess", testUserID).Return(false, errors.New("connection refused")).Once()

		svc := newComplianceServiceForTest(portalRepo, new(MockAgreementAcceptanceRepository), nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		status := svc.CheckStatus(testUserID, ContextStudent)

		// Недоступность хранилища никогда не превращается в допуск
		assert.False(t, status.CanAccess, "Ошибка предиката обязана давать отказ в доступе")
		assert.Equal(t, []string{"unknown"}, status.MissingAgreements)
		assert.NotEmpty(t, status.RedirectTo, "Fail-closed ответ должен вести на онбординг")
	})

	t.Run("Empty user id fails closed", func(t *testing.T) {
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		status := svc.CheckStatus("", ContextStudent)

		assert.False(t, status.CanAccess)
	})

	t.Run("Missing agreements are listed with redirect", func(t *testing.T) {
		portalRepo := new(MockPortalAccessRepository)
		agreementRepo := new(MockAgreementAcceptanceRepository)
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		onboardingRepo := new(MockOnboardingProgressRepository)

		portalRepo.On("CanAccess", testUserID).Return(false, nil).Once()
		onboardingRepo.On("GetByUserID", testUserID).Return(&entity.OnboardingProgress{
			UserID:          testUserID,
			ProfileComplete: true,
			Status:          entity.OnboardingInProgress,
		}, nil).Once()
		// Подписаны только два из четырёх студенческих соглашений
		agreementRepo.On("GetSignedTypes", testUserID).Return(map[string]bool{
			entity.AgreementEnrollment: true,
			entity.AgreementFERPA:      true,
		}, nil).Once()
		handbookRepo.On("GetLatestByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()

		svc := newComplianceServiceForTest(portalRepo, agreementRepo, nil, handbookRepo, onboardingRepo)

		status := svc.CheckStatus(testUserID, ContextStudent)

		assert.False(t, status.CanAccess)
		assert.False(t, status.AgreementsComplete)
		assert.ElementsMatch(t, []string{entity.AgreementParticipation, entity.AgreementHandbook}, status.MissingAgreements,
			"Недостающими должны числиться ровно неподписанные типы")
		assert.Equal(t, agreementsPath, status.RedirectTo, "Редирект должен вести на первый незавершённый шаг")
	})

	t.Run("No onboarding row means not started, not an error", func(t *testing.T) {
		portalRepo := new(MockPortalAccessRepository)
		agreementRepo := new(MockAgreementAcceptanceRepository)
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		onboardingRepo := new(MockOnboardingProgressRepository)

		portalRepo.On("CanAccess", testUserID).Return(false, nil).Once()
		onboardingRepo.On("GetByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()
		agreementRepo.On("GetSignedTypes", testUserID).Return(map[string]bool{}, nil).Once()
		handbookRepo.On("GetLatestByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()

		svc := newComplianceServiceForTest(portalRepo, agreementRepo, nil, handbookRepo, onboardingRepo)

		status := svc.CheckStatus(testUserID, ContextStudent)

		assert.False(t, status.CanAccess)
		assert.False(t, status.OnboardingComplete)
		assert.Equal(t, onboardingEntryPath, status.RedirectTo)
	})

	t.Run("Partner context requires its own agreement set", func(t *testing.T) {
		portalRepo := new(MockPortalAccessRepository)
		agreementRepo := new(MockAgreementAcceptanceRepository)
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		onboardingRepo := new(MockOnboardingProgressRepository)

		portalRepo.On("CanAccess", testUserID).Return(false, nil).Once()
		onboardingRepo.On("GetByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()
		// Студенческие подписи не закрывают партнёрский контекст
		agreementRepo.On("GetSignedTypes", testUserID).Return(map[string]bool{
			entity.AgreementEnrollment: true,
			entity.AgreementMOU:        true,
		}, nil).Once()
		handbookRepo.On("GetLatestByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()

		svc := newComplianceServiceForTest(portalRepo, agreementRepo, nil, handbookRepo, onboardingRepo)

		status := svc.CheckStatus(testUserID, ContextPartner)

		assert.ElementsMatch(t, []string{entity.AgreementNDA}, status.MissingAgreements)
	})
}

func TestComplianceService_RecordAgreementAcceptance(t *testing.T) {
	client := ClientMeta{IP: "203.0.113.7", UserAgent: "test-agent"}

	validParams := func() AgreementAcceptanceParams {
		return AgreementAcceptanceParams{
			UserID:          testUserID,
			AgreementType:   entity.AgreementEnrollment,
			DocumentVersion: "2.1",
			SignerName:      "Jordan Smith",
			SignerEmail:     "jordan@example.com",
			AuthEmail:       "jordan@example.com",
			SignatureMethod: entity.SignatureMethodTyped,
			Client:          client,
		}
	}

	t.Run("Successful signing creates immutable row", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		agreementRepo.On("Create", mock.AnythingOfType("*entity.AgreementAcceptance")).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		acceptance, err := svc.RecordAgreementAcceptance(validParams())

		require.NoError(t, err, "Валидное подписание не должно возвращать ошибку")
		assert.Equal(t, entity.AgreementEnrollment, acceptance.AgreementType)
		assert.Equal(t, "203.0.113.7", acceptance.IP, "IP клиента должен попасть в запись")
		assert.False(t, acceptance.AcceptedAt.IsZero())
		agreementRepo.AssertExpectations(t)
	})

	t.Run("Signer email mismatch is rejected", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		params := validParams()
		params.SignerEmail = "someone-else@example.com"

		_, err := svc.RecordAgreementAcceptance(params)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "Чужой email - это ошибка валидации")
		agreementRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Email comparison is case insensitive", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		agreementRepo.On("Create", mock.AnythingOfType("*entity.AgreementAcceptance")).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		params := validParams()
		params.SignerEmail = "Jordan@Example.COM"

		_, err := svc.RecordAgreementAcceptance(params)

		assert.NoError(t, err, "Разница в регистре email не должна блокировать подписание")
	})

	t.Run("Unknown agreement type is rejected", func(t *testing.T) {
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		params := validParams()
		params.AgreementType = "pinky-promise"

		_, err := svc.RecordAgreementAcceptance(params)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Repeated signing creates a new history row", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		agreementRepo.On("Create", mock.AnythingOfType("*entity.AgreementAcceptance")).Return(nil).Twice()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		// Подписываем версию 1.0, потом 2.0 того же документа
		params := validParams()
		params.DocumentVersion = "1.0"
		_, err := svc.RecordAgreementAcceptance(params)
		require.NoError(t, err)

		params.DocumentVersion = "2.0"
		_, err = svc.RecordAgreementAcceptance(params)
		require.NoError(t, err)

		agreementRepo.AssertNumberOfCalls(t, "Create", 2)
	})
}

func TestComplianceService_RecordHandbookAcknowledgment(t *testing.T) {
	t.Run("All five sections required", func(t *testing.T) {
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, handbookRepo, new(MockOnboardingProgressRepository))

		_, err := svc.RecordHandbookAcknowledgment(HandbookAcknowledgmentParams{
			UserID:          testUserID,
			HandbookVersion: "2024.1",
			Attendance:      true,
			DressCode:       true,
			Conduct:         true,
			Safety:          true,
			// GrievancePolicy не подтверждена
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "Частичное подтверждение должно отклоняться")
		handbookRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Complete acknowledgment is stored", func(t *testing.T) {
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		handbookRepo.On("Create", mock.AnythingOfType("*entity.HandbookAcknowledgment")).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, handbookRepo, new(MockOnboardingProgressRepository))

		ack, err := svc.RecordHandbookAcknowledgment(HandbookAcknowledgmentParams{
			UserID:          testUserID,
			HandbookVersion: "2024.1",
			Attendance:      true,
			DressCode:       true,
			Conduct:         true,
			Safety:          true,
			GrievancePolicy: true,
		})

		require.NoError(t, err)
		assert.True(t, ack.AllAcknowledged())
		handbookRepo.AssertExpectations(t)
	})
}

func TestComplianceService_UpdateOnboardingProgress(t *testing.T) {
	t.Run("First step creates row and moves to in_progress", func(t *testing.T) {
		onboardingRepo := new(MockOnboardingProgressRepository)
		onboardingRepo.On("GetByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()
		onboardingRepo.On("Upsert", mock.MatchedBy(func(p *entity.OnboardingProgress) bool {
			return p.UserID == testUserID && p.ProfileComplete && p.Status == entity.OnboardingInProgress
		})).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), onboardingRepo)

		err := svc.UpdateOnboardingProgress(testUserID, entity.StepProfile, true)

		assert.NoError(t, err)
		onboardingRepo.AssertExpectations(t)
	})

	t.Run("Last step completes onboarding", func(t *testing.T) {
		onboardingRepo := new(MockOnboardingProgressRepository)
		onboardingRepo.On("GetByUserID", testUserID).Return(&entity.OnboardingProgress{
			UserID:             testUserID,
			ProfileComplete:    true,
			AgreementsComplete: true,
			HandbookComplete:   true,
			Status:             entity.OnboardingInProgress,
		}, nil).Once()
		onboardingRepo.On("Upsert", mock.MatchedBy(func(p *entity.OnboardingProgress) bool {
			return p.Status == entity.OnboardingCompleted && p.CompletedAt != nil
		})).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), onboardingRepo)

		err := svc.UpdateOnboardingProgress(testUserID, entity.StepDocuments, true)

		assert.NoError(t, err, "Завершение последнего шага не должно возвращать ошибку")
		onboardingRepo.AssertExpectations(t)
	})

	t.Run("Revoking a step demotes completed onboarding", func(t *testing.T) {
		completedAt := time.Now().Add(-24 * time.Hour)
		onboardingRepo := new(MockOnboardingProgressRepository)
		onboardingRepo.On("GetByUserID", testUserID).Return(&entity.OnboardingProgress{
			UserID:             testUserID,
			ProfileComplete:    true,
			AgreementsComplete: true,
			HandbookComplete:   true,
			DocumentsComplete:  true,
			Status:             entity.OnboardingCompleted,
			CompletedAt:        &completedAt,
		}, nil).Once()
		onboardingRepo.On("Upsert", mock.MatchedBy(func(p *entity.OnboardingProgress) bool {
			return p.Status == entity.OnboardingInProgress && !p.HandbookComplete
		})).Return(nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), onboardingRepo)

		err := svc.UpdateOnboardingProgress(testUserID, entity.StepHandbook, false)

		assert.NoError(t, err)
		onboardingRepo.AssertExpectations(t)
	})

	t.Run("Unknown step is rejected", func(t *testing.T) {
		onboardingRepo := new(MockOnboardingProgressRepository)
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			nil, new(MockHandbookAcknowledgmentRepository), onboardingRepo)

		err := svc.UpdateOnboardingProgress(testUserID, "fitness", true)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		onboardingRepo.AssertNotCalled(t, "Upsert", mock.Anything)
	})
}

func TestComplianceService_GetCurrentAgreementVersions(t *testing.T) {
	t.Run("First row per type wins", func(t *testing.T) {
		versionRepo := new(MockAgreementVersionRepository)
		newer := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		// Репозиторий отдаёт строки отсортированными по убыванию effective_date
		versionRepo.On("GetCurrent").Return([]*entity.AgreementVersion{
			{AgreementType: entity.AgreementTOS, Version: "2.0", EffectiveDate: newer},
			{AgreementType: entity.AgreementTOS, Version: "1.0", EffectiveDate: older},
			{AgreementType: entity.AgreementFERPA, Version: "1.2", EffectiveDate: older},
		}, nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), new(MockAgreementAcceptanceRepository),
			versionRepo, new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		current, err := svc.GetCurrentAgreementVersions()

		require.NoError(t, err)
		assert.Len(t, current, 2)
		assert.Equal(t, "2.0", current[entity.AgreementTOS].Version, "Актуальной должна быть последняя версия tos")
		assert.Equal(t, "1.2", current[entity.AgreementFERPA].Version)
	})
}

func TestComplianceService_StatusCacheKey(t *testing.T) {
	newSvcWithCache := func(portalRepo *MockPortalAccessRepository, agreementRepo *MockAgreementAcceptanceRepository,
		handbookRepo *MockHandbookAcknowledgmentRepository, onboardingRepo *MockOnboardingProgressRepository,
		cacheRepo *MockCacheRepository) *ComplianceService {
		return NewComplianceService(portalRepo, agreementRepo, nil, handbookRepo, onboardingRepo,
			cacheRepo, nil, 30*time.Second)
	}

	t.Run("Unknown context is cached under the default key", func(t *testing.T) {
		portalRepo := new(MockPortalAccessRepository)
		agreementRepo := new(MockAgreementAcceptanceRepository)
		handbookRepo := new(MockHandbookAcknowledgmentRepository)
		onboardingRepo := new(MockOnboardingProgressRepository)
		cacheRepo := new(MockCacheRepository)

		defaultKey := "compliance:status:" + testUserID + ":" + ContextDefault
		cacheRepo.On("GetJSON", defaultKey, mock.Anything).Return(errors.New("cache miss")).Once()
		cacheRepo.On("SetJSON", defaultKey, mock.Anything, 30*time.Second).Return(nil).Once()

		portalRepo.On("CanAccess", testUserID).Return(false, nil).Once()
		onboardingRepo.On("GetByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()
		agreementRepo.On("GetSignedTypes", testUserID).Return(map[string]bool{}, nil).Once()
		handbookRepo.On("GetLatestByUserID", testUserID).Return(nil, apperrors.ErrNotFound).Once()

		svc := newSvcWithCache(portalRepo, agreementRepo, handbookRepo, onboardingRepo, cacheRepo)

		// Псевдоним резолвится в default и для таблицы соглашений, и для кеша:
		// ключи с сырым псевдонимом пережили бы write-инвалидацию до конца TTL
		status := svc.CheckStatus(testUserID, "portal-admin")

		assert.False(t, status.CanAccess)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("Write invalidation covers every cacheable key", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		cacheRepo := new(MockCacheRepository)

		agreementRepo.On("Create", mock.AnythingOfType("*entity.AgreementAcceptance")).Return(nil).Once()
		cacheRepo.On("Delete", mock.AnythingOfType("string")).Return(nil)

		svc := NewComplianceService(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository),
			cacheRepo, nil, 30*time.Second)

		_, err := svc.RecordAgreementAcceptance(AgreementAcceptanceParams{
			UserID:          testUserID,
			AgreementType:   entity.AgreementEnrollment,
			DocumentVersion: "2.1",
			SignerName:      "Jordan Smith",
			SignerEmail:     "jordan@example.com",
			AuthEmail:       "jordan@example.com",
			SignatureMethod: entity.SignatureMethodTyped,
		})

		require.NoError(t, err)
		// Сброс обязан задеть и default-ключ, под которым кешируются псевдонимы
		cacheRepo.AssertCalled(t, "Delete", "compliance:status:"+testUserID+":"+ContextDefault)
		for _, accessContext := range []string{ContextStudent, ContextPartner, ContextEmployer, ContextLicensee} {
			cacheRepo.AssertCalled(t, "Delete", "compliance:status:"+testUserID+":"+accessContext)
		}
	})
}

func TestComplianceService_GetUserAgreements(t *testing.T) {
	t.Run("History is returned newest first", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		newest := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		middle := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
		oldest := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
		agreementRepo.On("GetAllByUserID", testUserID).Return([]*entity.AgreementAcceptance{
			{AgreementType: entity.AgreementHandbook, DocumentVersion: "3.0", AcceptedAt: newest},
			{AgreementType: entity.AgreementEnrollment, DocumentVersion: "2.1", AcceptedAt: middle},
			{AgreementType: entity.AgreementEnrollment, DocumentVersion: "2.0", AcceptedAt: oldest},
		}, nil).Once()

		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		history, err := svc.GetUserAgreements(testUserID)

		require.NoError(t, err)
		require.Len(t, history, 3)
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i].AcceptedAt.After(history[i-1].AcceptedAt),
				"История должна идти от новых записей к старым")
		}
		assert.Equal(t, "3.0", history[0].DocumentVersion)
	})

	t.Run("Empty user id is rejected", func(t *testing.T) {
		agreementRepo := new(MockAgreementAcceptanceRepository)
		svc := newComplianceServiceForTest(new(MockPortalAccessRepository), agreementRepo, nil,
			new(MockHandbookAcknowledgmentRepository), new(MockOnboardingProgressRepository))

		_, err := svc.GetUserAgreements("  ")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		agreementRepo.AssertNotCalled(t, "GetAllByUserID", mock.Anything)
	})
}
