package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/elevate-api/internal/config"
	"github.com/yourusername/elevate-api/internal/domain/entity"
	"github.com/yourusername/elevate-api/internal/domain/repository"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
)

// ProvisioningResult - итог цепочки провижининга. Success всегда true:
// гарантия ядра в том, что студент получает хоть какой-то рабочий доступ,
// тупикового состояния не существует.
type ProvisioningResult struct {
	Success             bool   `json:"success"`
	Method              string `json:"method"`
	AccessURL           string `json:"access_url"`
	LicenseCode         string `json:"license_code,omitempty"`
	Username            string `json:"username,omitempty"`
	TemporaryPassword   string `json:"temporary_password,omitempty"`
	RequiresManualSetup bool   `json:"requires_manual_setup"`
	Error               string `json:"error,omitempty"`
}

// PaymentResult - итог оркестрации платежа вендору
type PaymentResult struct {
	Success             bool    `json:"success"`
	EnrollmentID        string  `json:"enrollment_id"`
	Method              string  `json:"method,omitempty"`
	AccessURL           string  `json:"access_url,omitempty"`
	RequiresManualSetup bool    `json:"requires_manual_setup"`
	Amount              float64 `json:"amount"`
	PaymentStatus       string  `json:"payment_status,omitempty"`
	Error               string  `json:"error,omitempty"`
}

// PendingPaymentsSummary - агрегат незакрытых платежей для ручной сверки
type PendingPaymentsSummary struct {
	Payments []*entity.VendorPayment `json:"payments"`
	Total    float64                 `json:"total"`
	Count    int                     `json:"count"`
}

// MiladyService - цепочка провижининга доступа Milady: после состоявшейся
// оплаты студент обязан получить доступ лучшим из доступных способов, и каждый
// исход должен быть durably записан.
type MiladyService struct {
	cfg          config.MiladyConfig
	apiClient    VendorAPIClient
	stripeClient StripeTransferClient
	studentRepo  repository.StudentProfileRepository
	accessRepo   repository.MiladyAccessRepository
	licenseRepo  repository.MiladyLicenseCodeRepository
	queueRepo    repository.MiladyProvisioningQueueRepository
	paymentRepo  repository.VendorPaymentRepository
	enrollRepo   repository.EnrollmentRepository
	email        EmailService
	audit        *AuditService
}

// NewMiladyService создает новый сервис провижининга.
// apiClient и stripeClient могут быть nil: соответствующие стратегии
// пропускаются, это валидная конфигурация, а не ошибка.
func NewMiladyService(
	cfg config.MiladyConfig,
	apiClient VendorAPIClient,
	stripeClient StripeTransferClient,
	studentRepo repository.StudentProfileRepository,
	accessRepo repository.MiladyAccessRepository,
	licenseRepo repository.MiladyLicenseCodeRepository,
	queueRepo repository.MiladyProvisioningQueueRepository,
	paymentRepo repository.VendorPaymentRepository,
	enrollRepo repository.EnrollmentRepository,
	email EmailService,
	audit *AuditService,
) *MiladyService {
	return &MiladyService{
		cfg:          cfg,
		apiClient:    apiClient,
		stripeClient: stripeClient,
		studentRepo:  studentRepo,
		accessRepo:   accessRepo,
		licenseRepo:  licenseRepo,
		queueRepo:    queueRepo,
		paymentRepo:  paymentRepo,
		enrollRepo:   enrollRepo,
		email:        email,
		audit:        audit,
	}
}

// ProvisionAccess проводит студента по цепочке стратегий строго по порядку:
// API -> лицензионный код -> Stripe Connect -> ручная очередь. Первый успех
// останавливает цепочку; стратегии никогда не выполняются параллельно, потому
// что каждая имеет побочные эффекты (создание аккаунта, расход кода).
// Последняя стратегия не умеет проваливаться, поэтому результат всегда успешен.
func (s *MiladyService) ProvisionAccess(ctx context.Context, student *entity.StudentProfile, programSlug string) *ProvisioningResult {
	now := time.Now()

	// Стратегия 1: прямой API вендора (только при настроенных ключах).
	// Любая ошибка гасится на границе стратегии и цепочка идёт дальше.
	if s.cfg.APIConfigured() && s.apiClient != nil {
		enrollment, err := s.apiClient.EnrollStudent(ctx, student, MiladyCourseSKU(programSlug))
		if err != nil {
			log.Printf("[MiladyService] API-стратегия не сработала для student=%s program=%s: %v", student.ID, programSlug, err)
		} else {
			s.recordAccess(&entity.MiladyAccess{
				StudentID:          student.ID,
				ProgramSlug:        programSlug,
				ProvisioningMethod: entity.ProvisionMethodAPI,
				AccessURL:          enrollment.LoginURL,
				Username:           student.Email,
				Status:             entity.AccessActive,
				ProvisionedAt:      &now,
			})
			return &ProvisioningResult{
				Success:           true,
				Method:            entity.ProvisionMethodAPI,
				AccessURL:         enrollment.LoginURL,
				Username:          student.Email,
				TemporaryPassword: enrollment.TemporaryPassword,
			}
		}
	}

	// Стратегия 2: предоплаченный лицензионный код.
	// Назначение - атомарный CAS в хранилище; проигранная гонка
	// (ErrConflict) и пустой пул (ErrNotFound) равнозначны провалу стратегии.
	code, err := s.licenseRepo.AssignAvailable(programSlug, student.ID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			log.Printf("[MiladyService] ошибка пула кодов для program=%s: %v", programSlug, err)
		}
	} else {
		redeemURL := fmt.Sprintf("%s?code=%s", miladyRedeemURL, code.Code)
		s.recordAccess(&entity.MiladyAccess{
			StudentID:          student.ID,
			ProgramSlug:        programSlug,
			ProvisioningMethod: entity.ProvisionMethodLicenseCode,
			AccessURL:          redeemURL,
			LicenseCode:        code.Code,
			Status:             entity.AccessActive,
			ProvisionedAt:      &now,
		})
		return &ProvisioningResult{
			Success:     true,
			Method:      entity.ProvisionMethodLicenseCode,
			AccessURL:   redeemURL,
			LicenseCode: code.Code,
		}
	}

	// Стратегия 3: оплата вендору через Stripe Connect. Вендор провиженит
	// аккаунт на своей стороне и сам шлёт учётные данные, поэтому доступ
	// записывается как active без ручной донастройки.
	if s.cfg.StripeAccountID != "" && s.stripeClient != nil {
		transferID, err := s.stripeClient.CreateTransfer(ctx,
			int64(MiladyCost(programSlug)*100),
			s.cfg.StripeAccountID,
			fmt.Sprintf("milady:%s:%s", student.ID, programSlug),
			map[string]string{
				"student_id":    student.ID,
				"student_email": student.Email,
				"program_slug":  programSlug,
				"purpose":       "milady_course_purchase",
			},
		)
		if err != nil {
			log.Printf("[MiladyService] Stripe-стратегия не сработала для student=%s: %v", student.ID, err)
		} else {
			log.Printf("[MiladyService] Stripe-перевод %s создан для student=%s program=%s", transferID, student.ID, programSlug)
			s.recordAccess(&entity.MiladyAccess{
				StudentID:          student.ID,
				ProgramSlug:        programSlug,
				ProvisioningMethod: entity.ProvisionMethodStripeConnect,
				AccessURL:          miladyLoginURL,
				Status:             entity.AccessActive,
				ProvisionedAt:      &now,
			})
			return &ProvisioningResult{
				Success:   true,
				Method:    entity.ProvisionMethodStripeConnect,
				AccessURL: miladyLoginURL,
			}
		}
	}

	// Стратегия 4: ручная очередь. Провалиться не может: даже если вставка
	// в очередь упала, студент получает общую ссылку на бандл программы.
	queueErr := s.queueRepo.Upsert(&entity.MiladyProvisioningQueue{
		StudentID:    student.ID,
		StudentEmail: student.Email,
		StudentName:  student.DisplayName(),
		ProgramSlug:  programSlug,
		CourseCode:   MiladyCourseSKU(programSlug),
		AmountToPay:  MiladyCost(programSlug),
		Notes:        "Auto-queued after student payment. Admin needs to purchase on Milady portal.",
		Status:       entity.QueuePending,
	})
	if queueErr != nil {
		log.Printf("[MiladyService] не удалось поставить student=%s в очередь: %v", student.ID, queueErr)
	}

	s.recordAccess(&entity.MiladyAccess{
		StudentID:          student.ID,
		ProgramSlug:        programSlug,
		ProvisioningMethod: entity.ProvisionMethodManual,
		AccessURL:          MiladyBundleURL(programSlug),
		Status:             entity.AccessPendingSetup,
		ProvisionedAt:      &now,
	})

	return &ProvisioningResult{
		Success:             true,
		Method:              entity.ProvisionMethodLink,
		AccessURL:           MiladyBundleURL(programSlug),
		RequiresManualSetup: true,
	}
}

// recordAccess - upsert итога провижининга; ошибка записи логируется, но не
// отменяет уже состоявшийся провижининг
func (s *MiladyService) recordAccess(access *entity.MiladyAccess) {
	if err := s.accessRepo.Upsert(access); err != nil {
		log.Printf("[MiladyService] не удалось записать milady_access student=%s program=%s: %v",
			access.StudentID, access.ProgramSlug, err)
	}
}

// ProcessVendorPayment - оркестрация после успешного платежа студента:
// профиль -> провижининг -> строка vendor_payments -> проекция зачисления ->
// аудит. Ошибки провижининга никогда не роняют вызывающий webhook: провал
// вендора не имеет права блокировать подтверждение зачисления.
func (s *MiladyService) ProcessVendorPayment(ctx context.Context, enrollmentID, studentID, programID string, amount float64) *PaymentResult {
	student, err := s.studentRepo.GetByID(studentID)
	if err != nil {
		msg := fmt.Sprintf("student profile not found: %s", studentID)
		if !errors.Is(err, apperrors.ErrNotFound) {
			msg = fmt.Sprintf("failed to load student profile %s: %v", studentID, err)
		}
		log.Printf("[MiladyService] %s", msg)
		s.logEvent(EventMiladyPaymentError, studentID, "", entity.JSONMap{
			"enrollment_id": enrollmentID,
			"program_id":    programID,
			"error":         msg,
		})
		return &PaymentResult{Success: false, EnrollmentID: enrollmentID, Error: msg}
	}

	if amount <= 0 {
		amount = MiladyCost(programID)
	}

	provision := s.ProvisionAccess(ctx, student, programID)

	// Оплаченным платёж считается только когда вендор реально получил деньги
	// (API, код из предоплаченного пула, Stripe-перевод). Ручная очередь
	// оставляет платёж pending до закрытия админом.
	paymentStatus := entity.VendorPaymentPending
	switch provision.Method {
	case entity.ProvisionMethodAPI, entity.ProvisionMethodLicenseCode, entity.ProvisionMethodStripeConnect:
		paymentStatus = entity.VendorPaymentPaid
	}

	now := time.Now()
	payment := &entity.VendorPayment{
		EnrollmentID:  enrollmentID,
		StudentID:     studentID,
		VendorName:    MiladyVendorName,
		ProgramSlug:   programID,
		Amount:        amount,
		Status:        paymentStatus,
		PaymentMethod: provision.Method,
		Metadata: entity.JSONMap{
			"provisioning_method":   provision.Method,
			"access_url":            provision.AccessURL,
			"license_code":          provision.LicenseCode,
			"requires_manual_setup": provision.RequiresManualSetup,
		},
	}
	if paymentStatus == entity.VendorPaymentPaid {
		payment.PaidAt = &now
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		log.Printf("[MiladyService] не удалось записать vendor_payment enrollment=%s: %v", enrollmentID, err)
	}

	vendorStatus := entity.AccessActive
	if provision.RequiresManualSetup {
		vendorStatus = entity.AccessPendingSetup
	}
	if err := s.enrollRepo.UpdateVendorStatus(enrollmentID, vendorStatus, provision.AccessURL, now); err != nil {
		log.Printf("[MiladyService] не удалось обновить проекцию зачисления %s: %v", enrollmentID, err)
	}

	eventType := EventMiladyProvisioned
	if provision.RequiresManualSetup {
		eventType = EventMiladyQueued
	}
	s.logEvent(eventType, studentID, student.Email, entity.JSONMap{
		"enrollment_id": enrollmentID,
		"program_id":    programID,
		"method":        provision.Method,
		"amount":        amount,
	})

	return &PaymentResult{
		Success:             true,
		EnrollmentID:        enrollmentID,
		Method:              provision.Method,
		AccessURL:           provision.AccessURL,
		RequiresManualSetup: provision.RequiresManualSetup,
		Amount:              amount,
		PaymentStatus:       paymentStatus,
	}
}

// MarkManuallyProvisioned - админский переход pending_setup -> active.
// Несуществующая пара (student, program) - это ErrNotFound, а не тихий no-op:
// опечатка оператора не должна выглядеть успехом.
func (s *MiladyService) MarkManuallyProvisioned(ctx context.Context, studentID, programSlug string, creds MiladyCredentials) error {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(programSlug) == "" {
		return fmt.Errorf("%w: student id and program slug are required", apperrors.ErrValidation)
	}

	now := time.Now()

	rows, err := s.accessRepo.Activate(studentID, programSlug, creds.Username, creds.LicenseCode, miladyLoginURL, now)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: no milady access record for student %s program %s", apperrors.ErrNotFound, studentID, programSlug)
	}

	if _, err := s.queueRepo.Complete(studentID, programSlug, now); err != nil {
		log.Printf("[MiladyService] не удалось закрыть очередь student=%s program=%s: %v", studentID, programSlug, err)
	}

	if err := s.paymentRepo.MarkPaidByStudent(studentID, MiladyVendorName, now); err != nil {
		log.Printf("[MiladyService] не удалось перевести платёж в paid student=%s: %v", studentID, err)
	}

	// Письмо с учётными данными - best effort
	if s.email != nil {
		student, err := s.studentRepo.GetByID(studentID)
		if err != nil {
			log.Printf("[MiladyService] профиль для письма не найден student=%s: %v", studentID, err)
		} else {
			idempotencyKey := fmt.Sprintf("milady-creds-%s-%s-%s", studentID, programSlug, uuid.New().String())
			if err := s.email.SendMiladyCredentials(ctx, student.Email, student.DisplayName(), creds, idempotencyKey); err != nil {
				log.Printf("[MiladyService] не удалось отправить учётные данные student=%s: %v", studentID, err)
			}
		}
	}

	s.logEvent(EventMiladyManuallyDone, studentID, "", entity.JSONMap{
		"program_slug": programSlug,
		"has_username": creds.Username != "",
		"has_license":  creds.LicenseCode != "",
	})

	return nil
}

// GetPendingMiladyPayments возвращает незакрытые платежи вендору с суммой и
// количеством для ручной сверки
func (s *MiladyService) GetPendingMiladyPayments() (*PendingPaymentsSummary, error) {
	payments, err := s.paymentRepo.ListPending(MiladyVendorName)
	if err != nil {
		return nil, err
	}

	summary := &PendingPaymentsSummary{
		Payments: payments,
		Count:    len(payments),
	}
	for _, p := range payments {
		summary.Total += p.Amount
	}
	return summary, nil
}

// GetProvisioningQueue возвращает незакрытые элементы очереди ручного
// провижининга, старые первыми
func (s *MiladyService) GetProvisioningQueue() ([]*entity.MiladyProvisioningQueue, error) {
	return s.queueRepo.ListPending()
}

func (s *MiladyService) logEvent(eventType, userID, userEmail string, details entity.JSONMap) {
	if s.audit == nil {
		return
	}
	s.audit.Log(entity.ComplianceAuditLog{
		EventType: eventType,
		UserID:    userID,
		UserEmail: userEmail,
		Details:   details,
	})
}
