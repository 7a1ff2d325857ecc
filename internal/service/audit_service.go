package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/elevate-api/internal/domain/entity"
	"github.com/yourusername/elevate-api/internal/domain/repository"
)

// Типы событий аудита, порождаемых ядром
const (
	EventAgreementAccepted     = "AGREEMENT_ACCEPTED"
	EventHandbookAcknowledged  = "HANDBOOK_ACKNOWLEDGED"
	EventOnboardingStepUpdated = "ONBOARDING_STEP_UPDATED"
	EventMiladyProvisioned     = "MILADY_PROVISIONED"
	EventMiladyQueued          = "MILADY_PROVISIONING_QUEUED"
	EventMiladyManuallyDone    = "MILADY_MANUALLY_PROVISIONED"
	EventMiladyPaymentError    = "MILADY_PAYMENT_ERROR"
)

// AuditService - best-effort асинхронный сток аудита. Запись никогда не
// блокирует и не роняет вызывающую операцию: при переполненном буфере событие
// теряется с записью в лог, ошибки вставки только логируются.
type AuditService struct {
	repo   repository.ComplianceAuditLogRepository
	events chan entity.ComplianceAuditLog
	done   chan struct{}
}

// NewAuditService создает сервис аудита и запускает writer-горутину
func NewAuditService(repo repository.ComplianceAuditLogRepository, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	s := &AuditService{
		repo:   repo,
		events: make(chan entity.ComplianceAuditLog, bufferSize),
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// Log ставит событие в очередь на запись. Fire-and-forget.
func (s *AuditService) Log(event entity.ComplianceAuditLog) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case s.events <- event:
	default:
		// Буфер полон: аудит не имеет права тормозить основную операцию
		log.Printf("[AuditService] буфер переполнен, событие %s отброшено (user=%s)", event.EventType, event.UserID)
	}
}

func (s *AuditService) writeLoop() {
	defer close(s.done)
	for event := range s.events {
		if err := s.repo.Create(&event); err != nil {
			log.Printf("[AuditService] не удалось записать событие %s: %v", event.EventType, err)
		}
	}
}

// Close останавливает приём и дожидается записи накопленных событий
// (или истечения контекста)
func (s *AuditService) Close(ctx context.Context) error {
	close(s.events)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
