package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/elevate-api/internal/domain/entity"
)

type MockComplianceAuditLogRepository struct {
	mock.Mock
}

func (m *MockComplianceAuditLogRepository) Create(log *entity.ComplianceAuditLog) error {
	args := m.Called(log)
	return args.Error(0)
}

func TestAuditService_LogAndClose(t *testing.T) {
	t.Run("Close drains queued events into the repository", func(t *testing.T) {
		repo := new(MockComplianceAuditLogRepository)
		var written []*entity.ComplianceAuditLog
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).
			Run(func(args mock.Arguments) {
				written = append(written, args.Get(0).(*entity.ComplianceAuditLog))
			}).Return(nil)

		svc := NewAuditService(repo, 0)
		svc.Log(entity.ComplianceAuditLog{EventType: EventAgreementAccepted, UserID: testUserID})
		svc.Log(entity.ComplianceAuditLog{EventType: EventHandbookAcknowledged, UserID: testUserID})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Close(ctx))

		require.Len(t, written, 2, "оба события должны дойти до репозитория до выхода из Close")
		assert.Equal(t, EventAgreementAccepted, written[0].EventType)
		assert.Equal(t, EventHandbookAcknowledged, written[1].EventType)
	})

	t.Run("Log fills in event id and timestamp when absent", func(t *testing.T) {
		repo := new(MockComplianceAuditLogRepository)
		var written *entity.ComplianceAuditLog
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).
			Run(func(args mock.Arguments) {
				written = args.Get(0).(*entity.ComplianceAuditLog)
			}).Return(nil).Once()

		svc := NewAuditService(repo, 0)
		svc.Log(entity.ComplianceAuditLog{EventType: EventOnboardingStepUpdated, UserID: testUserID})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Close(ctx))

		require.NotNil(t, written)
		assert.NotEmpty(t, written.EventID, "EventID должен быть сгенерирован")
		assert.False(t, written.CreatedAt.IsZero(), "CreatedAt должен быть проставлен")
	})

	t.Run("Full buffer drops event without blocking the caller", func(t *testing.T) {
		repo := new(MockComplianceAuditLogRepository)
		taken := make(chan struct{})
		release := make(chan struct{})
		// Первая вставка висит до release: writer занят, буфер размера 1
		// заполняется вторым событием, третьему места нет
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).
			Run(func(args mock.Arguments) {
				close(taken)
				<-release
			}).Return(nil).Once()
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).Return(nil)

		svc := NewAuditService(repo, 1)
		svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyProvisioned, UserID: testUserID})
		<-taken
		svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyQueued, UserID: testUserID})

		done := make(chan struct{})
		go func() {
			svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyManuallyDone, UserID: testUserID})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Log заблокировался на переполненном буфере")
		}

		close(release)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Close(ctx))

		// Первое и второе записаны, третье отброшено
		repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Repository failure does not stop the writer", func(t *testing.T) {
		repo := new(MockComplianceAuditLogRepository)
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).
			Return(errors.New("insert failed")).Once()
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).Return(nil).Once()

		svc := NewAuditService(repo, 0)
		svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyPaymentError, UserID: testUserID})
		svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyProvisioned, UserID: testUserID})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Close(ctx))

		repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Close gives up when drain exceeds the deadline", func(t *testing.T) {
		repo := new(MockComplianceAuditLogRepository)
		release := make(chan struct{})
		defer close(release)
		repo.On("Create", mock.AnythingOfType("*entity.ComplianceAuditLog")).
			Run(func(args mock.Arguments) { <-release }).Return(nil)

		svc := NewAuditService(repo, 4)
		svc.Log(entity.ComplianceAuditLog{EventType: EventMiladyQueued, UserID: testUserID})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := svc.Close(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
