package postgres

import (
	"fmt"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MiladyProvisioningQueueRepo реализует MiladyProvisioningQueueRepository
type MiladyProvisioningQueueRepo struct {
	db *gorm.DB
}

// NewMiladyProvisioningQueueRepo создает новый экземпляр
func NewMiladyProvisioningQueueRepo(db *gorm.DB) *MiladyProvisioningQueueRepo {
	return &MiladyProvisioningQueueRepo{db: db}
}

// Upsert создаёт или обновляет рабочий элемент по (student_id, program_slug)
func (r *MiladyProvisioningQueueRepo) Upsert(item *entity.MiladyProvisioningQueue) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "program_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"student_email", "student_name", "course_code", "amount_to_pay",
			"notes", "status", "updated_at",
		}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to upsert provisioning queue entry: %w", err)
	}
	return nil
}

// Complete помечает элемент очереди выполненным
func (r *MiladyProvisioningQueueRepo) Complete(studentID, programSlug string, at time.Time) (int64, error) {
	result := r.db.Model(&entity.MiladyProvisioningQueue{}).
		Where("student_id = ? AND program_slug = ? AND status = ?", studentID, programSlug, entity.QueuePending).
		Updates(map[string]interface{}{
			"status":       entity.QueueCompleted,
			"processed_at": at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to complete provisioning queue entry: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListPending возвращает незакрытые элементы очереди, старые первыми
func (r *MiladyProvisioningQueueRepo) ListPending() ([]*entity.MiladyProvisioningQueue, error) {
	var items []*entity.MiladyProvisioningQueue
	err := r.db.Where("status = ?", entity.QueuePending).Order("created_at").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending queue entries: %w", err)
	}
	return items, nil
}
