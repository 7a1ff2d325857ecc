package entity

import "time"

// Статусы очереди ручного провижининга
const (
	QueuePending   = "pending"
	QueueCompleted = "completed"
)

// MiladyProvisioningQueue - рабочий элемент для оператора, создаётся когда
// автоматические методы провижининга исчерпаны. Закрывается админским
// действием MarkManuallyProvisioned.
type MiladyProvisioningQueue struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    string     `gorm:"type:uuid;not null;uniqueIndex:ux_milady_queue_student_program" json:"student_id"`
	StudentEmail string     `gorm:"size:255;not null" json:"student_email"`
	StudentName  string     `gorm:"size:255" json:"student_name,omitempty"`
	ProgramSlug  string     `gorm:"size:100;not null;uniqueIndex:ux_milady_queue_student_program" json:"program_slug"`
	CourseCode   string     `gorm:"size:100" json:"course_code,omitempty"`
	AmountToPay  float64    `gorm:"type:numeric(10,2)" json:"amount_to_pay,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	Status       string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (MiladyProvisioningQueue) TableName() string {
	return "milady_provisioning_queue"
}
