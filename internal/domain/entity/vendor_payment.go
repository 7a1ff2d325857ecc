package entity

import "time"

// Статусы платежей вендору
const (
	VendorPaymentPending = "pending"
	VendorPaymentPaid    = "paid"
)

// VendorPayment - задолженность перед сторонним вендором за доступ одного
// студента (например, $295 Milady за курс). pending переводится в paid
// отдельной сверкой, идемпотентной по (enrollment, vendor).
type VendorPayment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	EnrollmentID  string     `gorm:"size:100;not null;index" json:"enrollment_id"`
	StudentID     string     `gorm:"type:uuid;not null;index" json:"student_id"`
	VendorName    string     `gorm:"size:50;not null;index" json:"vendor_name"`
	ProgramSlug   string     `gorm:"size:100;not null" json:"program_slug"`
	Amount        float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status        string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod string     `gorm:"size:30" json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	Metadata      JSONMap    `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (VendorPayment) TableName() string {
	return "vendor_payments"
}
