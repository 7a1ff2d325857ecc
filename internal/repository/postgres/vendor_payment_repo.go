package postgres

import (
	"fmt"
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// VendorPaymentRepo реализует VendorPaymentRepository
type VendorPaymentRepo struct {
	db *gorm.DB
}

// NewVendorPaymentRepo создает новый экземпляр
func NewVendorPaymentRepo(db *gorm.DB) *VendorPaymentRepo {
	return &VendorPaymentRepo{db: db}
}

// Create вставляет строку платежа вендору
func (r *VendorPaymentRepo) Create(payment *entity.VendorPayment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create vendor payment: %w", err)
	}
	return nil
}

// MarkPaid переводит pending в paid по (enrollment, vendor).
// Условие status='pending' в WHERE делает операцию идемпотентной:
// повторный вызов не трогает уже оплаченные строки.
func (r *VendorPaymentRepo) MarkPaid(enrollmentID, vendorName string, at time.Time) error {
	err := r.db.Model(&entity.VendorPayment{}).
		Where("enrollment_id = ? AND vendor_name = ? AND status = ?", enrollmentID, vendorName, entity.VendorPaymentPending).
		Updates(map[string]interface{}{
			"status":  entity.VendorPaymentPaid,
			"paid_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark vendor payment paid: %w", err)
	}
	return nil
}

// MarkPaidByStudent переводит pending в paid по (student, vendor)
func (r *VendorPaymentRepo) MarkPaidByStudent(studentID, vendorName string, at time.Time) error {
	err := r.db.Model(&entity.VendorPayment{}).
		Where("student_id = ? AND vendor_name = ? AND status = ?", studentID, vendorName, entity.VendorPaymentPending).
		Updates(map[string]interface{}{
			"status":  entity.VendorPaymentPaid,
			"paid_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark vendor payment paid by student: %w", err)
	}
	return nil
}

// ListPending возвращает все платежи вендору в статусе pending, старые первыми
func (r *VendorPaymentRepo) ListPending(vendorName string) ([]*entity.VendorPayment, error) {
	var payments []*entity.VendorPayment
	err := r.db.Where("vendor_name = ? AND status = ?", vendorName, entity.VendorPaymentPending).
		Order("created_at").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending vendor payments: %w", err)
	}
	return payments, nil
}
