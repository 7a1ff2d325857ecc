package repository

import (
	"time"

	"github.com/yourusername/elevate-api/internal/domain/entity"
)

// MiladyAccessRepository интерфейс для итогов провижининга.
// Upsert-семантика по (student_id, program_slug).
type MiladyAccessRepository interface {
	// Upsert создаёт или перезаписывает итог провижининга студента
	Upsert(access *entity.MiladyAccess) error

	// GetByStudentAndProgram возвращает итог или apperrors.ErrNotFound
	GetByStudentAndProgram(studentID, programSlug string) (*entity.MiladyAccess, error)

	// Activate переводит pending_setup в active (админское действие).
	// Возвращает число затронутых строк: 0 означает, что пары нет.
	Activate(studentID, programSlug, username, licenseCode, accessURL string, at time.Time) (int64, error)
}

// MiladyLicenseCodeRepository интерфейс для пула предоплаченных кодов
type MiladyLicenseCodeRepository interface {
	// AssignAvailable атомарно назначает один доступный код программы студенту.
	// Условие status='available' проверяется в самом UPDATE (RowsAffected==1);
	// проигравший гонку получает apperrors.ErrConflict, при пустом пуле -
	// apperrors.ErrNotFound.
	AssignAvailable(programSlug, studentID string, at time.Time) (*entity.MiladyLicenseCode, error)
}

// MiladyProvisioningQueueRepository интерфейс для очереди ручного провижининга
type MiladyProvisioningQueueRepository interface {
	// Upsert создаёт или обновляет рабочий элемент по (student_id, program_slug)
	Upsert(item *entity.MiladyProvisioningQueue) error

	// Complete помечает элемент выполненным; возвращает число затронутых строк
	Complete(studentID, programSlug string, at time.Time) (int64, error)

	// ListPending возвращает незакрытые элементы очереди, старые первыми
	ListPending() ([]*entity.MiladyProvisioningQueue, error)
}

// VendorPaymentRepository интерфейс для задолженностей перед вендорами
type VendorPaymentRepository interface {
	// Create вставляет строку платежа
	Create(payment *entity.VendorPayment) error

	// MarkPaid переводит pending в paid по (enrollment, vendor); идемпотентно
	MarkPaid(enrollmentID, vendorName string, at time.Time) error

	// MarkPaidByStudent переводит pending в paid по (student, vendor);
	// используется при закрытии ручного провижининга
	MarkPaidByStudent(studentID, vendorName string, at time.Time) error

	// ListPending возвращает все платежи в статусе pending
	ListPending(vendorName string) ([]*entity.VendorPayment, error)
}

// StudentProfileRepository интерфейс для профилей студентов (read-only для ядра)
type StudentProfileRepository interface {
	// GetByID возвращает профиль или apperrors.ErrNotFound
	GetByID(id string) (*entity.StudentProfile, error)
}

// EnrollmentRepository интерфейс для денормализованной проекции зачисления
type EnrollmentRepository interface {
	// UpdateVendorStatus обновляет вендорные поля зачисления
	UpdateVendorStatus(enrollmentID, status, accessURL string, at time.Time) error
}
