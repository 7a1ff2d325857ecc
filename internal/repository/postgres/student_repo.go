package postgres

import (
	"errors"
	"fmt"

	"github.com/yourusername/elevate-api/internal/domain/entity"
	apperrors "github.com/yourusername/elevate-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// StudentProfileRepo реализует StudentProfileRepository
type StudentProfileRepo struct {
	db *gorm.DB
}

// NewStudentProfileRepo создает новый экземпляр
func NewStudentProfileRepo(db *gorm.DB) *StudentProfileRepo {
	return &StudentProfileRepo{db: db}
}

// GetByID возвращает профиль студента
func (r *StudentProfileRepo) GetByID(id string) (*entity.StudentProfile, error) {
	var profile entity.StudentProfile
	err := r.db.Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return &profile, nil
}
