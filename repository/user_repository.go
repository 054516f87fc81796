package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count, err
}

func (r *UserRepository) Update(id uint, updates map[string]any) error {
	return r.db.Model(&entity.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *UserRepository) SetFCMToken(id uint, token string) error {
	return r.db.Model(&entity.User{}).Where("id = ?", id).Update("fcm_token", token).Error
}

func (r *UserRepository) ListByRole(role string, out *[]entity.User) error {
	return r.db.Where("role = ?", role).Order("id").Find(out).Error
}

// CollectorTokens returns the device tokens of all collectors with a
// registered device.
func (r *UserRepository) CollectorTokens() ([]string, error) {
	var tokens []string
	err := r.db.Model(&entity.User{}).
		Where("role = ? AND fcm_token <> ''", entity.RoleCollector).
		Pluck("fcm_token", &tokens).Error
	return tokens, err
}
