package eventtype

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 📄 List all, label ascending
func (r *Repository) List(ctx context.Context) ([]EventType, error) {
	var types []EventType
	err := r.DB.WithContext(ctx).Order("label ASC").Find(&types).Error
	return types, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*EventType, error) {
	var t EventType
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&EventType{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&EventType{}).Count(&count).Error
	return count, err
}

func (r *Repository) Create(ctx context.Context, t *EventType) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *Repository) UpdateLabel(ctx context.Context, id, label string) error {
	return r.DB.WithContext(ctx).Model(&EventType{}).Where("id = ?", id).Update("label", label).Error
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&EventType{}).Error
}

// CountEvents returns how many events reference the type
func (r *Repository) CountEvents(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table("events").Where("event_type_id = ?", id).Count(&count).Error
	return count, err
}
