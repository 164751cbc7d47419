package user

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
// 📄 List all, username ascending
func (r *Repository) List(ctx context.Context) ([]User, error) {
	var users []User
	err := r.DB.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether another user (not exceptID) already uses email
func (r *Repository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&User{}).Where("LOWER(email) = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&User{}).Error
}

// CountEvents returns how many events name the user as responsible
func (r *Repository) CountEvents(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table("events").Where("created_by = ?", id).Count(&count).Error
	return count, err
}
