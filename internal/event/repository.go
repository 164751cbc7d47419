package event

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filtered builds a fresh query each call so Count and Find never share state
func (r *Repository) filtered(ctx context.Context, search string) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&Event{})
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where(r.searchClause(), "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	return q
}

// searchClause matches name case-insensitively, accents included
func (r *Repository) searchClause() string {
	switch r.DB.Dialector.Name() {
	case "postgres":
		return `name ILIKE ? ESCAPE '\'`
	case "sqlite":
		return `ulower(name) LIKE ? ESCAPE '\'`
	default:
		return `LOWER(name) LIKE ? ESCAPE '\'`
	}
}

// ===========================
// 🎯 Create Event
func (r *Repository) Create(ctx context.Context, e *Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

// ===========================
// 🔍 Get Event By ID, with type and responsible user
func (r *Repository) GetByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := r.DB.WithContext(ctx).
		Preload("EventType").
		Preload("User").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// 📄 List Events With Pagination & Search, newest date first
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Event, int64, error) {
	var total int64
	if err := r.filtered(ctx, search).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []Event
	err := r.filtered(ctx, search).
		Preload("EventType").
		Preload("User").
		Order("date DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListAll returns every matching event, optionally limited to [from, to], used by exports
func (r *Repository) ListAll(ctx context.Context, search string, from, to *time.Time) ([]Event, error) {
	q := r.filtered(ctx, search)
	if from != nil {
		q = q.Where("date >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("date <= ?", to.UTC())
	}

	var events []Event
	err := q.
		Preload("EventType").
		Preload("User").
		Order("date DESC").
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// ===========================
// 🔄 Update selected columns
func (r *Repository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(fields).Error
}

// ===========================
// 🗑️ Delete Event
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&Event{}).Error
}
