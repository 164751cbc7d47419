package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharath018/event-scheduler-backend/internal/eventtype"
	"github.com/sharath018/event-scheduler-backend/internal/user"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Timezone    string    `gorm:"type:varchar(64);not null" json:"timezone"`
	IsPublic    bool      `gorm:"not null" json:"isPublic"`
	EventTypeID string    `gorm:"type:varchar(36);not null;index" json:"eventTypeId"`
	CreatedBy   string    `gorm:"type:varchar(36);not null;index" json:"createdBy"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	EventType *eventtype.EventType `gorm:"foreignKey:EventTypeID" json:"eventType,omitempty"`
	User      *user.User           `gorm:"foreignKey:CreatedBy" json:"user,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`               // RFC 3339 instant
	Timezone    string `json:"timezone,omitempty"` // IANA zone, defaults to UTC
	UserID      string `json:"userId"`
	EventTypeID string `json:"eventTypeId"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// ============================
// 🟠 Reassign Event Request, only one foreign key is expected per call
type ReassignEventRequest struct {
	UserID      *string `json:"userId,omitempty"`
	EventTypeID *string `json:"eventTypeId,omitempty"`
}

type DeleteEventRequest struct {
	ID string `json:"id"`
}

// ============================
// 📄 Listing
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type ListResult struct {
	Events     []Event `json:"events"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// ExportQuery selects the events written by an export; nil bounds are open
type ExportQuery struct {
	Search string
	From   *time.Time
	To     *time.Time
}

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)
