package eventtype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================
// 🏷️ GORM EventType Model
type EventType struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"` // slug, fixed at creation
	Label     string    `gorm:"type:varchar(255);not null" json:"label"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (EventType) TableName() string {
	return "event_types"
}

func (t *EventType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ============================
// 🟡 Requests
type CreateEventTypeRequest struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type UpdateEventTypeRequest struct {
	Label string `json:"label"`
}

// DefaultLabels are seeded into an empty directory at startup
var DefaultLabels = []string{
	"Asesoría personalizada",
	"Trámites ante el SAT",
}
