package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Status values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Resource   string         `gorm:"size:50;not null;index" json:"resource"` // events, event-types, users
	ResourceID *string        `gorm:"size:36;index" json:"resource_id"`       // nullable (failed creations)
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	Details    datatypes.JSON `json:"details"` // freeform JSON details
	IPAddress  string         `gorm:"size:45" json:"ip_address"`
	Status     string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id"`
	Action     string     `json:"action"`
	Status     string     `json:"status"`
	FromDate   *time.Time `json:"from_date"`
	ToDate     *time.Time `json:"to_date"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
