package reports

import (
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/event"
)

const (
	// Report format constants
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
	FormatICS   = "ics"

	// Date range constants
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	// NotAvailable is rendered for a missing type or responsible user
	NotAvailable = "N/A"
)

// EventReportRow is one exported event, flattened and rendered in its own timezone
type EventReportRow struct {
	ID          string
	Name        string
	Description string
	EventType   string
	Responsible string
	Email       string
	Date        time.Time // UTC instant
	LocalDate   time.Time // Date in Timezone
	Timezone    string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExportRequest is bound from the export query string
type ExportRequest struct {
	Format    string `form:"format"`
	Search    string `form:"search"`
	DateRange string `form:"date_range"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// RowsFromEvents flattens events; unresolved references render as NotAvailable
func RowsFromEvents(events []event.Event) []EventReportRow {
	rows := make([]EventReportRow, 0, len(events))
	for _, e := range events {
		row := EventReportRow{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			EventType:   NotAvailable,
			Responsible: NotAvailable,
			Date:        e.Date.UTC(),
			LocalDate:   e.Date.UTC(),
			Timezone:    e.Timezone,
			IsPublic:    e.IsPublic,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
		if e.EventType != nil {
			row.EventType = e.EventType.Label
		}
		if e.User != nil {
			row.Responsible = e.User.Username
			row.Email = e.User.Email
		}
		if loc, err := time.LoadLocation(e.Timezone); err == nil {
			row.LocalDate = e.Date.In(loc)
		}
		rows = append(rows, row)
	}
	return rows
}
