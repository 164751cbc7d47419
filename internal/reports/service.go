package reports

import (
	"context"
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/internal/event"
	"github.com/sharath018/event-scheduler-backend/utils"
)

// EventSource is the part of the event service exports read from
type EventSource interface {
	Export(ctx context.Context, q event.ExportQuery) ([]event.Event, error)
}

// ReportService coordinates the event source and the exporter
type ReportService interface {
	ExportEvents(ctx context.Context, req ExportRequest, ip string) ([]byte, string, string, error)
}

type reportService struct {
	events   EventSource
	exporter ReportExporter
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewReportService(events EventSource, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{
		events:   events,
		exporter: exporter,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

func (s *reportService) ExportEvents(ctx context.Context, req ExportRequest, ip string) ([]byte, string, string, error) {
	if req.Format == "" {
		req.Format = FormatCSV
	}

	from, to, err := GetDateRange(req.DateRange, req.StartDate, req.EndDate, s.now())
	if err != nil {
		return nil, "", "", utils.BadRequest(err.Error())
	}

	events, err := s.events.Export(ctx, event.ExportQuery{Search: req.Search, From: from, To: to})
	if err != nil {
		return nil, "", "", err
	}

	data, filename, mime, err := s.exporter.Export(req.Format, RowsFromEvents(events))
	if err != nil {
		s.audit(ctx, req, len(events), err.Error(), ip, auditlog.StatusFailure)
		return nil, "", "", utils.BadRequest(err.Error())
	}

	s.audit(ctx, req, len(events), "", ip, auditlog.StatusSuccess)
	return data, filename, mime, nil
}

func (s *reportService) audit(ctx context.Context, req ExportRequest, n int, reason, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	details := map[string]interface{}{
		"format":     req.Format,
		"search":     req.Search,
		"date_range": req.DateRange,
		"rows":       n,
	}
	if reason != "" {
		details["error"] = reason
	}
	_ = s.auditSvc.LogAction(ctx, changefeed.ResourceEvents, "", "EVENTS_EXPORTED", details, ip, status)
}
