package event

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/utils"
)

const (
	msgMissingFields = "Faltan campos obligatorios"
	msgIDRequired    = "ID requerido"
	msgNotFound      = "Event not found"
	msgBadDate       = "Fecha inválida, usa el formato ISO-8601"
	msgBadTimezone   = "Zona horaria inválida"
	msgUnknownUser   = "El usuario no existe"
	msgUnknownType   = "El tipo de evento no existe"
)

// ReferenceChecker resolves directory ids; the user and event type services satisfy it
type ReferenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service wraps business logic for scheduled events
type Service struct {
	Repo     *Repository
	Users    ReferenceChecker
	Types    ReferenceChecker
	AuditSvc auditlog.Service
	Feed     *changefeed.Feed
}

func NewService(r *Repository, users, types ReferenceChecker, auditSvc auditlog.Service, feed *changefeed.Feed) *Service {
	return &Service{Repo: r, Users: users, Types: types, AuditSvc: auditSvc, Feed: feed}
}

func (s *Service) logAction(ctx context.Context, id, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, changefeed.ResourceEvents, id, action, details, ip, status)
}

func (s *Service) checkRef(ctx context.Context, rc ReferenceChecker, id, missingMsg string) error {
	ok, err := rc.Exists(ctx, id)
	if err != nil {
		return utils.Internal("Ocurrió un error en el servidor.", err)
	}
	if !ok {
		return utils.BadRequest(missingMsg)
	}
	return nil
}

// ===========================
// 🎯 Create Event
func (s *Service) Create(ctx context.Context, req CreateEventRequest, ip string) (*Event, error) {
	name := strings.TrimSpace(req.Name)

	fail := func(reason string, err error) (*Event, error) {
		s.logAction(ctx, "", "EVENT_CREATED", map[string]interface{}{
			"name":          name,
			"event_type_id": req.EventTypeID,
			"user_id":       req.UserID,
			"error":         reason,
		}, ip, auditlog.StatusFailure)
		return nil, err
	}

	if name == "" || req.Date == "" || req.UserID == "" || req.EventTypeID == "" {
		return fail("missing fields", utils.BadRequest(msgMissingFields))
	}

	// 🔄 Parse Date
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return fail("invalid date", utils.BadRequest(msgBadDate))
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fail("invalid timezone", utils.BadRequest(msgBadTimezone))
	}

	if err := s.checkRef(ctx, s.Users, req.UserID, msgUnknownUser); err != nil {
		return fail("unknown user", err)
	}
	if err := s.checkRef(ctx, s.Types, req.EventTypeID, msgUnknownType); err != nil {
		return fail("unknown event type", err)
	}

	// 🛡 Handle optional IsPublic safely
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	e := &Event{
		Name:        name,
		Description: req.Description,
		Date:        date.UTC(),
		Timezone:    tz,
		IsPublic:    isPublic,
		EventTypeID: req.EventTypeID,
		CreatedBy:   req.UserID,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return fail(err.Error(), utils.Internal("Ocurrió un error en el servidor.", err))
	}

	s.logAction(ctx, e.ID, "EVENT_CREATED", map[string]interface{}{
		"name":          e.Name,
		"date":          e.Date.Format(time.RFC3339),
		"timezone":      e.Timezone,
		"event_type_id": e.EventTypeID,
		"user_id":       e.CreatedBy,
		"is_public":     e.IsPublic,
	}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEvents, changefeed.ActionCreated, e.ID)

	return s.Get(ctx, e.ID)
}

// ===========================
// 🔍 Get Event by ID
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound(msgNotFound)
		}
		return nil, utils.Internal("Error fetching event", err)
	}
	return e, nil
}

// ===========================
// 📄 List Events, page and limit are normalised before querying
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	events, total, err := s.Repo.List(ctx, q.Search, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, utils.Internal("Error fetching events", err)
	}
	if events == nil {
		events = []Event{}
	}

	return &ListResult{
		Events:     events,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// Export returns every event matching q, newest first
func (s *Service) Export(ctx context.Context, q ExportQuery) ([]Event, error) {
	events, err := s.Repo.ListAll(ctx, q.Search, q.From, q.To)
	if err != nil {
		return nil, utils.Internal("Error exporting events", err)
	}
	return events, nil
}

// ===========================
// 🔄 Reassign responsible user or event type.
// Only present, non-empty and changed keys are written; otherwise the event is returned as is.
func (s *Service) Reassign(ctx context.Context, id string, req ReassignEventRequest, ip string) (*Event, error) {
	if id == "" {
		return nil, utils.BadRequest("ID is required")
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	details := map[string]interface{}{}

	if req.UserID != nil && *req.UserID != "" && *req.UserID != e.CreatedBy {
		if err := s.checkRef(ctx, s.Users, *req.UserID, msgUnknownUser); err != nil {
			return nil, err
		}
		fields["created_by"] = *req.UserID
		details["user_id"] = map[string]string{"from": e.CreatedBy, "to": *req.UserID}
	}
	if req.EventTypeID != nil && *req.EventTypeID != "" && *req.EventTypeID != e.EventTypeID {
		if err := s.checkRef(ctx, s.Types, *req.EventTypeID, msgUnknownType); err != nil {
			return nil, err
		}
		fields["event_type_id"] = *req.EventTypeID
		details["event_type_id"] = map[string]string{"from": e.EventTypeID, "to": *req.EventTypeID}
	}

	if len(fields) == 0 {
		return e, nil
	}

	if err := s.Repo.Update(ctx, id, fields); err != nil {
		details["error"] = err.Error()
		s.logAction(ctx, id, "EVENT_UPDATED", details, ip, auditlog.StatusFailure)
		return nil, utils.Internal("Error updating event", err)
	}

	s.logAction(ctx, id, "EVENT_UPDATED", details, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEvents, changefeed.ActionUpdated, id)
	return s.Get(ctx, id)
}

// ===========================
// 🗑️ Delete Event, returns the removed record
func (s *Service) Delete(ctx context.Context, id string, ip string) (*Event, error) {
	if id == "" {
		return nil, utils.BadRequest(msgIDRequired)
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		s.logAction(ctx, id, "EVENT_DELETED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, utils.Internal("Error al eliminar el evento.", err)
	}

	s.logAction(ctx, id, "EVENT_DELETED", map[string]interface{}{
		"name": e.Name,
		"date": e.Date.Format(time.RFC3339),
	}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEvents, changefeed.ActionDeleted, id)
	return e, nil
}
