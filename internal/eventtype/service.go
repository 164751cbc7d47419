package eventtype

import (
	"context"
	"log"
	"strings"

	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/utils"
)

const (
	msgRequired = "Name and label are required."
	msgNotFound = "Event type not found"
	msgInUse    = "No se puede eliminar el tipo de evento porque tiene eventos asociados."
)

// Service wraps business logic for the event type directory
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
	Feed     *changefeed.Feed
}

func NewService(r *Repository, auditSvc auditlog.Service, feed *changefeed.Feed) *Service {
	return &Service{Repo: r, AuditSvc: auditSvc, Feed: feed}
}

func (s *Service) logAction(ctx context.Context, id, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, changefeed.ResourceEventTypes, id, action, details, ip, status)
}

// ===========================
// 📄 List Event Types
func (s *Service) List(ctx context.Context) ([]EventType, error) {
	var types []EventType
	if s.Feed.CachedList(ctx, changefeed.ResourceEventTypes, &types) {
		return types, nil
	}

	types, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch event types.", err)
	}
	if types == nil {
		types = []EventType{}
	}
	s.Feed.StoreList(ctx, changefeed.ResourceEventTypes, types)
	return types, nil
}

// ===========================
// 🎯 Create Event Type
func (s *Service) Create(ctx context.Context, req CreateEventTypeRequest, ip string) (*EventType, error) {
	label := strings.TrimSpace(req.Label)
	name := utils.Slugify(req.Name)
	if name == "" || label == "" {
		s.logAction(ctx, "", "EVENT_TYPE_CREATED", map[string]interface{}{
			"name": req.Name, "label": req.Label, "error": "missing fields",
		}, ip, auditlog.StatusFailure)
		return nil, utils.BadRequest(msgRequired)
	}

	exists, err := s.Repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, utils.Internal("Failed to create event type.", err)
	}
	if exists {
		s.logAction(ctx, "", "EVENT_TYPE_CREATED", map[string]interface{}{
			"name": name, "error": "duplicate name",
		}, ip, auditlog.StatusFailure)
		return nil, utils.BadRequest("An event type with this name already exists.")
	}

	t := &EventType{Name: name, Label: label}
	if err := s.Repo.Create(ctx, t); err != nil {
		s.logAction(ctx, "", "EVENT_TYPE_CREATED", map[string]interface{}{
			"name": name, "error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, utils.Internal("Failed to create event type.", err)
	}

	s.logAction(ctx, t.ID, "EVENT_TYPE_CREATED", map[string]interface{}{
		"name": t.Name, "label": t.Label,
	}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEventTypes, changefeed.ActionCreated, t.ID)
	return t, nil
}

// ===========================
// ✏️ Update Label (name is immutable)
func (s *Service) UpdateLabel(ctx context.Context, id string, req UpdateEventTypeRequest, ip string) (*EventType, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, utils.BadRequest("Label is required.")
	}

	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound(msgNotFound)
		}
		return nil, utils.Internal("Failed to update event type.", err)
	}

	old := t.Label
	if err := s.Repo.UpdateLabel(ctx, id, label); err != nil {
		s.logAction(ctx, id, "EVENT_TYPE_UPDATED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, utils.Internal("Failed to update event type.", err)
	}
	t.Label = label

	s.logAction(ctx, id, "EVENT_TYPE_UPDATED", map[string]interface{}{
		"old_label": old, "new_label": label,
	}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEventTypes, changefeed.ActionUpdated, id)
	return t, nil
}

// ===========================
// 🗑️ Delete Event Type, refused while events reference it
func (s *Service) Delete(ctx context.Context, id string, ip string) error {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(msgNotFound)
		}
		return utils.Internal("Failed to delete event type.", err)
	}

	inUse, err := s.Repo.CountEvents(ctx, id)
	if err != nil {
		return utils.Internal("Failed to delete event type.", err)
	}
	if inUse > 0 {
		s.logAction(ctx, id, "EVENT_TYPE_DELETED", map[string]interface{}{
			"name": t.Name, "events": inUse, "error": "in use",
		}, ip, auditlog.StatusFailure)
		return utils.BadRequest(msgInUse)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.Internal("Failed to delete event type.", err)
	}

	s.logAction(ctx, id, "EVENT_TYPE_DELETED", map[string]interface{}{"name": t.Name}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceEventTypes, changefeed.ActionDeleted, id)
	return nil
}

// Exists is used by the event service to validate references
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ===========================
// 🌱 Seed defaults into an empty table
func (s *Service) SeedDefaults(ctx context.Context) error {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, label := range DefaultLabels {
		if err := s.Repo.Create(ctx, &EventType{Name: utils.Slugify(label), Label: label}); err != nil {
			return err
		}
	}
	log.Printf("🌱 Seeded %d event types", len(DefaultLabels))
	return nil
}
