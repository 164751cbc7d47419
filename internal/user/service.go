package user

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/utils"
)

// Service wraps business logic for the user directory
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
	Feed     *changefeed.Feed

	hashCost int
}

func NewService(r *Repository, auditSvc auditlog.Service, feed *changefeed.Feed) *Service {
	return &Service{Repo: r, AuditSvc: auditSvc, Feed: feed, hashCost: bcrypt.DefaultCost}
}

func (s *Service) logAction(ctx context.Context, id, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, changefeed.ResourceUsers, id, action, details, ip, status)
}

// ===========================
// 📄 List Users
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if s.Feed.CachedList(ctx, changefeed.ResourceUsers, &users) {
		return users, nil
	}

	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch users.", err)
	}
	if users == nil {
		users = []User{}
	}
	s.Feed.StoreList(ctx, changefeed.ResourceUsers, users)
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound(msgNotFound)
		}
		return nil, utils.Internal("Failed to fetch user.", err)
	}
	return u, nil
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
// 🎯 Create User
func (s *Service) Create(ctx context.Context, req CreateUserRequest, ip string) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	contact := strings.TrimSpace(req.Contact)

	fail := func(reason string, err error) (*User, error) {
		s.logAction(ctx, "", "USER_CREATED", map[string]interface{}{
			"username": username, "email": email, "error": reason,
		}, ip, auditlog.StatusFailure)
		return nil, err
	}

	if username == "" || email == "" || req.Password == "" {
		return fail("missing fields", utils.BadRequest(msgRequired))
	}
	if !validEmail(email) {
		return fail("invalid email", utils.BadRequest(msgInvalidEmail))
	}
	if !validContact(contact) {
		return fail("invalid contact", utils.BadRequest(msgInvalidPhone))
	}

	taken, err := s.Repo.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, utils.Internal("Failed to create user.", err)
	}
	if taken {
		return fail("duplicate email", utils.BadRequest(msgDuplicateMail))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, utils.Internal("Failed to create user.", err)
	}

	u := &User{Username: username, Email: email, Contact: contact, PasswordHash: string(hash)}
	if err := s.Repo.Create(ctx, u); err != nil {
		return fail(err.Error(), utils.Internal("Failed to create user.", err))
	}

	s.logAction(ctx, u.ID, "USER_CREATED", map[string]interface{}{
		"username": u.Username, "email": u.Email,
	}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceUsers, changefeed.ActionCreated, u.ID)
	return u, nil
}

// ===========================
// ✏️ Update User, only provided non-empty fields are applied
func (s *Service) Update(ctx context.Context, id string, req UpdateUserRequest, ip string) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	changed := []string{}

	if v := trimmed(req.Username); v != "" && v != u.Username {
		fields["username"] = v
		changed = append(changed, "username")
	}
	if v := trimmed(req.Email); v != "" {
		email := normalizeEmail(v)
		if !validEmail(email) {
			return nil, utils.BadRequest(msgInvalidEmail)
		}
		if email != u.Email {
			taken, err := s.Repo.EmailTaken(ctx, email, id)
			if err != nil {
				return nil, utils.Internal("Failed to update user.", err)
			}
			if taken {
				s.logAction(ctx, id, "USER_UPDATED", map[string]interface{}{"email": email, "error": "duplicate email"}, ip, auditlog.StatusFailure)
				return nil, utils.BadRequest(msgDuplicateMail)
			}
			fields["email"] = email
			changed = append(changed, "email")
		}
	}
	if v := trimmed(req.Contact); v != "" && v != u.Contact {
		if !validContact(v) {
			return nil, utils.BadRequest(msgInvalidPhone)
		}
		fields["contact"] = v
		changed = append(changed, "contact")
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.hashCost)
		if err != nil {
			return nil, utils.Internal("Failed to update user.", err)
		}
		fields["password"] = string(hash)
		changed = append(changed, "password")
	}

	if len(fields) == 0 {
		return u, nil
	}

	if err := s.Repo.Update(ctx, id, fields); err != nil {
		s.logAction(ctx, id, "USER_UPDATED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, utils.Internal("Failed to update user.", err)
	}

	s.logAction(ctx, id, "USER_UPDATED", map[string]interface{}{"fields": changed}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceUsers, changefeed.ActionUpdated, id)
	return s.Get(ctx, id)
}

// ===========================
// 🗑️ Delete User, refused while events reference it
func (s *Service) Delete(ctx context.Context, id string, ip string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.Repo.CountEvents(ctx, id)
	if err != nil {
		return utils.Internal("Failed to delete user.", err)
	}
	if n > 0 {
		s.logAction(ctx, id, "USER_DELETED", map[string]interface{}{
			"username": u.Username, "events": n, "error": "user has events",
		}, ip, auditlog.StatusFailure)
		return utils.BadRequest(msgHasEvents)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.Internal("Failed to delete user.", err)
	}

	s.logAction(ctx, id, "USER_DELETED", map[string]interface{}{"username": u.Username}, ip, auditlog.StatusSuccess)
	s.Feed.Emit(ctx, changefeed.ResourceUsers, changefeed.ActionDeleted, id)
	return nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
