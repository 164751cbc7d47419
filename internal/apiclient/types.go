package apiclient

import "time"

// EventType as returned by /api/event-types
type EventType struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// User as returned by /api/users; the password is never read back
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event with its nested type and responsible user
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Date        time.Time  `json:"date"`
	Timezone    string     `json:"timezone"`
	IsPublic    bool       `json:"isPublic"`
	EventTypeID string     `json:"eventTypeId"`
	CreatedBy   string     `json:"createdBy"`
	EventType   *EventType `json:"eventType,omitempty"`
	User        *User      `json:"user,omitempty"`
}

// EventPage is one page of GET /api/events
type EventPage struct {
	Events     []Event `json:"events"`
	TotalPages int     `json:"totalPages"`
}

type ListEventsParams struct {
	Page   int
	Limit  int
	Search string
}

type CreateEventInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Timezone    string    `json:"timezone,omitempty"`
	UserID      string    `json:"userId"`
	EventTypeID string    `json:"eventTypeId"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
}

// ReassignInput carries the single foreign key being changed
type ReassignInput struct {
	UserID      string `json:"userId,omitempty"`
	EventTypeID string `json:"eventTypeId,omitempty"`
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Contact  string `json:"contact"`
}

// UserPatch sends only the non-nil fields
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Contact  *string `json:"contact,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Contact == nil && p.Password == nil
}
