package forms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
)

const (
	msgName     = "Nombre requerido"
	msgType     = "Selecciona un tipo de evento"
	msgUser     = "Selecciona un responsable"
	msgDate     = "Fecha requerida"
	msgTimezone = "Zona horaria inválida"
)

var validate = validator.New()

// EventForm backs the event creation form
type EventForm struct {
	Name        string `validate:"required,min=2"`
	Description string
	EventTypeID string    `validate:"required"`
	UserID      string    `validate:"required"`
	Date        time.Time `validate:"required"`
	Timezone    string    `validate:"required,timezone"`
	IsPublic    bool
}

// NewEventForm returns the form with its defaults filled in
func NewEventForm(now time.Time) EventForm {
	return EventForm{
		Date:     now,
		Timezone: DefaultTimezone,
		IsPublic: true,
	}
}

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (f *EventForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}

	fe := ve[0]
	msg := map[string]string{
		"Name":        msgName,
		"EventTypeID": msgType,
		"UserID":      msgUser,
		"Date":        msgDate,
		"Timezone":    msgTimezone,
	}[fe.Field()]
	return &FieldError{Field: fe.Field(), Message: msg}
}

// Request converts a validated form into the create payload
func (f EventForm) Request() apiclient.CreateEventInput {
	isPublic := f.IsPublic
	return apiclient.CreateEventInput{
		Name:        f.Name,
		Description: f.Description,
		Date:        f.Date.UTC(),
		Timezone:    f.Timezone,
		UserID:      f.UserID,
		EventTypeID: f.EventTypeID,
		IsPublic:    &isPublic,
	}
}

type EventCreator interface {
	CreateEvent(ctx context.Context, in apiclient.CreateEventInput) (*apiclient.Event, error)
}

// Submit validates and posts the form; nothing is sent when validation fails
func Submit(ctx context.Context, api EventCreator, f *EventForm) (*apiclient.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return api.CreateEvent(ctx, f.Request())
}
