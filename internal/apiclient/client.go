package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Error is a failed call: a non-2xx status or a {success:false} envelope
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Client talks to the event scheduler API. It sets no timeout and never retries;
// callers bound requests through their context.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(http.StatusText(resp.StatusCode))
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func idQuery(id string) url.Values {
	return url.Values{"id": []string{id}}
}

// ===========================
// 🏷️ Event types

func (c *Client) ListEventTypes(ctx context.Context) ([]EventType, error) {
	var out struct {
		EventTypes []EventType `json:"eventTypes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/event-types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.EventTypes, nil
}

func (c *Client) CreateEventType(ctx context.Context, name, label string) (*EventType, error) {
	var out struct {
		EventType EventType `json:"eventType"`
	}
	in := map[string]string{"name": name, "label": label}
	if err := c.do(ctx, http.MethodPost, "/api/event-types", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.EventType, nil
}

func (c *Client) UpdateEventType(ctx context.Context, id, label string) (*EventType, error) {
	var out struct {
		EventType EventType `json:"eventType"`
	}
	in := map[string]string{"label": label}
	if err := c.do(ctx, http.MethodPatch, "/api/event-types", idQuery(id), in, &out); err != nil {
		return nil, err
	}
	return &out.EventType, nil
}

func (c *Client) DeleteEventType(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/event-types", idQuery(id), nil, nil)
}

// ===========================
// 👤 Users

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users", idQuery(id), nil, nil)
}

// ===========================
// 📅 Events

func (c *Client) ListEvents(ctx context.Context, p ListEventsParams) (*EventPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	var out EventPage
	if err := c.do(ctx, http.MethodGet, "/api/events", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/events", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) ReassignEvent(ctx context.Context, id string, in ReassignInput) (*Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/events", idQuery(id), in, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events", nil, map[string]string{"id": id}, nil)
}
