package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/event-scheduler-backend/database"
)

func newTestService(t *testing.T) (*service, Repository) {
	t.Helper()
	db, err := database.OpenInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&AuditLog{}))

	repo := NewRepository(db)
	return &service{repo: repo, now: time.Now}, repo
}

func TestLogActionStoresDetails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.LogAction(ctx, "events", "evt-1", "EVENT_CREATED", map[string]interface{}{"name": "Demo"}, "10.0.0.1", StatusSuccess))
	require.NoError(t, svc.LogAction(ctx, "users", "", "USER_CREATE_FAILED", nil, "10.0.0.1", StatusFailure))

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	var created, failed AuditLog
	for _, l := range page.Data {
		if l.Action == "EVENT_CREATED" {
			created = l
		} else {
			failed = l
		}
	}

	require.NotNil(t, created.ResourceID)
	assert.Equal(t, "evt-1", *created.ResourceID)
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(created.Details, &details))
	assert.Equal(t, "Demo", details["name"])

	assert.Nil(t, failed.ResourceID)
	assert.Equal(t, StatusFailure, failed.Status)
}

func TestGetAuditLogsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.LogAction(ctx, "events", "e", "EVENT_DELETED", nil, "", StatusSuccess))
	}
	require.NoError(t, svc.LogAction(ctx, "users", "u", "USER_UPDATED", nil, "", StatusSuccess))

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{Resource: "events", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page, err = svc.GetAuditLogs(ctx, AuditLogFilter{Action: "user_", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "users", page.Data[0].Resource)
}

func TestPurgeOlderThan(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	old := &AuditLog{Resource: "events", Action: "EVENT_CREATED", Status: StatusSuccess, CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, svc.LogAction(ctx, "events", "e", "EVENT_CREATED", nil, "", StatusSuccess))

	n, err := svc.PurgeOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.GetAuditLogByID(ctx, old.ID)
	assert.Error(t, err)
}

func TestStartRetentionDisabled(t *testing.T) {
	c, err := StartRetention(nil, "0 3 * * *", 0)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStartRetentionRejectsBadSpec(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := StartRetention(svc, "not a cron", 30)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	require.NoError(t, svc.LogAction(context.Background(), "event-types", "t1", "EVENT_TYPE_CREATED", nil, "", StatusSuccess))

	r := gin.New()
	h := NewHandler(svc)
	r.GET("/api/audit-logs", h.GetAuditLogs)
	r.GET("/api/audit-logs/:id", h.GetAuditLogByID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs?resource=event-types", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool       `json:"success"`
		Data    []AuditLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs?from_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs/9999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
