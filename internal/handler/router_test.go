package handler

import (
	"bytes"
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

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
)

type testAPI struct {
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store))

	deps := service.Deps{
		Store: store,
		Now:   func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) },
	}
	metrics := service.NewMetricsService()
	users := service.NewUserService(deps)
	students := service.NewStudentService(deps, users)
	announcements := service.NewAnnouncementService(deps)
	performance := service.NewPerformanceService(deps)
	auth := service.NewAuthService(deps, users, service.AuthConfig{AccessTokenSecret: "secret", Issuer: "test"})

	handlers := NewHandlers(Services{
		Auth:           auth,
		Users:          users,
		Students:       students,
		Teachers:       service.NewTeacherService(deps, users),
		Classes:        service.NewClassService(deps),
		Subjects:       service.NewSubjectService(deps),
		Timetable:      service.NewTimetableService(deps),
		Attendance:     service.NewAttendanceService(deps),
		Marks:          service.NewMarkService(deps),
		Fees:           service.NewFeeService(deps),
		Leave:          service.NewLeaveService(deps),
		Communications: service.NewCommunicationService(deps),
		Promotions:     service.NewPromotionService(deps),
		Announcements:  announcements,
		Performance:    performance,
		Dashboard:      service.NewDashboardService(deps, performance, announcements),
		Exports:        service.NewExportService(deps, students, metrics),
		Metrics:        metrics,
	})

	r := gin.New()
	Register(r.Group("/api/v1"), auth, handlers)
	return &testAPI{router: r}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	return resp.AccessToken
}

func TestRouterLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "nobody@school.edu"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := api.login(t, "s.williams@parent.edu")
	rec = api.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User  models.User  `json:"user"`
		Actor models.Actor `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &me))
	assert.Equal(t, "Sarah Williams", me.User.Name)
	assert.Equal(t, int64(102), me.Actor.StudentID)
}

func TestRouterRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterScopesStudentReads(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.login(t, "m.garcia@school.edu")
	student := api.login(t, "a.johnson@student.edu")

	rec := api.do(t, http.MethodGet, "/students", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var visible []models.Student
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &visible))
	require.Len(t, visible, 1)
	assert.Equal(t, int64(103), visible[0].ID)

	rec = api.do(t, http.MethodGet, "/students/103/marks", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED_ACCESS", decode(t, rec).Error.Code)

	rec = api.do(t, http.MethodGet, "/students/101/marks", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var marks []models.Mark
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &marks))
	assert.Len(t, marks, 2)
}

func TestRouterRoleGates(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.login(t, "d.chen@school.edu")

	for _, path := range []string{"/users", "/fees", "/promotions", "/exports/students", "/performance/school", "/system/metrics"} {
		rec := api.do(t, http.MethodGet, path, teacher, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestRouterParentPaysFee(t *testing.T) {
	api := newTestAPI(t)
	parent := api.login(t, "j.johnson@parent.edu")

	rec := api.do(t, http.MethodPost, "/fees/601/pay", parent, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fee models.Fee
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &fee))
	assert.Equal(t, models.FeePaid, fee.Status)

	rec = api.do(t, http.MethodPost, "/fees/603/pay", parent, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterTeacherRecordsAttendance(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.login(t, "d.chen@school.edu")

	rec := api.do(t, http.MethodPost, "/attendance", teacher, map[string]interface{}{
		"student_id": 102,
		"date":       "2024-05-21",
		"status":     "Present",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record models.Attendance
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &record))
	assert.Equal(t, int64(201), record.TeacherID)

	rec = api.do(t, http.MethodPost, "/attendance", teacher, map[string]interface{}{
		"student_id": 103,
		"date":       "2024-05-21",
		"status":     "Present",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	student := api.login(t, "c.brown@student.edu")
	rec = api.do(t, http.MethodPost, "/attendance", student, map[string]interface{}{
		"student_id": 103,
		"date":       "2024-05-21",
		"status":     "Present",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterPrincipalExportsCSV(t *testing.T) {
	api := newTestAPI(t)
	principal := api.login(t, "principal@school.edu")

	rec := api.do(t, http.MethodGet, "/exports/students?format=csv", principal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "students-2024-05-20.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,Name,Roll Number,Class"))

	rec = api.do(t, http.MethodGet, "/system/metrics", principal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot service.MetricsSnapshot
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &snapshot))
	assert.Equal(t, uint64(1), snapshot.ExportsTotal)
}

func TestRouterInvalidIDAndUnknownRecord(t *testing.T) {
	api := newTestAPI(t)
	principal := api.login(t, "principal@school.edu")

	rec := api.do(t, http.MethodGet, "/students/abc", principal, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/students/999", principal, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodDelete, "/students/999", principal, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
