package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/dto"
	"github.com/noah-isme/sma-dashboard-api/internal/middleware"
	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newContext(method, target string, actor *models.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	if actor != nil {
		c.Set(middleware.ContextActorKey, *actor)
	}
	return c, rec
}

type fakeDashboardSrv struct {
	calls     []string
	teacherID int64
	studentID int64
	err       error
}

func (f *fakeDashboardSrv) Principal(context.Context, models.Actor) (*dto.PrincipalDashboardResponse, error) {
	f.calls = append(f.calls, "principal")
	return &dto.PrincipalDashboardResponse{StudentCount: 3}, f.err
}

func (f *fakeDashboardSrv) Teacher(_ context.Context, _ models.Actor, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	f.calls = append(f.calls, "teacher")
	f.teacherID = teacherID
	return &dto.TeacherDashboardResponse{TeacherID: teacherID}, f.err
}

func (f *fakeDashboardSrv) Student(_ context.Context, _ models.Actor, studentID int64) (*dto.StudentDashboardResponse, error) {
	f.calls = append(f.calls, "student")
	f.studentID = studentID
	return &dto.StudentDashboardResponse{ClassLabel: "10-A"}, f.err
}

func TestDashboardHandlerMeRoutesByRole(t *testing.T) {
	cases := []struct {
		name  string
		actor models.Actor
		want  string
	}{
		{"principal", models.PrincipalActor(1), "principal"},
		{"teacher", models.TeacherActor(201), "teacher"},
		{"student", models.StudentActor(103), "student"},
		{"parent", models.ParentActor(301, 101), "student"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := &fakeDashboardSrv{}
			c, rec := newContext(http.MethodGet, "/dashboard", &tc.actor)

			NewDashboardHandler(srv).Me(c)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{tc.want}, srv.calls)
		})
	}
}

func TestDashboardHandlerMeParentWithoutChild(t *testing.T) {
	actor := models.Actor{UserID: 9, Role: models.RoleParent, ParentID: 303}
	srv := &fakeDashboardSrv{}
	c, rec := newContext(http.MethodGet, "/dashboard", &actor)

	NewDashboardHandler(srv).Me(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.calls)
}

func TestDashboardHandlerTeacherParsesID(t *testing.T) {
	actor := models.PrincipalActor(1)
	srv := &fakeDashboardSrv{}

	c, rec := newContext(http.MethodGet, "/dashboard/teachers/202", &actor)
	c.Params = gin.Params{{Key: "id", Value: "202"}}
	NewDashboardHandler(srv).Teacher(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(202), srv.teacherID)

	c, rec = newContext(http.MethodGet, "/dashboard/teachers/abc", &actor)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	NewDashboardHandler(srv).Teacher(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Error.Code)
}

func TestDashboardHandlerPropagatesErrors(t *testing.T) {
	actor := models.StudentActor(101)
	srv := &fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrForbidden, "not yours")}
	c, rec := newContext(http.MethodGet, "/dashboard/students/103", &actor)
	c.Params = gin.Params{{Key: "id", Value: "103"}}

	NewDashboardHandler(srv).Student(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "UNAUTHORIZED_ACCESS", decode(t, rec).Error.Code)
}

func TestDashboardHandlerRequiresActor(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/dashboard", nil)

	NewDashboardHandler(&fakeDashboardSrv{}).Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakePerformanceSrv struct {
	hit bool
}

func (f *fakePerformanceSrv) School(context.Context, models.Actor) (models.SchoolPerformance, bool, error) {
	return models.SchoolPerformance{TotalStudents: 3, SchoolAverage: "84.83"}, f.hit, nil
}

func (f *fakePerformanceSrv) Student(_ context.Context, _ models.Actor, studentID int64) (models.StudentPerformance, error) {
	return models.StudentPerformance{StudentID: studentID}, nil
}

func TestPerformanceHandlerReportsCacheHit(t *testing.T) {
	actor := models.PrincipalActor(1)
	c, rec := newContext(http.MethodGet, "/performance/school", &actor)
	middleware.WithResponseMeta()(c)

	NewPerformanceHandler(&fakePerformanceSrv{hit: true}).School(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
	var summary models.SchoolPerformance
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "84.83", summary.SchoolAverage)
}

type fakeExportSrv struct {
	format string
	err    error
}

func (f *fakeExportSrv) Students(_ context.Context, _ models.Actor, format string) (*service.ExportFile, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "students-2024-05-20.csv", ContentType: "text/csv", Content: []byte("ID,Name\n")}, nil
}

func TestExportHandlerStreamsAttachment(t *testing.T) {
	actor := models.PrincipalActor(1)
	srv := &fakeExportSrv{}
	c, rec := newContext(http.MethodGet, "/exports/students", &actor)

	NewExportHandler(srv).Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.format)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="students-2024-05-20.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID,Name\n", rec.Body.String())
}

func TestExportHandlerRejectsUnknownFormat(t *testing.T) {
	actor := models.PrincipalActor(1)
	srv := &fakeExportSrv{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")}
	c, rec := newContext(http.MethodGet, "/exports/students?format=xlsx", &actor)

	NewExportHandler(srv).Students(c)

	assert.Equal(t, "xlsx", srv.format)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
