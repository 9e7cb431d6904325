package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	"github.com/noah-isme/sma-dashboard-api/internal/service"
	"github.com/noah-isme/sma-dashboard-api/pkg/logger"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.Seed(context.Background(), store))
	return service.NewAuthService(service.Deps{Store: store}, nil, service.AuthConfig{AccessTokenSecret: "secret", Issuer: "test"})
}

func signIn(t *testing.T, auth *service.AuthService, email string) string {
	t.Helper()
	resp, err := auth.Login(context.Background(), models.LoginRequest{Email: email})
	require.NoError(t, err)
	return resp.AccessToken
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newAuthService(t)
	r := gin.New()
	r.GET("/secure", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer not-a-jwt"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	}
}

func TestJWTStoresActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newAuthService(t)
	token := signIn(t, auth, "j.johnson@parent.edu")

	var got models.Actor
	var role string
	r := gin.New()
	r.GET("/secure", JWT(auth), func(c *gin.Context) {
		got, _ = ActorFromContext(c)
		role = c.GetString(logger.ContextRoleKey)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleParent, got.Role)
	assert.Equal(t, int64(301), got.ParentID)
	assert.Equal(t, int64(101), got.StudentID)
	assert.Equal(t, string(models.RoleParent), role)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newAuthService(t)
	r := gin.New()
	r.GET("/principal", JWT(auth), RequireRoles(models.RolePrincipal), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		email string
		want  int
	}{
		{"principal@school.edu", http.StatusOK},
		{"d.chen@school.edu", http.StatusForbidden},
		{"a.johnson@student.edu", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/principal", nil)
		req.Header.Set("Authorization", "Bearer "+signIn(t, auth, tc.email))
		r.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.email)
		if tc.want == http.StatusForbidden {
			assert.Equal(t, "UNAUTHORIZED_ACCESS", errorCode(t, rec))
		}
	}
}

func TestRequireRolesWithoutActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RequireRoles(models.RolePrincipal)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type recordingObserver struct {
	method string
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.method, r.path, r.status = method, path, status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/101", nil))

	assert.Equal(t, http.MethodGet, obs.method)
	assert.Equal(t, "/students/:id", obs.path)
	assert.Equal(t, http.StatusTeapot, obs.status)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, "unmatched", obs.path)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/cached", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cached", nil))

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.NotContains(t, meta, "started_at")
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var hasDeadline bool
	r := gin.New()
	r.Use(Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}
