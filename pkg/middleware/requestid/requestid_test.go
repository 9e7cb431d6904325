package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestMiddlewareGeneratesUUID(t *testing.T) {
	r, seen := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(*seen)
	assert.NoError(t, err)
	assert.Equal(t, *seen, w.Header().Get(HeaderKey))
}

func TestMiddlewareKeepsIncomingID(t *testing.T) {
	r, seen := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderKey, "trace-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-42", *seen)
	assert.Equal(t, "trace-42", w.Header().Get(HeaderKey))
}
