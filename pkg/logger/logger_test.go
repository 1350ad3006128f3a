package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedRouter() (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/v1/classes/:id/activities", func(c *gin.Context) { c.String(http.StatusOK, "[]") })
	r.GET("/boom", func(c *gin.Context) { c.String(http.StatusBadGateway, "down") })
	return r, logs
}

func TestGinMiddlewareLogsRequestFields(t *testing.T) {
	r, logs := observedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classes/5/activities?dayId=2", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http_request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/v1/classes/5/activities", fields["path"])
	assert.Equal(t, "dayId=2", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddlewareSkipsProbeEndpoints(t *testing.T) {
	r, logs := observedRouter()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, logs.Len())
}

func TestGinMiddlewareWarnsOnServerErrors(t *testing.T) {
	r, logs := observedRouter()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}
