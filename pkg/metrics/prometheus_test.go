package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware("test-service"))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "418", "test-service"))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))
		require.Equal(t, http.StatusTeapot, w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/items/:id", "418", "test-service"))
	assert.Equal(t, before+2, after)
}

func TestRecordSocialAction(t *testing.T) {
	before := testutil.ToFloat64(socialActionsTotal.WithLabelValues("social.follow", ResultRejected))
	RecordSocialAction("social.follow", ResultRejected, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(socialActionsTotal.WithLabelValues("social.follow", ResultRejected)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordSocialAction("social.block", ResultOK, time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "social_actions_total"))
}
