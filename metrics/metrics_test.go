package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(discharges.WithLabelValues("archived"))
	RecordDischarge("archived")
	assert.Equal(t, before+1, testutil.ToFloat64(discharges.WithLabelValues("archived")))

	beforeT := testutil.ToFloat64(treatmentTransitions.WithLabelValues("medications", "Administered"))
	RecordTreatmentTransition("medications", "Administered")
	assert.Equal(t, beforeT+1, testutil.ToFloat64(treatmentTransitions.WithLabelValues("medications", "Administered")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	RecordArchivalRepair()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "archival_repairs_total")
}
