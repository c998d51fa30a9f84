package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_middleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.middleware())
	e.GET("/ok", func(ctx echo.Context) error { return ctx.NoContent(http.StatusOK) })
	e.GET("/missing", func(ctx echo.Context) error { return errStudentNotFound })

	for _, path := range []string{"/ok", "/ok", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), promtest.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/ok", "200")))
	assert.Equal(t, float64(1), promtest.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/missing", "404")))
	assert.Equal(t, 2, promtest.CollectAndCount(m.duration))
}
