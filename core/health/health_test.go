package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsai/eddiauth/core/health"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
	"github.com/labsai/eddiauth/core/router"
)

func serve(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, health.Report) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var report health.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	return w, report
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	r := router.New[*router.Context](router.WithErrorHandler(response.JSONErrorHandler[*router.Context]))
	r.Get("/q/health/live", health.Liveness[*router.Context])
	r.Get("/q/health/ready", health.Readiness[*router.Context](logger.Nop(),
		health.Check{Name: "mongodb", Fn: ok},
	))
	r.Get("/q/health/degraded", health.Readiness[*router.Context](logger.Nop(),
		health.Check{Name: "mongodb", Fn: ok},
		health.Check{Name: "redis", Fn: down},
	))

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		w, report := serve(t, r, "/q/health/live")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, health.StatusUp, report.Status)
	})

	t.Run("readiness up", func(t *testing.T) {
		t.Parallel()

		w, report := serve(t, r, "/q/health/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []health.CheckResult{{Name: "mongodb", Status: health.StatusUp}}, report.Checks)
	})

	t.Run("readiness down hides cause", func(t *testing.T) {
		t.Parallel()

		w, report := serve(t, r, "/q/health/degraded")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, health.StatusDown, report.Status)
		assert.Equal(t, health.StatusDown, report.Checks[1].Status)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
