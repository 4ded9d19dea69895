package obs

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeSuccess},
		{"validation", apperr.FieldError("email", "taken"), OutcomeInvalid},
		{"conflict", apperr.NewConflictError("could not delete"), OutcomeConflict},
		{"not found", apperr.NewNotFoundError("missing"), OutcomeNotFound},
		{"forbidden", apperr.NewForbiddenError("no"), OutcomeError},
		{"plain", errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_Workflow(t *testing.T) {
	m := NewMetrics()
	m.Workflow("employee.create", nil)
	m.Workflow("employee.create", nil)
	m.Workflow("employee.create", apperr.FieldError("email", "taken"))

	body := scrape(t, m)
	assert.Contains(t, body, `backoffice_workflows_total{outcome="success",workflow="employee.create"} 2`)
	assert.Contains(t, body, `backoffice_workflows_total{outcome="invalid",workflow="employee.create"} 1`)
}

func TestMetrics_RequestStarted(t *testing.T) {
	m := NewMetrics()
	done := m.RequestStarted()
	assert.Contains(t, scrape(t, m), "http_in_flight_requests 1")

	done(http.MethodGet, "/api/employees", http.StatusOK)
	body := scrape(t, m)
	assert.Contains(t, body, "http_in_flight_requests 0")
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/employees",status="200"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Workflow("x", nil)
		m.SetBuildInfo("dev")
		m.RequestStarted()("GET", "/", 200)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.SetBuildInfo("test")
	m.Workflow("group.create", nil)

	body := scrape(t, m)
	assert.Contains(t, body, `backoffice_workflows_total{outcome="success",workflow="group.create"} 1`)
	assert.Contains(t, body, `build_info{version="test"} 1`)
}
