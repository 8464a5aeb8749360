package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/server"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "runs.db")

	mcp, cleanup, err := server.New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return New(mcp, zap.NewNop(), cfg.Server.HTTPAddr)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBMIEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/bmi?weight_kg=70&height_m=1.75")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		BMI        float64 `json:"bmi"`
		Assessment string  `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 22.86, out.BMI)
	assert.Equal(t, "Normal weight", out.Assessment)
}

func TestBMIEndpointInvalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing weight", "/bmi?height_m=1.75", "weight_kg"},
		{"missing height", "/bmi?weight_kg=70", "height_m"},
		{"non-numeric weight", "/bmi?weight_kg=abc&height_m=1.75", "weight_kg"},
		{"zero weight", "/bmi?weight_kg=0&height_m=1.75", "weight_kg"},
		{"negative height", "/bmi?weight_kg=70&height_m=-1", "height_m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var out ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Contains(t, out.Error, tt.wantMsg)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Generate one counted request first.
	get(t, s, "/bmi?weight_kg=70&height_m=1.75")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthflow_bmi_requests_total")
}

func TestMCPEndpointMounted(t *testing.T) {
	s := newTestServer(t)

	// A GET without a session is rejected by the transport, but the
	// route must exist.
	rec := get(t, s, "/mcp")
	assert.NotEqual(t, http.StatusNotFound, rec.Code)
}
