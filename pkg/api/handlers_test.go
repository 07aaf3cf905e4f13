package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/yggdrasil/pkg/index"
)

const testAPIKey = "test-api-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.idx")
	session := index.NewSession()
	require.NoError(t, session.Create(path, false))
	require.NoError(t, session.Open(path))
	t.Cleanup(func() { session.Close() })

	metrics := NewMetrics(prometheus.NewRegistry())
	return NewServer(session, ServerConfig{Port: 8080, Bind: "127.0.0.1", APIKey: testAPIKey}, metrics)
}

func doRequest(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	var resp APIResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, "GET", "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestPutAndGet(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, "PUT", "/api/v1/keys/42", "100")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = doRequest(t, s, "GET", "/api/v1/keys/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["key"])
	assert.Equal(t, float64(100), data["value"])
}

func TestGetMissingKey(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, "GET", "/api/v1/keys/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not found")
}

func TestPutDuplicateKey(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doRequest(t, s, "PUT", "/api/v1/keys/42", "100")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doRequest(t, s, "PUT", "/api/v1/keys/42", "200")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp.Error, "Duplicate key 42")

	// Original binding survives
	rec, resp = doRequest(t, s, "GET", "/api/v1/keys/42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(100), data["value"])
}

func TestPutRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{name: "non-numeric key", target: "/api/v1/keys/abc", body: "1"},
		{name: "key overflow", target: "/api/v1/keys/4294967296", body: "1"},
		{name: "non-numeric value", target: "/api/v1/keys/1", body: "xyz"},
		{name: "empty value", target: "/api/v1/keys/1", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, s, "PUT", tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestListKeysOrdered(t *testing.T) {
	s := newTestServer(t)

	for _, kv := range [][2]string{{"30", "3"}, {"10", "1"}, {"20", "2"}} {
		rec, _ := doRequest(t, s, "PUT", "/api/v1/keys/"+kv[0], kv[1])
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, resp := doRequest(t, s, "GET", "/api/v1/keys", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])
	records := data["records"].([]interface{})
	require.Len(t, records, 3)
	keys := []float64{}
	for _, r := range records {
		keys = append(keys, r.(map[string]interface{})["key"].(float64))
	}
	assert.Equal(t, []float64{10, 20, 30}, keys)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doRequest(t, s, "PUT", "/api/v1/keys/1", "10")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doRequest(t, s, "GET", "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["keys"])
	assert.Equal(t, float64(1), data["height"])
	assert.Equal(t, float64(1024), data["file_size"])
}

func TestRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsEndpointUnprotected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
