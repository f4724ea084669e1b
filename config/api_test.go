package config

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a router backed by a fresh settings store
func setupTestSettingsAPI(t *testing.T) (*gin.Engine, *SettingsStore) {
	gin.SetMode(gin.TestMode)
	store := createTestSettingsStore(t)
	return NewSettingsAPIServer(store).SetupRouter(), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHandleGetSettings verifies defaults are served
func TestHandleGetSettings(t *testing.T) {
	router, _ := setupTestSettingsAPI(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, DefaultSettings(), got)
}

// TestHandleUpdateSettings_Partial verifies absent fields keep their values
func TestHandleUpdateSettings_Partial(t *testing.T) {
	router, store := setupTestSettingsAPI(t)
	require.NoError(t, store.UpdateSettings(&Settings{TimeoutSeconds: 20, DarkTheme: true}))

	w := doJSON(t, router, http.MethodPut, "/api/v1/settings", []byte(`{"load_in_browser": true}`))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 20, got.TimeoutSeconds)
	assert.True(t, got.DarkTheme)
	assert.True(t, got.LoadInBrowser)
}

// TestHandleUpdateSettings_EmptyBody verifies an empty body changes nothing
func TestHandleUpdateSettings_EmptyBody(t *testing.T) {
	router, _ := setupTestSettingsAPI(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, DefaultSettings(), got)
}

// TestHandleUpdateSettings_InvalidTimeout verifies out-of-range timeouts
// are rejected with a validation error
func TestHandleUpdateSettings_InvalidTimeout(t *testing.T) {
	router, store := setupTestSettingsAPI(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/settings", []byte(`{"timeout_seconds": 26}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body["error"]["code"])

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeoutSeconds, got.TimeoutSeconds)
}

// TestHandleUpdateSettings_MalformedJSON verifies bad bodies are rejected
func TestHandleUpdateSettings_MalformedJSON(t *testing.T) {
	router, _ := setupTestSettingsAPI(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/settings", []byte(`{"timeout_seconds": "ten"`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body["error"]["code"])
}
