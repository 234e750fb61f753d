package audit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

func TestLogFromRequest(t *testing.T) {
	buf := captureLog(t)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/applications/3", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	req.Header.Set("User-Agent", "dashboard/1.0")

	LogFromRequest(req, Event{
		Type:          EventStatusDecision,
		AdminID:       1,
		ApplicationID: 3,
		Details:       map[string]any{"status": "approved", "redecision": false},
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "security", line["audit"])
	assert.Equal(t, "status_decision", line["eventType"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(1), line["adminId"])
	assert.Equal(t, float64(3), line["applicationId"])
	assert.Equal(t, "10.0.0.7:5123", line["ip"])
	assert.Equal(t, "dashboard/1.0", line["userAgent"])
	assert.Equal(t, "approved", line["status"])
	assert.Equal(t, false, line["redecision"])
}

func TestLog_FailuresAreWarnings(t *testing.T) {
	buf := captureLog(t)

	LogFromRequest(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), Event{Type: EventLoginFailure})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.NotContains(t, line, "adminId")
}
