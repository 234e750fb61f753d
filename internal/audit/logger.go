// Package audit emits security events as structured log lines. Events are not
// stored anywhere else.
package audit

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess   EventType = "login_success"
	EventLoginFailure   EventType = "login_failure"
	EventAuthFailure    EventType = "auth_failure"
	EventAccessDenied   EventType = "access_denied"
	EventStatusDecision EventType = "status_decision"
)

type Event struct {
	Type          EventType
	AdminID       int64
	ApplicationID int64
	IP            string
	UserAgent     string
	Details       map[string]any
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("eventType", string(event.Type)).
		Logger()

	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		logger = logger.With().Str("requestId", reqID).Logger()
	}
	if event.AdminID != 0 {
		logger = logger.With().Int64("adminId", event.AdminID).Logger()
	}
	if event.ApplicationID != 0 {
		logger = logger.With().Int64("applicationId", event.ApplicationID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("userAgent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	if event.Type == EventLoginFailure || event.Type == EventAuthFailure || event.Type == EventAccessDenied {
		logEvent = logger.Warn()
	}
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

// LogFromRequest fills in the caller's address and user agent. RealIP
// middleware has already rewritten RemoteAddr when a proxy header was present.
func LogFromRequest(r *http.Request, event Event) {
	event.IP = r.RemoteAddr
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}
