package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/timvest/intake-server-go/internal/audit"
	apperrors "github.com/timvest/intake-server-go/internal/errors"
	"github.com/timvest/intake-server-go/internal/httputil"
	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/service"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

func GetPrincipal(ctx context.Context) *model.Principal {
	if principal, ok := ctx.Value(PrincipalContextKey).(*model.Principal); ok {
		return principal
	}
	return nil
}

// Authenticator verifies a bearer token and returns the identity it carries.
type Authenticator interface {
	Authenticate(token string) (*model.Principal, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Handler rejects the request before it reaches next unless it carries a valid
// token. The verified principal is stored in the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.auth.Authenticate(extractToken(r))
		if err != nil {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]any{"code": string(apperrors.GetCode(err)), "path": r.URL.Path},
			})
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after AuthMiddleware.Handler.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				httputil.WriteError(w, apperrors.MissingToken())
				return
			}
			if err := service.Authorize(principal, role); err != nil {
				audit.LogFromRequest(r, audit.Event{
					Type:    audit.EventAccessDenied,
					AdminID: principal.ID,
					Details: map[string]any{"role": principal.Role, "path": r.URL.Path},
				})
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
