package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/service"
)

// Authenticator resolves a session cookie value.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	CookieName    string
	// Secure marks the cleared cookie Secure, matching how it was set.
	Secure bool
}

// Session loads the caller's session from its cookie into the request
// context. It never rejects a request; a stale cookie is cleared.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Authenticator.Authenticate(r.Context(), cookie.Value)
			switch {
			case err == nil:
				r = r.WithContext(auth.ContextWithSession(r.Context(), sess))
			case errors.Is(err, service.ErrNotAuthenticated):
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			default:
				// Treat as anonymous; gated routes will send the caller to login.
				cfg.Logger.Error("session lookup failed",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous callers to loginPath with a next
// parameter pointing back at the requested page.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionFromContext(r.Context()) == nil {
				target := loginPath + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
