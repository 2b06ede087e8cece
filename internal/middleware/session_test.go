package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/service"
)

const testCookie = "resumeforge_session"

type fakeAuthenticator struct {
	sessions map[string]*model.Session
	err      error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, service.ErrNotAuthenticated
	}
	return s, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "user="+auth.UserIDFromContext(r.Context()))
	})
}

func TestSession(t *testing.T) {
	t.Parallel()

	authn := &fakeAuthenticator{sessions: map[string]*model.Session{
		"good": {ID: "h", UserID: "u1", Username: "alice"},
	}}

	tests := []struct {
		name        string
		cookie      string
		wantBody    string
		wantCleared bool
	}{
		{"no cookie", "", "user=", false},
		{"valid cookie", "good", "user=u1", false},
		{"stale cookie", "expired", "user=", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Session(SessionConfig{
				Logger:        discardLogger(),
				Authenticator: authn,
				CookieName:    testCookie,
			})(echoUser())

			req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			cleared := strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0")
			if cleared != tt.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestSession_StaleCookieClearKeepsSecure(t *testing.T) {
	t.Parallel()

	for _, secure := range []bool{true, false} {
		handler := Session(SessionConfig{
			Logger:        discardLogger(),
			Authenticator: &fakeAuthenticator{},
			CookieName:    testCookie,
			Secure:        secure,
		})(echoUser())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "expired"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("secure=%v: got %d cookies, want 1", secure, len(cookies))
		}
		if c := cookies[0]; c.MaxAge >= 0 || c.Secure != secure || !c.HttpOnly {
			t.Errorf("secure=%v: cleared cookie = %+v", secure, c)
		}
	}
}

func TestSession_StoreErrorIsAnonymous(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := Session(SessionConfig{
		Logger:        slog.New(slog.NewJSONHandler(&buf, nil)),
		Authenticator: &fakeAuthenticator{err: errors.New("redis down")},
		CookieName:    testCookie,
	})(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess_secretvalue"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Body.String() != "user=" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "session lookup failed") {
		t.Error("expected error log")
	}
	if strings.Contains(buf.String(), "sess_secretvalue") {
		t.Error("cookie value must not be logged")
	}
}

func TestRequireLogin(t *testing.T) {
	t.Parallel()

	handler := RequireLogin("/login/")(echoUser())

	t.Run("anonymous redirected with next", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/export/abc/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/login/?next=%2Fexport%2Fabc%2F" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
		req = req.WithContext(auth.ContextWithSession(req.Context(), &model.Session{UserID: "u9"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "user=u9" {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
	})
}
