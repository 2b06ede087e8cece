package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/cache"
)

type fakeLimiter struct {
	allowed bool
	err     error
	gotIP   string
}

func (f *fakeLimiter) CheckIPRateLimit(_ context.Context, ip string, _, _ int) (*cache.RateLimitResult, error) {
	f.gotIP = ip
	if f.err != nil {
		return nil, f.err
	}
	return &cache.RateLimitResult{Allowed: f.allowed, RetryAfter: 3 * time.Second}, nil
}

func TestRateLimitIP(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		enabled    bool
		limiter    *fakeLimiter
		wantStatus int
	}{
		{"disabled", false, &fakeLimiter{allowed: false}, http.StatusOK},
		{"allowed", true, &fakeLimiter{allowed: true}, http.StatusOK},
		{"denied", true, &fakeLimiter{allowed: false}, http.StatusTooManyRequests},
		{"limiter error fails open", true, &fakeLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RateLimitIP(RateLimitConfig{
				Logger:  discardLogger(),
				Limiter: tt.limiter,
				Enabled: tt.enabled,
				RPS:     1,
				Burst:   1,
			})(ok)

			req := httptest.NewRequest(http.MethodPost, "/login/", nil)
			req.RemoteAddr = "198.51.100.4:51234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "3" {
				t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
			}
			if tt.enabled && tt.limiter.gotIP != "198.51.100.4" {
				t.Errorf("limiter saw ip %q", tt.limiter.gotIP)
			}
		})
	}
}
