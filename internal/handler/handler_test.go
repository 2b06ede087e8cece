package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_NotFound(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/nonexistent", nil, sessionFor("alice"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Page not found") {
		t.Error("expected the not found page")
	}
	// The error page still knows who is logged in.
	if !strings.Contains(body, "Log out alice") {
		t.Error("expected the signed-in navigation")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected security headers on the 404 page")
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.do(http.MethodPut, "/login/", nil)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Method not allowed") {
		t.Error("expected the method not allowed page")
	}
}

func TestViews_RenderAllPages(t *testing.T) {
	t.Parallel()

	views, err := NewViews()
	if err != nil {
		t.Fatalf("NewViews failed: %v", err)
	}

	for _, page := range pageNames {
		page := page
		t.Run(page, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			if err := views.Render(rec, http.StatusOK, page, PageData{Title: "T"}); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>") {
				t.Error("expected a full HTML document")
			}
			if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}

	if err := views.Render(httptest.NewRecorder(), http.StatusOK, "missing", PageData{}); err == nil {
		t.Error("expected an error for an unknown view")
	}
}

func TestFlash_MalformedCookieIgnored(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/login/", nil, &http.Cookie{Name: flashCookieName, Value: "%%%not-base64"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `class="flash`) {
		t.Error("malformed flash rendered")
	}
	if c := responseCookie(rec, flashCookieName); c == nil || c.MaxAge >= 0 {
		t.Error("malformed flash cookie not cleared")
	}
}
