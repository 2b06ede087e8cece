package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/cache"
	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/middleware"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/service"
)

const testSessionCookie = "test_session"

type fakeAccounts struct {
	mu        sync.Mutex
	passwords map[string]string
	loggedOut []string
	failWith  error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{passwords: make(map[string]string)}
}

func (f *fakeAccounts) Register(_ context.Context, in service.RegisterInput) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, &service.ValidationError{
			Kind:   service.ErrInvalidInput,
			Fields: []service.FieldError{{Field: "username", Message: "is required"}},
		}
	}
	if _, ok := f.passwords[in.Username]; ok {
		return nil, service.ErrUsernameTaken
	}
	f.passwords[in.Username] = in.Password
	return &model.User{ID: "id-" + in.Username, Username: in.Username}, nil
}

func (f *fakeAccounts) Login(_ context.Context, username, password string) (*service.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return nil, service.ErrInvalidCredentials
	}
	return &service.LoginResult{
		Session: &model.Session{
			ID:        "hash-" + username,
			UserID:    "id-" + username,
			Username:  username,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		Token: "tok-" + username,
	}, nil
}

func (f *fakeAccounts) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, token string) (*model.Session, error) {
	username, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return nil, service.ErrNotAuthenticated
	}
	return &model.Session{UserID: "id-" + username, Username: username}, nil
}

type fakeResumes struct {
	mu      sync.Mutex
	created []service.CreateResumeInput
	owned   map[string][]*model.Resume
	pdfs    map[string][]byte
	failErr error
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{
		owned: make(map[string][]*model.Resume),
		pdfs:  make(map[string][]byte),
	}
}

func (f *fakeResumes) Create(_ context.Context, ownerID string, in service.CreateResumeInput) (*model.ResumeDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	if len(in.Title) > 100 {
		return nil, &service.ValidationError{
			Kind:   service.ErrInvalidResume,
			Fields: []service.FieldError{{Field: "title", Message: "must be at most 100 characters"}},
		}
	}
	f.created = append(f.created, in)
	r := &model.Resume{ID: "r" + strconv.Itoa(len(f.created)), UserID: ownerID, Title: in.Title, CreatedAt: time.Now()}
	f.owned[ownerID] = append(f.owned[ownerID], r)
	return &model.ResumeDetail{Resume: *r}, nil
}

func (f *fakeResumes) List(_ context.Context, ownerID string) ([]*model.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned[ownerID], nil
}

func (f *fakeResumes) Export(_ context.Context, ownerID, resumeID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, r := range f.owned[ownerID] {
		if r.ID == resumeID {
			return f.pdfs[resumeID], nil
		}
	}
	return nil, service.ErrResumeNotFound
}

type mockLimiter struct{}

func (mockLimiter) CheckIPRateLimit(context.Context, string, int, int) (*cache.RateLimitResult, error) {
	return nil, errors.New("unused")
}

type testApp struct {
	router   http.Handler
	accounts *fakeAccounts
	resumes  *fakeResumes
	metrics  *metrics.InMemoryRecorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	views, err := NewViews()
	if err != nil {
		t.Fatalf("NewViews failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &testApp{
		accounts: newFakeAccounts(),
		resumes:  newFakeResumes(),
		metrics:  metrics.NewInMemory(),
	}
	app.router = NewRouter(RouterConfig{
		Logger:             logger,
		Views:              views,
		Cookies:            CookieConfig{SessionName: testSessionCookie},
		Accounts:           app.accounts,
		Resumes:            app.resumes,
		Metrics:            app.metrics,
		IsDevelopment:      true,
		MaxRequestBodySize: 1 << 20,
		RateLimit:          middleware.RateLimitConfig{Logger: logger, Limiter: mockLimiter{}},
	})
	return app
}

func (a *testApp) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func sessionFor(username string) *http.Cookie {
	return &http.Cookie{Name: testSessionCookie, Value: "tok-" + username}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
