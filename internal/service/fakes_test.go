package service

import (
	"context"
	"sync"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/cache"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/repository"
)

var testParams = auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func fastHash(password string) (string, error) {
	return auth.HashPasswordWithParams(password, testParams)
}

type fakeUsers struct {
	mu     sync.Mutex
	byName map[string]*model.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*model.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byName[u.Username]; ok {
		return repository.ErrUsernameExists
	}
	cp := *u
	f.byName[u.Username] = &cp
	return nil
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName)
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]*model.Session{}}
}

func (f *fakeSessions) CreateSession(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessions) GetSession(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// fakeResumes stores resumes in memory and scopes reads by owner the way
// the Postgres repository does.
type fakeResumes struct {
	mu        sync.Mutex
	byID      map[string]*model.ResumeDetail
	createErr error
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{byID: map[string]*model.ResumeDetail{}}
}

func (f *fakeResumes) CreateResume(_ context.Context, d *model.ResumeDetail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *d
	f.byID[d.Resume.ID] = &cp
	return nil
}

func (f *fakeResumes) ListResumes(_ context.Context, ownerID string) ([]*model.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Resume
	for _, d := range f.byID {
		if d.Resume.UserID == ownerID {
			r := d.Resume
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeResumes) GetResumeDetail(_ context.Context, ownerID, resumeID string) (*model.ResumeDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[resumeID]
	if !ok || d.Resume.UserID != ownerID {
		return nil, repository.ErrResumeNotFound
	}
	cp := *d
	return &cp, nil
}

type fakeExporter struct {
	got *model.ResumeDetail
	err error
}

func (f *fakeExporter) Export(_ context.Context, d *model.ResumeDetail) ([]byte, error) {
	f.got = d
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-" + d.Resume.Title), nil
}
