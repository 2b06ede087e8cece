package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/repository"
	"github.com/resumeforge/resumeforge/internal/resume"
)

// ResumeStore persists resumes. Every read is scoped to an owner.
type ResumeStore interface {
	CreateResume(ctx context.Context, detail *model.ResumeDetail) error
	ListResumes(ctx context.Context, ownerID string) ([]*model.Resume, error)
	GetResumeDetail(ctx context.Context, ownerID, resumeID string) (*model.ResumeDetail, error)
}

// Exporter renders a resume to PDF.
type Exporter interface {
	Export(ctx context.Context, detail *model.ResumeDetail) ([]byte, error)
}

// ResumeService handles resume creation, listing and export.
type ResumeService struct {
	store    ResumeStore
	exporter Exporter
	metrics  metrics.Recorder

	newID func() string
	now   func() time.Time
}

// NewResumeService creates a new ResumeService.
func NewResumeService(store ResumeStore, exporter Exporter, recorder metrics.Recorder) *ResumeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ResumeService{
		store:    store,
		exporter: exporter,
		metrics:  recorder,
		newID:    func() string { return ulid.Make().String() },
		now:      time.Now,
	}
}

// CreateResumeInput is the raw resume form.
type CreateResumeInput struct {
	Title          string
	FullName       string
	Email          string
	Phone          string
	Summary        string
	Skills         string
	Education      string
	Experience     string
	Projects       string
	Certifications string
}

// Create builds a resume from the form and stores it with all child records
// in one transaction.
func (s *ResumeService) Create(ctx context.Context, ownerID string, input CreateResumeInput) (*model.ResumeDetail, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}

	detail := buildDetail(ownerID, input)
	detail.Resume.CreatedAt = s.now().UTC()

	if err := validateResume(detail); err != nil {
		return nil, err
	}

	detail.AssignIDs(s.newID(), s.newID)

	if err := s.store.CreateResume(ctx, detail); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	s.metrics.IncResumeCreated()
	return detail, nil
}

func buildDetail(ownerID string, in CreateResumeInput) *model.ResumeDetail {
	clean := strings.TrimSpace

	return &model.ResumeDetail{
		Resume: model.Resume{
			UserID:   ownerID,
			Title:    clean(in.Title),
			FullName: clean(in.FullName),
			Email:    clean(in.Email),
			Phone:    clean(in.Phone),
			Summary:  clean(in.Summary),
		},
		Skills:         resume.ParseSkills(in.Skills),
		Education:      resume.ParseEducation(in.Education),
		Experience:     resume.ParseExperience(in.Experience),
		Projects:       resume.ParseProjects(in.Projects),
		Certifications: resume.ParseCertifications(in.Certifications),
	}
}

// List returns the owner's resumes, newest first.
func (s *ResumeService) List(ctx context.Context, ownerID string) ([]*model.Resume, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}
	resumes, err := s.store.ListResumes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// Export renders the owner's resume to PDF. A resume that does not exist
// or belongs to someone else yields ErrResumeNotFound. Nothing is cached.
func (s *ResumeService) Export(ctx context.Context, ownerID, resumeID string) ([]byte, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}

	detail, err := s.store.GetResumeDetail(ctx, ownerID, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	start := time.Now()
	out, err := s.exporter.Export(ctx, detail)
	s.metrics.ObservePDFRenderDuration(time.Since(start))
	if err != nil {
		s.metrics.IncPDFExported(false)
		return nil, fmt.Errorf("failed to render resume: %w", err)
	}

	s.metrics.IncPDFExported(true)
	return out, nil
}
