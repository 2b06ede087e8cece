package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/service"
)

// DefaultPDFFilename is the download name used when none is configured.
const DefaultPDFFilename = "resume.pdf"

// resumeFormFields are the create form inputs, in form order.
var resumeFormFields = []string{
	"title", "full_name", "email", "phone", "summary",
	"skills", "education", "experience", "projects", "certifications",
}

// ResumeService is the resume logic the handlers need.
type ResumeService interface {
	Create(ctx context.Context, ownerID string, input service.CreateResumeInput) (*model.ResumeDetail, error)
	List(ctx context.Context, ownerID string) ([]*model.Resume, error)
	Export(ctx context.Context, ownerID, resumeID string) ([]byte, error)
}

// ResumeHandler serves the dashboard, the create form and PDF export.
type ResumeHandler struct {
	*Handler
	svc         ResumeService
	pdfFilename string
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(h *Handler, svc ResumeService, pdfFilename string) *ResumeHandler {
	name := sanitizeFilename(pdfFilename)
	if name == "" {
		name = DefaultPDFFilename
	}
	return &ResumeHandler{Handler: h, svc: svc, pdfFilename: name}
}

// Dashboard handles GET /dashboard/.
func (h *ResumeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resumes, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.logError(r, "list resumes failed", err)
		h.InternalError(w, r)
		return
	}
	h.render(w, r, http.StatusOK, pageDashboard, PageData{Title: "Dashboard", Resumes: resumes})
}

// CreateForm handles GET /create/.
func (h *ResumeHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageCreate, PageData{Title: "New resume"})
}

// Create handles POST /create/.
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Bad request", "Could not read the submitted form.")
		return
	}

	form := make(map[string]string, len(resumeFormFields))
	for _, name := range resumeFormFields {
		form[name] = r.PostForm.Get(name)
	}

	detail, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateResumeInput{
		Title:          form["title"],
		FullName:       form["full_name"],
		Email:          form["email"],
		Phone:          form["phone"],
		Summary:        form["summary"],
		Skills:         form["skills"],
		Education:      form["education"],
		Experience:     form["experience"],
		Projects:       form["projects"],
		Certifications: form["certifications"],
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.render(w, r, http.StatusUnprocessableEntity, pageCreate, PageData{
				Title:  "New resume",
				Flash:  &Flash{Kind: FlashError, Message: "Please fix the highlighted fields."},
				Form:   form,
				Errors: verr.FieldMessages(),
			})
			return
		}
		h.logError(r, "create resume failed", err)
		h.InternalError(w, r)
		return
	}

	h.logger.Info("resume_created",
		slog.String("resume_id", detail.Resume.ID),
		slog.Int("child_records", detail.ChildCount()),
	)
	h.redirectWithFlash(w, r, dashboardPath, FlashSuccess, "Resume saved.")
}

// Export handles GET /export/{resumeID}/.
func (h *ResumeHandler) Export(w http.ResponseWriter, r *http.Request) {
	resumeID := chi.URLParam(r, "resumeID")

	data, err := h.svc.Export(r.Context(), auth.UserIDFromContext(r.Context()), resumeID)
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logError(r, "export resume failed", err)
		h.InternalError(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.pdfFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sanitizeFilename keeps a configured download name safe inside a quoted
// header parameter.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' || r == '/' || r > 0x7e {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
}
