package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/resumeforge/resumeforge/internal/model"
)

//go:embed views/*.html.tmpl
var viewFS embed.FS

// Page names.
const (
	pageRegister  = "register"
	pageLogin     = "login"
	pageDashboard = "dashboard"
	pageCreate    = "create"
	pageError     = "error"
)

var pageNames = []string{pageRegister, pageLogin, pageDashboard, pageCreate, pageError}

// PageData is the value every view is executed with.
type PageData struct {
	Title   string
	User    *model.Session
	Flash   *Flash
	Message string
	Next    string

	// Form echoes submitted values back into the create form.
	Form   map[string]string
	Errors map[string][]string

	Resumes []*model.Resume
}

// Views holds one parsed template set per page, each layered on the base layout.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded page templates.
func NewViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).ParseFS(viewFS, "views/base.html.tmpl", "views/"+name+".html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s view: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data PageData) error {
	tmpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown view %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("failed to render %s view: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
