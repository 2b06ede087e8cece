package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(template.ParseFS(templateFS, "templates/resume.html.tmpl"))

// RenderHTML executes the resume template. User text is escaped.
func RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render resume html: %w", err)
	}
	return buf.Bytes(), nil
}
