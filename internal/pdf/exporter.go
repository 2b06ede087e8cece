package pdf

import (
	"context"

	"github.com/resumeforge/resumeforge/internal/model"
)

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// Exporter lays out a resume and renders it.
type Exporter struct {
	renderer Renderer
}

// NewExporter creates an Exporter backed by renderer.
func NewExporter(renderer Renderer) *Exporter {
	return &Exporter{renderer: renderer}
}

// Export builds the document for detail and returns the rendered PDF.
func (e *Exporter) Export(ctx context.Context, detail *model.ResumeDetail) ([]byte, error) {
	html, err := RenderHTML(BuildDocument(detail))
	if err != nil {
		return nil, err
	}
	return e.renderer.RenderPDF(ctx, html)
}
