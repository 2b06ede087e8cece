// Package pdf assembles a resume into a printable document and renders it
// to PDF.
package pdf

import (
	"strings"

	"github.com/resumeforge/resumeforge/internal/model"
)

// SectionKind identifies a document section.
type SectionKind string

// Sections in the order they appear in every document.
const (
	SectionSummary        SectionKind = "summary"
	SectionSkills         SectionKind = "skills"
	SectionEducation      SectionKind = "education"
	SectionExperience     SectionKind = "experience"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
)

// defaultHeading is shown when the resume has no full name.
const defaultHeading = "Resume"

// Item is one entry inside a section.
type Item struct {
	Title    string
	Subtitle string
	Meta     string
	Body     string
}

// Section is a headed group of items.
type Section struct {
	Kind    SectionKind
	Heading string
	Items   []Item
}

// Document is the render-ready form of a resume. The header and title are
// always present; Sections only holds sections that have content.
type Document struct {
	Name     string
	Email    string
	Phone    string
	Title    string
	Sections []Section
}

// Kinds returns the kinds of the present sections, in order.
func (d Document) Kinds() []SectionKind {
	kinds := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}

// BuildDocument lays out a resume in the fixed section order: summary,
// skills, education, experience, projects, certifications. A blank summary
// and child sections with zero records are omitted.
func BuildDocument(detail *model.ResumeDetail) Document {
	res := detail.Resume

	doc := Document{
		Name:  strings.TrimSpace(res.FullName),
		Email: strings.TrimSpace(res.Email),
		Phone: strings.TrimSpace(res.Phone),
		Title: res.Title,
	}
	if doc.Name == "" {
		doc.Name = defaultHeading
	}

	if summary := strings.TrimSpace(res.Summary); summary != "" {
		doc.add(SectionSummary, "Summary", []Item{{Body: summary}})
	}

	skills := make([]Item, 0, len(detail.Skills))
	for _, s := range detail.Skills {
		skills = append(skills, Item{Title: s.Name})
	}
	doc.add(SectionSkills, "Skills", skills)

	education := make([]Item, 0, len(detail.Education))
	for _, e := range detail.Education {
		education = append(education, Item{Title: e.Institution, Subtitle: e.Degree, Meta: e.Year})
	}
	doc.add(SectionEducation, "Education", education)

	experience := make([]Item, 0, len(detail.Experience))
	for _, e := range detail.Experience {
		experience = append(experience, Item{Title: e.Company, Subtitle: e.Role, Meta: e.Period(), Body: e.Description})
	}
	doc.add(SectionExperience, "Experience", experience)

	projects := make([]Item, 0, len(detail.Projects))
	for _, p := range detail.Projects {
		projects = append(projects, Item{Title: p.Title, Body: p.Description})
	}
	doc.add(SectionProjects, "Projects", projects)

	certs := make([]Item, 0, len(detail.Certifications))
	for _, c := range detail.Certifications {
		certs = append(certs, Item{Title: c.Name, Subtitle: c.Issuer})
	}
	doc.add(SectionCertifications, "Certifications", certs)

	return doc
}

func (d *Document) add(kind SectionKind, heading string, items []Item) {
	if len(items) == 0 {
		return
	}
	d.Sections = append(d.Sections, Section{Kind: kind, Heading: heading, Items: items})
}
