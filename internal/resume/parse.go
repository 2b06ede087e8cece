// Package resume turns the free-text fields of the resume form into
// child records.
//
// Blob fields hold one entry per paragraph: entries are separated by one or
// more blank lines. The first line of an entry is split on "|" into columns.
// For experience and projects the remaining lines form the description.
// Education and certifications have no free-text column, so their remaining
// lines are ignored.
//
//	Acme Corp | Engineer | 2019 | 2023
//	Built the billing pipeline.
//
//	Initech | Intern | 2018
package resume

import (
	"strings"

	"github.com/resumeforge/resumeforge/internal/model"
)

// columnSep separates columns on the first line of an entry.
const columnSep = "|"

// ParseSkills splits a comma-separated list, trimming whitespace and
// dropping empty tokens. Order is preserved.
func ParseSkills(raw string) []model.Skill {
	var skills []model.Skill
	for _, tok := range strings.Split(raw, ",") {
		name := strings.TrimSpace(tok)
		if name == "" {
			continue
		}
		skills = append(skills, model.Skill{Name: name})
	}
	return skills
}

// ParseEducation parses "institution | degree | year" entries. Only the
// first line of each entry is used.
func ParseEducation(raw string) []model.Education {
	var out []model.Education
	for _, e := range splitEntries(raw) {
		cols := splitColumns(e.head, 3)
		out = append(out, model.Education{
			Institution: cols[0],
			Degree:      cols[1],
			Year:        cols[2],
		})
	}
	return out
}

// ParseExperience parses "company | role | start | end" entries; any
// following lines become the description.
func ParseExperience(raw string) []model.Experience {
	var out []model.Experience
	for _, e := range splitEntries(raw) {
		cols := splitColumns(e.head, 4)
		out = append(out, model.Experience{
			Company:     cols[0],
			Role:        cols[1],
			StartDate:   cols[2],
			EndDate:     cols[3],
			Description: e.body,
		})
	}
	return out
}

// ParseProjects parses "title | description" entries; following lines are
// appended to the description.
func ParseProjects(raw string) []model.Project {
	var out []model.Project
	for _, e := range splitEntries(raw) {
		cols := splitColumns(e.head, 2)
		out = append(out, model.Project{
			Title:       cols[0],
			Description: joinNonEmpty("\n", cols[1], e.body),
		})
	}
	return out
}

// ParseCertifications parses "name | issuer" entries. Only the first line
// of each entry is used.
func ParseCertifications(raw string) []model.Certification {
	var out []model.Certification
	for _, e := range splitEntries(raw) {
		cols := splitColumns(e.head, 2)
		out = append(out, model.Certification{
			Name:   cols[0],
			Issuer: cols[1],
		})
	}
	return out
}

type entry struct {
	head string
	body string
}

// splitEntries groups non-blank lines into paragraphs.
func splitEntries(raw string) []entry {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var (
		entries []entry
		lines   []string
	)
	flush := func() {
		if len(lines) == 0 {
			return
		}
		entries = append(entries, entry{
			head: lines[0],
			body: strings.Join(lines[1:], "\n"),
		})
		lines = lines[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return entries
}

// splitColumns returns exactly n trimmed columns. Extra separators stay in
// the last column; missing columns are empty.
func splitColumns(line string, n int) []string {
	cols := make([]string, n)
	for i, part := range strings.SplitN(line, columnSep, n) {
		cols[i] = strings.TrimSpace(part)
	}
	return cols
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
