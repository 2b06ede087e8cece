package model

import "time"

// Column limits shared by the schema, input validation and forms.
const (
	MaxTitleLength = 100
	MaxNameLength  = 100
	MaxPhoneLength = 50
	MaxDateLength  = 50
)

// Resume is the parent record of one user-authored document.
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Experience is one employment entry.
type Experience struct {
	ID          string `json:"id"`
	ResumeID    string `json:"resume_id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// Period formats the start and end dates for display.
func (e Experience) Period() string {
	switch {
	case e.StartDate != "" && e.EndDate != "":
		return e.StartDate + " - " + e.EndDate
	case e.StartDate != "":
		return e.StartDate + " - Present"
	default:
		return e.EndDate
	}
}

// Education is one education entry.
type Education struct {
	ID          string `json:"id"`
	ResumeID    string `json:"resume_id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Skill is a single named skill.
type Skill struct {
	ID       string `json:"id"`
	ResumeID string `json:"resume_id"`
	Name     string `json:"name"`
}

// Project is one project entry.
type Project struct {
	ID          string `json:"id"`
	ResumeID    string `json:"resume_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Certification is one certification entry.
type Certification struct {
	ID       string `json:"id"`
	ResumeID string `json:"resume_id"`
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
}

// ResumeDetail is a resume together with all of its child records,
// each slice in insertion order.
type ResumeDetail struct {
	Resume         Resume          `json:"resume"`
	Skills         []Skill         `json:"skills"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
}

// ChildCount returns the total number of child records.
func (d *ResumeDetail) ChildCount() int {
	return len(d.Skills) + len(d.Education) + len(d.Experience) + len(d.Projects) + len(d.Certifications)
}

// AssignIDs sets the parent id on the resume and every child, and gives
// each child an id from newID. Existing child ids are kept.
func (d *ResumeDetail) AssignIDs(resumeID string, newID func() string) {
	d.Resume.ID = resumeID
	for i := range d.Skills {
		d.Skills[i].ResumeID = resumeID
		if d.Skills[i].ID == "" {
			d.Skills[i].ID = newID()
		}
	}
	for i := range d.Education {
		d.Education[i].ResumeID = resumeID
		if d.Education[i].ID == "" {
			d.Education[i].ID = newID()
		}
	}
	for i := range d.Experience {
		d.Experience[i].ResumeID = resumeID
		if d.Experience[i].ID == "" {
			d.Experience[i].ID = newID()
		}
	}
	for i := range d.Projects {
		d.Projects[i].ResumeID = resumeID
		if d.Projects[i].ID == "" {
			d.Projects[i].ID = newID()
		}
	}
	for i := range d.Certifications {
		d.Certifications[i].ResumeID = resumeID
		if d.Certifications[i].ID == "" {
			d.Certifications[i].ID = newID()
		}
	}
}
