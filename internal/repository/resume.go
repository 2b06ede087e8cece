package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/resumeforge/resumeforge/internal/model"
)

// Common errors for resume repository operations.
var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrMissingOwner   = errors.New("owner id is required")
)

// CreateResume inserts the resume and every child record in one transaction.
// Either all rows are written or none are. IDs must already be assigned.
func (r *Repository) CreateResume(ctx context.Context, detail *model.ResumeDetail) error {
	if detail.Resume.UserID == "" {
		return ErrMissingOwner
	}

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertResume(ctx, tx, &detail.Resume); err != nil {
			return err
		}
		if err := insertSkills(ctx, tx, detail.Resume.ID, detail.Skills); err != nil {
			return err
		}
		if err := insertEducation(ctx, tx, detail.Education); err != nil {
			return err
		}
		if err := insertExperience(ctx, tx, detail.Experience); err != nil {
			return err
		}
		if err := insertProjects(ctx, tx, detail.Projects); err != nil {
			return err
		}
		return insertCertifications(ctx, tx, detail.Certifications)
	})
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}

	return nil
}

func insertResume(ctx context.Context, q querier, res *model.Resume) error {
	query := `
		INSERT INTO resumes (id, user_id, title, full_name, email, phone, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		res.ID,
		res.UserID,
		res.Title,
		res.FullName,
		res.Email,
		res.Phone,
		res.Summary,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

// insertSkills writes all skills in a single statement.
func insertSkills(ctx context.Context, q querier, resumeID string, skills []model.Skill) error {
	if len(skills) == 0 {
		return nil
	}

	ids := make([]string, len(skills))
	names := make([]string, len(skills))
	for i, s := range skills {
		ids[i] = s.ID
		names[i] = s.Name
	}

	query := `
		INSERT INTO skills (id, resume_id, name, position)
		SELECT s.id, $1, s.name, s.ord - 1
		FROM unnest($2::text[], $3::text[]) WITH ORDINALITY AS s(id, name, ord)
	`

	if _, err := q.Exec(ctx, query, resumeID, pq.Array(ids), pq.Array(names)); err != nil {
		return fmt.Errorf("insert skills: %w", err)
	}
	return nil
}

func insertEducation(ctx context.Context, q querier, items []model.Education) error {
	query := `
		INSERT INTO educations (id, resume_id, institution, degree, year, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, e := range items {
		if _, err := q.Exec(ctx, query, e.ID, e.ResumeID, e.Institution, e.Degree, e.Year, i); err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}
	return nil
}

func insertExperience(ctx context.Context, q querier, items []model.Experience) error {
	query := `
		INSERT INTO experiences (id, resume_id, company, role, start_date, end_date, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, e := range items {
		if _, err := q.Exec(ctx, query,
			e.ID, e.ResumeID, e.Company, e.Role, e.StartDate, e.EndDate, e.Description, i,
		); err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}
	return nil
}

func insertProjects(ctx context.Context, q querier, items []model.Project) error {
	query := `
		INSERT INTO projects (id, resume_id, title, description, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, p := range items {
		if _, err := q.Exec(ctx, query, p.ID, p.ResumeID, p.Title, p.Description, i); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	}
	return nil
}

func insertCertifications(ctx context.Context, q querier, items []model.Certification) error {
	query := `
		INSERT INTO certifications (id, resume_id, name, issuer, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, c := range items {
		if _, err := q.Exec(ctx, query, c.ID, c.ResumeID, c.Name, c.Issuer, i); err != nil {
			return fmt.Errorf("insert certification: %w", err)
		}
	}
	return nil
}

// ListResumes returns the owner's resumes, newest first.
func (r *Repository) ListResumes(ctx context.Context, ownerID string) ([]*model.Resume, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	query := `
		SELECT id, user_id, title, full_name, email, phone, summary, created_at
		FROM resumes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []*model.Resume
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resumes: %w", err)
	}

	return resumes, nil
}

func getResume(ctx context.Context, q querier, ownerID, resumeID string) (*model.Resume, error) {
	query := `
		SELECT id, user_id, title, full_name, email, phone, summary, created_at
		FROM resumes
		WHERE id = $1 AND user_id = $2
	`

	res, err := scanResume(q.QueryRow(ctx, query, resumeID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return res, nil
}

// GetResumeDetail loads a resume owned by ownerID with all child records.
// Every child query repeats the ownership join.
func (r *Repository) GetResumeDetail(ctx context.Context, ownerID, resumeID string) (*model.ResumeDetail, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	var detail model.ResumeDetail
	err := r.inReadTx(ctx, func(tx pgx.Tx) error {
		res, err := getResume(ctx, tx, ownerID, resumeID)
		if err != nil {
			return err
		}
		detail.Resume = *res

		if detail.Skills, err = listSkills(ctx, tx, ownerID, resumeID); err != nil {
			return err
		}
		if detail.Education, err = listEducation(ctx, tx, ownerID, resumeID); err != nil {
			return err
		}
		if detail.Experience, err = listExperience(ctx, tx, ownerID, resumeID); err != nil {
			return err
		}
		if detail.Projects, err = listProjects(ctx, tx, ownerID, resumeID); err != nil {
			return err
		}
		detail.Certifications, err = listCertifications(ctx, tx, ownerID, resumeID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrResumeNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to get resume detail: %w", err)
	}

	return &detail, nil
}

func listSkills(ctx context.Context, q querier, ownerID, resumeID string) ([]model.Skill, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.resume_id, c.name
		FROM skills c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.id = $1 AND r.user_id = $2
		ORDER BY c.position, c.id
	`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Skill, error) {
		var s model.Skill
		err := row.Scan(&s.ID, &s.ResumeID, &s.Name)
		return s, err
	})
}

func listEducation(ctx context.Context, q querier, ownerID, resumeID string) ([]model.Education, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.resume_id, c.institution, c.degree, c.year
		FROM educations c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.id = $1 AND r.user_id = $2
		ORDER BY c.position, c.id
	`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query education: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Education, error) {
		var e model.Education
		err := row.Scan(&e.ID, &e.ResumeID, &e.Institution, &e.Degree, &e.Year)
		return e, err
	})
}

func listExperience(ctx context.Context, q querier, ownerID, resumeID string) ([]model.Experience, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.resume_id, c.company, c.role, c.start_date, c.end_date, c.description
		FROM experiences c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.id = $1 AND r.user_id = $2
		ORDER BY c.position, c.id
	`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query experience: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Experience, error) {
		var e model.Experience
		err := row.Scan(&e.ID, &e.ResumeID, &e.Company, &e.Role, &e.StartDate, &e.EndDate, &e.Description)
		return e, err
	})
}

func listProjects(ctx context.Context, q querier, ownerID, resumeID string) ([]model.Project, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.resume_id, c.title, c.description
		FROM projects c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.id = $1 AND r.user_id = $2
		ORDER BY c.position, c.id
	`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Project, error) {
		var p model.Project
		err := row.Scan(&p.ID, &p.ResumeID, &p.Title, &p.Description)
		return p, err
	})
}

func listCertifications(ctx context.Context, q querier, ownerID, resumeID string) ([]model.Certification, error) {
	rows, err := q.Query(ctx, `
		SELECT c.id, c.resume_id, c.name, c.issuer
		FROM certifications c
		JOIN resumes r ON r.id = c.resume_id
		WHERE r.id = $1 AND r.user_id = $2
		ORDER BY c.position, c.id
	`, resumeID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query certifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Certification, error) {
		var c model.Certification
		err := row.Scan(&c.ID, &c.ResumeID, &c.Name, &c.Issuer)
		return c, err
	})
}

func scanResume(row pgx.Row) (*model.Resume, error) {
	var res model.Resume
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&res.FullName,
		&res.Email,
		&res.Phone,
		&res.Summary,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
