package postgres

import (
	"context"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// GetByID retrieves an application with the job title and the user owning the job posting.
// RecruiterUserID is empty when the posting has no owning company profile.
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_user_id::text, COALESCE(cp.user_id::text, ''),
			a.status, a.created_at, a.updated_at,
			j.title as job_title
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		LEFT JOIN company_profiles cp ON j.company_id = cp.id
		WHERE a.id = $1`

	var app domain.Application
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.CandidateUserID, &app.RecruiterUserID,
		&app.Status, &app.CreatedAt, &app.UpdatedAt,
		&app.JobTitle,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// UpdateStatus updates the status of an application
func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`
	tag, err := conn(ctx, r.db).Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
