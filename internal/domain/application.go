package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusApplied            = "applied"
	ApplicationStatusReviewed           = "reviewed"
	ApplicationStatusInterviewScheduled = "interview_scheduled"
	ApplicationStatusInterviewed        = "interviewed"
	ApplicationStatusAccepted           = "accepted"
	ApplicationStatusRejected           = "rejected"
)

// Application is a candidate's application to a job. The interview engine only
// reads the participant keys and moves the status.
type Application struct {
	ID              int64     `json:"id"`
	JobID           int64     `json:"job_id"`
	CandidateUserID string    `json:"candidate_user_id"`
	RecruiterUserID string    `json:"recruiter_user_id"` // owner of the job posting
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined data
	JobTitle *string `json:"job_title,omitempty"`
}

// ApplicationRepository is the job-application collaborator
type ApplicationRepository interface {
	GetByID(ctx context.Context, id int64) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
