package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type interviewRepo struct {
	db *pgxpool.Pool
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

const interviewColumns = `
	i.id, i.job_application_id, i.recruiter_id, i.candidate_id, i.interview_round,
	i.scheduled_date, i.duration_minutes, i.interview_type, i.location, i.meeting_link,
	i.interviewer_name, i.interviewer_email, i.interviewer_phone, i.preparation_notes,
	i.status, i.candidate_confirmed, i.candidate_confirmed_at, i.interviewer_notes,
	i.outcome, i.interview_completed_at, i.reminder_sent_24h, i.reminder_sent_2h,
	i.created_at, i.updated_at, j.title`

const interviewFrom = `
	FROM interviews i
	LEFT JOIN applications a ON a.id = i.job_application_id
	LEFT JOIN jobs j ON j.id = a.job_id`

// Create inserts a new interview
func (r *interviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	query := `
		INSERT INTO interviews (
			job_application_id, recruiter_id, candidate_id, interview_round,
			scheduled_date, duration_minutes, interview_type, location, meeting_link,
			interviewer_name, interviewer_email, interviewer_phone, preparation_notes,
			status, candidate_confirmed, candidate_confirmed_at, reminder_sent_24h, reminder_sent_2h,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		RETURNING id`

	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now

	err := conn(ctx, r.db).QueryRow(ctx, query,
		iv.JobApplicationID,
		iv.RecruiterID,
		iv.CandidateID,
		iv.InterviewRound,
		iv.ScheduledDate,
		iv.DurationMinutes,
		string(iv.InterviewType),
		iv.Location,
		iv.MeetingLink,
		iv.InterviewerName,
		iv.InterviewerEmail,
		iv.InterviewerPhone,
		iv.PreparationNotes,
		string(iv.Status),
		iv.CandidateConfirmed,
		iv.CandidateConfirmedAt,
		iv.ReminderSent24h,
		iv.ReminderSent2h,
		now,
	).Scan(&iv.ID)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// Update rewrites every mutable column of the interview
func (r *interviewRepo) Update(ctx context.Context, iv *domain.Interview) error {
	query := `
		UPDATE interviews SET
			interview_round = $2, scheduled_date = $3, duration_minutes = $4, interview_type = $5,
			location = $6, meeting_link = $7, interviewer_name = $8, interviewer_email = $9,
			interviewer_phone = $10, preparation_notes = $11, status = $12,
			candidate_confirmed = $13, candidate_confirmed_at = $14, interviewer_notes = $15,
			outcome = $16, interview_completed_at = $17, reminder_sent_24h = $18, reminder_sent_2h = $19,
			updated_at = $20
		WHERE id = $1`

	iv.UpdatedAt = time.Now()
	var outcome *string
	if iv.Outcome != nil {
		o := string(*iv.Outcome)
		outcome = &o
	}

	tag, err := conn(ctx, r.db).Exec(ctx, query,
		iv.ID,
		iv.InterviewRound,
		iv.ScheduledDate,
		iv.DurationMinutes,
		string(iv.InterviewType),
		iv.Location,
		iv.MeetingLink,
		iv.InterviewerName,
		iv.InterviewerEmail,
		iv.InterviewerPhone,
		iv.PreparationNotes,
		string(iv.Status),
		iv.CandidateConfirmed,
		iv.CandidateConfirmedAt,
		iv.InterviewerNotes,
		outcome,
		iv.InterviewCompletedAt,
		iv.ReminderSent24h,
		iv.ReminderSent2h,
		iv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID retrieves an interview with its job title
func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + interviewFrom + ` WHERE i.id = $1`
	iv, err := scanInterview(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return iv, nil
}

// GetActiveByJobApplicationID returns the non-cancelled interview of an application
func (r *interviewRepo) GetActiveByJobApplicationID(ctx context.Context, jobApplicationID int64) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + interviewFrom + `
		WHERE i.job_application_id = $1 AND i.status <> $2
		ORDER BY i.created_at DESC
		LIMIT 1`
	iv, err := scanInterview(conn(ctx, r.db).QueryRow(ctx, query, jobApplicationID, string(domain.InterviewStatusCancelled)))
	if err != nil {
		return nil, notFound(err)
	}
	return iv, nil
}

// List returns interviews matching the filter, ordered by scheduled date
func (r *interviewRepo) List(ctx context.Context, f domain.InterviewFilter) ([]domain.Interview, error) {
	where, args := interviewWhere(f)
	order := "ASC"
	if f.Descending {
		order = "DESC"
	}
	query := `SELECT ` + interviewColumns + interviewFrom + where + ` ORDER BY i.scheduled_date ` + order + `, i.id`

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

// interviewWhere builds the WHERE clause for f. Zero-valued fields add nothing.
func interviewWhere(f domain.InterviewFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.RecruiterID != "" {
		add("i.recruiter_id = $%d", f.RecruiterID)
	}
	if f.CandidateID != "" {
		add("i.candidate_id = $%d", f.CandidateID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		add("i.status = ANY($%d::text[])", pq.Array(statuses))
	}
	if f.ExcludeCancelled {
		add("i.status <> $%d", string(domain.InterviewStatusCancelled))
	}
	if f.From != nil {
		add("i.scheduled_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("i.scheduled_date < $%d", *f.To)
	}
	if f.EndsAfter != nil {
		add("i.scheduled_date + make_interval(mins => i.duration_minutes) > $%d", *f.EndsAfter)
	}
	if f.Unconfirmed {
		conds = append(conds, "NOT i.candidate_confirmed")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListDueForReminder returns SCHEDULED or CONFIRMED interviews starting in [from, to]
// whose reminder of the given kind has not been sent
func (r *interviewRepo) ListDueForReminder(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]domain.Interview, error) {
	flag, err := reminderColumn(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + interviewColumns + interviewFrom + `
		WHERE i.status = ANY($1::text[])
		  AND NOT i.` + flag + `
		  AND i.scheduled_date BETWEEN $2 AND $3
		ORDER BY i.scheduled_date, i.id`

	statuses := pq.Array([]string{string(domain.InterviewStatusScheduled), string(domain.InterviewStatusConfirmed)})
	rows, err := conn(ctx, r.db).Query(ctx, query, statuses, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInterviews(rows)
}

// MarkReminderSent sets the reminder flag of the given kind
func (r *interviewRepo) MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind) error {
	flag, err := reminderColumn(kind)
	if err != nil {
		return err
	}
	query := `UPDATE interviews SET ` + flag + ` = TRUE, updated_at = $2 WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus returns the recruiter's all-time interview count per status
func (r *interviewRepo) CountByStatus(ctx context.Context, recruiterID string) (map[domain.InterviewStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM interviews WHERE recruiter_id = $1 GROUP BY status`
	rows, err := conn(ctx, r.db).Query(ctx, query, recruiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.InterviewStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.InterviewStatus(status)] = n
	}
	return counts, rows.Err()
}

// CountByOutcome returns the recruiter's all-time interview count per recorded outcome
func (r *interviewRepo) CountByOutcome(ctx context.Context, recruiterID string) (map[domain.InterviewOutcome]int, error) {
	query := `SELECT outcome, COUNT(*) FROM interviews WHERE recruiter_id = $1 AND outcome IS NOT NULL GROUP BY outcome`
	rows, err := conn(ctx, r.db).Query(ctx, query, recruiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.InterviewOutcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[domain.InterviewOutcome(outcome)] = n
	}
	return counts, rows.Err()
}

func reminderColumn(kind domain.ReminderKind) (string, error) {
	switch kind {
	case domain.Reminder24h:
		return "reminder_sent_24h", nil
	case domain.Reminder2h:
		return "reminder_sent_2h", nil
	default:
		return "", fmt.Errorf("unknown reminder kind %q", kind)
	}
}

func collectInterviews(rows pgx.Rows) ([]domain.Interview, error) {
	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var (
		iv                    domain.Interview
		interviewType, status string
		outcome               *string
	)
	if err := row.Scan(
		&iv.ID, &iv.JobApplicationID, &iv.RecruiterID, &iv.CandidateID, &iv.InterviewRound,
		&iv.ScheduledDate, &iv.DurationMinutes, &interviewType, &iv.Location, &iv.MeetingLink,
		&iv.InterviewerName, &iv.InterviewerEmail, &iv.InterviewerPhone, &iv.PreparationNotes,
		&status, &iv.CandidateConfirmed, &iv.CandidateConfirmedAt, &iv.InterviewerNotes,
		&outcome, &iv.InterviewCompletedAt, &iv.ReminderSent24h, &iv.ReminderSent2h,
		&iv.CreatedAt, &iv.UpdatedAt, &iv.JobTitle,
	); err != nil {
		return nil, err
	}
	iv.InterviewType = domain.InterviewType(interviewType)
	iv.Status = domain.InterviewStatus(status)
	if outcome != nil {
		o := domain.InterviewOutcome(*outcome)
		iv.Outcome = &o
	}
	return &iv, nil
}
