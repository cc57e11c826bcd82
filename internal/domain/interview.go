package domain

import (
	"context"
	"time"
)

// InterviewStatus is the lifecycle state of an interview
type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "SCHEDULED"
	InterviewStatusConfirmed   InterviewStatus = "CONFIRMED"
	InterviewStatusCompleted   InterviewStatus = "COMPLETED"
	InterviewStatusNoShow      InterviewStatus = "NO_SHOW"
	InterviewStatusCancelled   InterviewStatus = "CANCELLED"
	InterviewStatusRescheduled InterviewStatus = "RESCHEDULED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s InterviewStatus) IsTerminal() bool {
	switch s {
	case InterviewStatusCompleted, InterviewStatusNoShow, InterviewStatusCancelled:
		return true
	default:
		return false
	}
}

// ActiveInterviewStatuses are the statuses an interview still "holds" its slot in
// for reminder and upcoming-list purposes.
var ActiveInterviewStatuses = []InterviewStatus{
	InterviewStatusScheduled,
	InterviewStatusConfirmed,
	InterviewStatusRescheduled,
}

// InterviewType is how the interview is conducted
type InterviewType string

const (
	InterviewTypeOnline InterviewType = "ONLINE"
	InterviewTypeOnsite InterviewType = "ONSITE"
	InterviewTypePhone  InterviewType = "PHONE"
)

func (t InterviewType) IsValid() bool {
	switch t {
	case InterviewTypeOnline, InterviewTypeOnsite, InterviewTypePhone:
		return true
	default:
		return false
	}
}

// InterviewOutcome is the recruiter's verdict after completion
type InterviewOutcome string

const (
	OutcomePass             InterviewOutcome = "PASS"
	OutcomeFail             InterviewOutcome = "FAIL"
	OutcomePending          InterviewOutcome = "PENDING"
	OutcomeNeedsSecondRound InterviewOutcome = "NEEDS_SECOND_ROUND"
)

func (o InterviewOutcome) IsValid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomePending, OutcomeNeedsSecondRound:
		return true
	default:
		return false
	}
}

const (
	// MinInterviewDurationMinutes is the shortest interview that can be booked
	MinInterviewDurationMinutes = 15
	// MaxInterviewDurationMinutes caps a booking at one day
	MaxInterviewDurationMinutes = 24 * 60
)

// Interview is a scheduled meeting between a recruiter and a candidate for one job application
type Interview struct {
	ID                   int64             `json:"id"`
	JobApplicationID     int64             `json:"job_application_id"`
	RecruiterID          string            `json:"recruiter_id"`
	CandidateID          string            `json:"candidate_id"`
	InterviewRound       int               `json:"interview_round"`
	ScheduledDate        time.Time         `json:"scheduled_date"`
	DurationMinutes      int               `json:"duration_minutes"`
	InterviewType        InterviewType     `json:"interview_type"`
	Location             *string           `json:"location,omitempty"`
	MeetingLink          *string           `json:"meeting_link,omitempty"`
	InterviewerName      *string           `json:"interviewer_name,omitempty"`
	InterviewerEmail     *string           `json:"interviewer_email,omitempty"`
	InterviewerPhone     *string           `json:"interviewer_phone,omitempty"`
	PreparationNotes     *string           `json:"preparation_notes,omitempty"`
	Status               InterviewStatus   `json:"status"`
	CandidateConfirmed   bool              `json:"candidate_confirmed"`
	CandidateConfirmedAt *time.Time        `json:"candidate_confirmed_at,omitempty"`
	InterviewerNotes     *string           `json:"interviewer_notes,omitempty"`
	Outcome              *InterviewOutcome `json:"outcome,omitempty"`
	InterviewCompletedAt *time.Time        `json:"interview_completed_at,omitempty"`
	ReminderSent24h      bool              `json:"reminder_sent_24h"`
	ReminderSent2h       bool              `json:"reminder_sent_2h"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`

	// Joined data for list responses
	JobTitle *string `json:"job_title,omitempty"`
}

// ExpectedEndTime is the scheduled start plus the booked duration.
func (i *Interview) ExpectedEndTime() time.Time {
	return i.ScheduledDate.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ScheduleInterviewRequest is the payload for booking an interview
type ScheduleInterviewRequest struct {
	ScheduledDate    time.Time     `json:"scheduled_date" binding:"required"`
	DurationMinutes  int           `json:"duration_minutes" binding:"required,min=15,max=1440"`
	InterviewType    InterviewType `json:"interview_type" binding:"required" validate:"required,enum"`
	InterviewRound   int           `json:"interview_round" validate:"omitempty,min=1"`
	Location         *string       `json:"location,omitempty"`
	MeetingLink      *string       `json:"meeting_link,omitempty" validate:"omitempty,url"`
	InterviewerName  *string       `json:"interviewer_name,omitempty"`
	InterviewerEmail *string       `json:"interviewer_email,omitempty" validate:"omitempty,email"`
	InterviewerPhone *string       `json:"interviewer_phone,omitempty" validate:"omitempty,valid_phone"`
	PreparationNotes *string       `json:"preparation_notes,omitempty"`
}

// UpdateInterviewRequest carries the fields to change; nil means unchanged
type UpdateInterviewRequest struct {
	ScheduledDate    *time.Time     `json:"scheduled_date,omitempty"`
	InterviewType    *InterviewType `json:"interview_type,omitempty" validate:"omitempty,enum"`
	InterviewRound   *int           `json:"interview_round,omitempty" validate:"omitempty,min=1"`
	Location         *string        `json:"location,omitempty"`
	MeetingLink      *string        `json:"meeting_link,omitempty" validate:"omitempty,url"`
	InterviewerName  *string        `json:"interviewer_name,omitempty"`
	InterviewerEmail *string        `json:"interviewer_email,omitempty" validate:"omitempty,email"`
	InterviewerPhone *string        `json:"interviewer_phone,omitempty" validate:"omitempty,valid_phone"`
	PreparationNotes *string        `json:"preparation_notes,omitempty"`
}

// ReminderKind selects which reminder flag a query or update targets
type ReminderKind string

const (
	Reminder24h ReminderKind = "24h"
	Reminder2h  ReminderKind = "2h"
)

// InterviewFilter narrows interview listings. Zero values are ignored.
type InterviewFilter struct {
	RecruiterID      string
	CandidateID      string
	Statuses         []InterviewStatus
	ExcludeCancelled bool
	From             *time.Time // scheduled_date >= From
	To               *time.Time // scheduled_date < To
	EndsAfter        *time.Time // scheduled_date + duration > EndsAfter
	Unconfirmed      bool
	Descending       bool
}

// InterviewRepository defines data access methods for interviews
type InterviewRepository interface {
	Create(ctx context.Context, iv *Interview) error
	Update(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	// GetActiveByJobApplicationID returns the non-cancelled interview of an application, or ErrNotFound
	GetActiveByJobApplicationID(ctx context.Context, jobApplicationID int64) (*Interview, error)
	List(ctx context.Context, filter InterviewFilter) ([]Interview, error)
	ListDueForReminder(ctx context.Context, kind ReminderKind, from, to time.Time) ([]Interview, error)
	MarkReminderSent(ctx context.Context, id int64, kind ReminderKind) error
	CountByStatus(ctx context.Context, recruiterID string) (map[InterviewStatus]int, error)
	CountByOutcome(ctx context.Context, recruiterID string) (map[InterviewOutcome]int, error)
}

// InterviewUsecase owns the interview lifecycle
type InterviewUsecase interface {
	ScheduleInterview(ctx context.Context, jobApplicationID int64, req ScheduleInterviewRequest) (*Interview, error)
	ConfirmInterview(ctx context.Context, id int64) (*Interview, error)
	CompleteInterview(ctx context.Context, id int64, notes string, outcome InterviewOutcome) (*Interview, error)
	CompleteEarly(ctx context.Context, id int64, notes string, outcome InterviewOutcome) (*Interview, error)
	MarkNoShow(ctx context.Context, id int64, notes string) (*Interview, error)
	CancelInterview(ctx context.Context, id int64, reason string) (*Interview, error)
	AdjustDuration(ctx context.Context, id int64, durationMinutes int) (*Interview, error)
	UpdateInterview(ctx context.Context, id int64, req UpdateInterviewRequest) (*Interview, error)
	GetInterviewByID(ctx context.Context, id int64) (*Interview, error)
	GetInterviewByJobApplication(ctx context.Context, jobApplicationID int64) (*Interview, error)

	GetRecruiterUpcomingInterviews(ctx context.Context, recruiterID string) ([]Interview, error)
	GetRecruiterScheduledInterviews(ctx context.Context, recruiterID string) ([]Interview, error)
	GetRecruiterPendingInterviews(ctx context.Context, recruiterID string) ([]Interview, error)
	GetCandidateUpcomingInterviews(ctx context.Context, candidateID string) ([]Interview, error)
	GetCandidatePastInterviews(ctx context.Context, candidateID string) ([]Interview, error)

	Send24HourReminders(ctx context.Context) (int, error)
	Send2HourReminders(ctx context.Context) (int, error)
}
