package domain

import (
	"context"
	"time"
)

// HoursPerWorkingDay is the flat working-day length utilization is measured against.
// It does not follow the recruiter's configured hours.
const HoursPerWorkingDay = 8

// SchedulingStats aggregates a recruiter's interviews over a period
type SchedulingStats struct {
	RecruiterID            string    `json:"recruiter_id"`
	From                   time.Time `json:"from"`
	To                     time.Time `json:"to"`
	TotalInterviews        int       `json:"total_interviews"`
	CompletedInterviews    int       `json:"completed_interviews"`
	CancelledInterviews    int       `json:"cancelled_interviews"`
	NoShowInterviews       int       `json:"no_show_interviews"`
	TotalInterviewHours    float64   `json:"total_interview_hours"`
	AverageDurationMinutes float64   `json:"average_duration_minutes"`
	BusiestDay             string    `json:"busiest_day,omitempty"`
	WorkingDaysPerWeek     int       `json:"working_days_per_week"`
	UtilizationRate        float64   `json:"utilization_rate"`
}

// InterviewStats is the all-time breakdown of a recruiter's interviews
type InterviewStats struct {
	RecruiterID      string  `json:"recruiter_id"`
	Total            int     `json:"total"`
	Scheduled        int     `json:"scheduled"`
	Confirmed        int     `json:"confirmed"`
	Completed        int     `json:"completed"`
	Cancelled        int     `json:"cancelled"`
	NoShow           int     `json:"no_show"`
	Upcoming         int     `json:"upcoming"`
	Passed           int     `json:"passed"`
	Failed           int     `json:"failed"`
	PendingOutcome   int     `json:"pending_outcome"`
	NeedsSecondRound int     `json:"needs_second_round"`
	CompletionRate   float64 `json:"completion_rate"`
	NoShowRate       float64 `json:"no_show_rate"`
}

// StatsUsecase computes scheduling analytics
type StatsUsecase interface {
	GetSchedulingStats(ctx context.Context, recruiterID string, from, to time.Time) (*SchedulingStats, error)
	GetRecruiterInterviewStats(ctx context.Context, recruiterID string) (*InterviewStats, error)
}
