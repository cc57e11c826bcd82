package domain

import (
	"context"
	"strings"
	"time"
)

// ConflictType names a reason a proposed interview time is illegal or taken
type ConflictType string

const (
	ConflictNonWorkingDay        ConflictType = "NON_WORKING_DAY"
	ConflictOutsideWorkingHours  ConflictType = "OUTSIDE_WORKING_HOURS"
	ConflictDuringLunchBreak     ConflictType = "DURING_LUNCH_BREAK"
	ConflictMaxInterviewsReached ConflictType = "MAX_INTERVIEWS_REACHED"
	ConflictInterviewOverlap     ConflictType = "INTERVIEW_OVERLAP"
)

// ConflictDetail is one violated rule for a proposed interval
type ConflictDetail struct {
	Type                   ConflictType `json:"type"`
	IntervalStart          time.Time    `json:"interval_start"`
	IntervalEnd            time.Time    `json:"interval_end"`
	ConflictingInterviewID *int64       `json:"conflicting_interview_id,omitempty"`
	Description            string       `json:"description"`
}

// ConflictReport lists every rule a proposed interval violates
type ConflictReport struct {
	HasConflict    bool             `json:"has_conflict"`
	ConflictReason string           `json:"conflict_reason,omitempty"`
	Conflicts      []ConflictDetail `json:"conflicts"`
}

// NewConflictReport derives HasConflict and ConflictReason from the details.
func NewConflictReport(conflicts []ConflictDetail) *ConflictReport {
	if conflicts == nil {
		conflicts = []ConflictDetail{}
	}
	seen := make(map[ConflictType]bool)
	var reasons []string
	for _, c := range conflicts {
		if !seen[c.Type] {
			seen[c.Type] = true
			reasons = append(reasons, string(c.Type))
		}
	}
	return &ConflictReport{
		HasConflict:    len(conflicts) > 0,
		ConflictReason: strings.Join(reasons, ", "),
		Conflicts:      conflicts,
	}
}

// Has reports whether the report contains a conflict of type t.
func (r *ConflictReport) Has(t ConflictType) bool {
	for _, c := range r.Conflicts {
		if c.Type == t {
			return true
		}
	}
	return false
}

// ConflictCheck describes a proposed interview for conflict evaluation
type ConflictCheck struct {
	RecruiterID     string    `json:"recruiter_id"`
	CandidateID     string    `json:"candidate_id,omitempty"` // empty skips the candidate-side check
	Start           time.Time `json:"start" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=1440"`
	// ExcludeInterviewID ignores an existing interview, used when rescheduling it
	ExcludeInterviewID int64 `json:"-"`
}

// End is the exclusive end of the proposed interval.
func (c ConflictCheck) End() time.Time {
	return c.Start.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// InterviewConflict is an existing interview that no longer satisfies the rules
type InterviewConflict struct {
	Interview Interview        `json:"interview"`
	Conflicts []ConflictDetail `json:"conflicts"`
}

// ConflictDetector decides whether a proposed interview time is legal and free
type ConflictDetector interface {
	CheckConflict(ctx context.Context, check ConflictCheck) (*ConflictReport, error)
	IsAvailable(ctx context.Context, recruiterID string, start time.Time, durationMinutes int) (bool, error)
	FindConflicts(ctx context.Context, recruiterID string, from, to time.Time) ([]InterviewConflict, error)
}

// SlotFinder enumerates legal free start times
type SlotFinder interface {
	GetAvailableSlots(ctx context.Context, recruiterID string, date time.Time, durationMinutes int) ([]TimeOfDay, error)
	GetAvailableDates(ctx context.Context, recruiterID string, startDate, endDate time.Time, durationMinutes int) ([]time.Time, error)
	SuggestOptimalTimes(ctx context.Context, recruiterID string, date time.Time, durationMinutes int) ([]TimeOfDay, error)
}
