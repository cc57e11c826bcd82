package domain

import (
	"context"
	"time"
)

// Working hours limits
const (
	DefaultBufferMinutes       = 15
	DefaultMaxInterviewsPerDay = 8
	MaxBufferMinutes           = 60
	MinInterviewsPerDayCap     = 1
	MaxInterviewsPerDayCap     = 20
)

// WorkingHours is a recruiter's availability for one day of the week
type WorkingHours struct {
	ID                  int64        `json:"id"`
	RecruiterID         string       `json:"recruiter_id"`
	DayOfWeek           time.Weekday `json:"day_of_week"` // 0 = Sunday
	IsWorkingDay        bool         `json:"is_working_day"`
	StartTime           *TimeOfDay   `json:"start_time,omitempty"`
	EndTime             *TimeOfDay   `json:"end_time,omitempty"`
	LunchBreakStart     *TimeOfDay   `json:"lunch_break_start,omitempty"`
	LunchBreakEnd       *TimeOfDay   `json:"lunch_break_end,omitempty"`
	BufferMinutes       int          `json:"buffer_minutes"`
	MaxInterviewsPerDay int          `json:"max_interviews_per_day"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Works reports whether interviews may be placed on this day at all.
func (w *WorkingHours) Works() bool {
	return w != nil && w.IsWorkingDay && w.StartTime != nil && w.EndTime != nil
}

// HasLunchBreak reports whether both lunch bounds are configured.
func (w *WorkingHours) HasLunchBreak() bool {
	return w != nil && w.LunchBreakStart != nil && w.LunchBreakEnd != nil
}

// Window returns the working interval anchored to day.
func (w *WorkingHours) Window(day time.Time) (time.Time, time.Time) {
	return w.StartTime.On(day), w.EndTime.On(day)
}

// Contains reports whether [start, end) lies inside the working window of start's date.
func (w *WorkingHours) Contains(start, end time.Time) bool {
	if !w.Works() {
		return false
	}
	open, closeAt := w.Window(start)
	return !start.Before(open) && !end.After(closeAt)
}

// IntersectsLunch reports whether [start, end) touches the lunch break of start's date.
func (w *WorkingHours) IntersectsLunch(start, end time.Time) bool {
	if !w.HasLunchBreak() {
		return false
	}
	return Overlaps(start, end, w.LunchBreakStart.On(start), w.LunchBreakEnd.On(start))
}

// Buffer is the required gap between two interviews of this recruiter.
func (w *WorkingHours) Buffer() time.Duration {
	if w == nil {
		return 0
	}
	return time.Duration(w.BufferMinutes) * time.Minute
}

// BufferMinutesOrZero is BufferMinutes, tolerating an unconfigured day.
func (w *WorkingHours) BufferMinutesOrZero() int {
	if w == nil {
		return 0
	}
	return w.BufferMinutes
}

// WorkingHoursRequest is the payload for configuring one day
type WorkingHoursRequest struct {
	DayOfWeek           *time.Weekday `json:"day_of_week" binding:"required" validate:"required,weekday"`
	IsWorkingDay        bool          `json:"is_working_day"`
	StartTime           *TimeOfDay    `json:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime             *TimeOfDay    `json:"end_time,omitempty" validate:"omitempty,time_of_day"`
	LunchBreakStart     *TimeOfDay    `json:"lunch_break_start,omitempty" validate:"omitempty,time_of_day"`
	LunchBreakEnd       *TimeOfDay    `json:"lunch_break_end,omitempty" validate:"omitempty,time_of_day"`
	BufferMinutes       *int          `json:"buffer_minutes,omitempty" validate:"omitempty,min=0,max=60"`
	MaxInterviewsPerDay *int          `json:"max_interviews_per_day,omitempty" validate:"omitempty,min=1,max=20"`
}

// BatchWorkingHoursRequest configures several days at once
type BatchWorkingHoursRequest struct {
	Days       []WorkingHoursRequest `json:"days" binding:"required,min=1,max=7,dive"`
	ReplaceAll bool                  `json:"replace_all"` // mark every unspecified day as non-working
}

// WorkingHoursFailure describes one day of a batch that was rejected
type WorkingHoursFailure struct {
	DayOfWeek *time.Weekday `json:"day_of_week,omitempty"`
	Errors    []string      `json:"errors"`
}

// BatchWorkingHoursResult reports what a batch actually applied
type BatchWorkingHoursResult struct {
	Saved    []WorkingHours        `json:"saved"`
	Failures []WorkingHoursFailure `json:"failures,omitempty"`
}

// WorkingHoursRepository persists per-day availability
type WorkingHoursRepository interface {
	Upsert(ctx context.Context, wh *WorkingHours) error
	GetByRecruiter(ctx context.Context, recruiterID string) ([]WorkingHours, error)
	// GetByRecruiterAndDay returns ErrNotFound when the day was never configured
	GetByRecruiterAndDay(ctx context.Context, recruiterID string, day time.Weekday) (*WorkingHours, error)
}

// WorkingHoursUsecase defines business logic for availability configuration
type WorkingHoursUsecase interface {
	SetWorkingHours(ctx context.Context, recruiterID string, req WorkingHoursRequest) (*WorkingHours, error)
	GetWorkingHours(ctx context.Context, recruiterID string) ([]WorkingHours, error)
	SetWorkingHoursBatch(ctx context.Context, recruiterID string, req BatchWorkingHoursRequest) (*BatchWorkingHoursResult, error)
}
