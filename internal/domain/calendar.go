package domain

import (
	"context"
	"time"
)

// DefaultCalendarSlotMinutes is the slot length used by the daily view
const DefaultCalendarSlotMinutes = 60

// Calendar export formats
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// DailyCalendar is one recruiter day with its bookings and free slots
type DailyCalendar struct {
	Date               time.Time   `json:"date"`
	DayOfWeek          string      `json:"day_of_week"`
	IsWorkingDay       bool        `json:"is_working_day"`
	WorkStartTime      *TimeOfDay  `json:"work_start_time,omitempty"`
	WorkEndTime        *TimeOfDay  `json:"work_end_time,omitempty"`
	LunchBreakStart    *TimeOfDay  `json:"lunch_break_start,omitempty"`
	LunchBreakEnd      *TimeOfDay  `json:"lunch_break_end,omitempty"`
	Interviews         []Interview `json:"interviews"`
	AvailableSlots     []TimeOfDay `json:"available_slots"`
	TotalInterviews    int         `json:"total_interviews"`
	AvailableSlotCount int         `json:"available_slot_count"`
}

// WeeklyCalendar is seven consecutive days starting on Monday
type WeeklyCalendar struct {
	WeekStart       time.Time       `json:"week_start"`
	WeekEnd         time.Time       `json:"week_end"`
	Days            []DailyCalendar `json:"days"`
	Interviews      []Interview     `json:"interviews"`
	TotalInterviews int             `json:"total_interviews"`
}

// MonthlyCalendarDay is the summary of one date in a month view
type MonthlyCalendarDay struct {
	Date           time.Time `json:"date"`
	IsWorkingDay   bool      `json:"is_working_day"`
	InterviewCount int       `json:"interview_count"`
}

// MonthlyCalendar buckets interview counts per date
type MonthlyCalendar struct {
	Year            int                  `json:"year"`
	Month           time.Month           `json:"month"`
	Days            []MonthlyCalendarDay `json:"days"`
	TotalInterviews int                  `json:"total_interviews"`
	WorkingDays     int                  `json:"working_days"`
}

// CandidateCalendar lists a candidate's interviews in a date range
type CandidateCalendar struct {
	CandidateID string      `json:"candidate_id"`
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	Interviews  []Interview `json:"interviews"`
}

// CalendarUsecase builds calendar views
type CalendarUsecase interface {
	GetDailyCalendar(ctx context.Context, recruiterID string, date time.Time, slotMinutes int) (*DailyCalendar, error)
	GetWeeklyCalendar(ctx context.Context, recruiterID string, date time.Time) (*WeeklyCalendar, error)
	GetMonthlyCalendar(ctx context.Context, recruiterID string, year int, month time.Month) (*MonthlyCalendar, error)
	GetCandidateCalendar(ctx context.Context, candidateID string, from, to time.Time) (*CandidateCalendar, error)
	ExportRecruiterCalendar(ctx context.Context, recruiterID string, from, to time.Time, format string) ([]byte, string, error)
}
