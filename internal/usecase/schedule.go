package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
)

// maxRangeDays bounds date-range queries (slot search, conflict scans, calendars)
const maxRangeDays = 93

// dateRange normalises an inclusive date range to [from 00:00, to+1d 00:00).
func dateRange(from, to time.Time, maxDays int) (time.Time, time.Time, error) {
	start := domain.StartOfDay(from)
	end := domain.StartOfDay(to)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.Validation(apperror.ReasonInvalidDateRange,
			"End date must not be before start date", nil)
	}
	if days := daysBetween(start, end) + 1; maxDays > 0 && days > maxDays {
		return time.Time{}, time.Time{}, apperror.Validation(apperror.ReasonInvalidDateRange,
			fmt.Sprintf("Date range must not exceed %d days", maxDays), nil)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// daysBetween counts calendar days from a to b, both at midnight.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// recruiterDay is a recruiter's rules and bookings around one calendar date
type recruiterDay struct {
	date  time.Time
	hours *domain.WorkingHours // nil when the weekday was never configured
	// non-cancelled interviews starting from the previous day up to the next one
	interviews []domain.Interview
}

func loadRecruiterDay(ctx context.Context, whRepo domain.WorkingHoursRepository, ivRepo domain.InterviewRepository, recruiterID string, date time.Time) (*recruiterDay, error) {
	day := domain.StartOfDay(date)

	hours, err := whRepo.GetByRecruiterAndDay(ctx, recruiterID, day.Weekday())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 2)
	interviews, err := ivRepo.List(ctx, domain.InterviewFilter{
		RecruiterID:      recruiterID,
		ExcludeCancelled: true,
		From:             &from,
		To:               &to,
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(interviews, func(i, j int) bool {
		return interviews[i].ScheduledDate.Before(interviews[j].ScheduledDate)
	})

	return &recruiterDay{date: day, hours: hours, interviews: interviews}, nil
}

// bookedOnDate counts interviews on the day itself, ignoring excludeID.
func (d *recruiterDay) bookedOnDate(excludeID int64) int {
	n := 0
	for _, iv := range d.interviews {
		if iv.ID != excludeID && domain.SameDate(d.date, iv.ScheduledDate) {
			n++
		}
	}
	return n
}

// onDate returns the interviews that start on the day itself.
func (d *recruiterDay) onDate() []domain.Interview {
	out := make([]domain.Interview, 0, len(d.interviews))
	for _, iv := range d.interviews {
		if domain.SameDate(d.date, iv.ScheduledDate) {
			out = append(out, iv)
		}
	}
	return out
}

func (d *recruiterDay) capReached(excludeID int64) bool {
	if d.hours == nil || d.hours.MaxInterviewsPerDay <= 0 {
		return false
	}
	return d.bookedOnDate(excludeID) >= d.hours.MaxInterviewsPerDay
}

// blocking returns the interviews whose buffer-widened interval overlaps [start, end).
func (d *recruiterDay) blocking(start, end time.Time, excludeID int64) []domain.Interview {
	buffer := d.hours.Buffer()
	var out []domain.Interview
	for _, iv := range d.interviews {
		if iv.ID == excludeID {
			continue
		}
		if domain.Overlaps(start, end, iv.ScheduledDate.Add(-buffer), iv.ExpectedEndTime().Add(buffer)) {
			out = append(out, iv)
		}
	}
	return out
}
