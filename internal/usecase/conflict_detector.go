package usecase

import (
	"context"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"
)

type conflictDetector struct {
	workingHoursRepo domain.WorkingHoursRepository
	interviewRepo    domain.InterviewRepository
	options
}

// NewConflictDetector creates the rule evaluator shared by booking, slot search and views
func NewConflictDetector(
	whRepo domain.WorkingHoursRepository,
	ivRepo domain.InterviewRepository,
	opts ...Option,
) domain.ConflictDetector {
	return &conflictDetector{
		workingHoursRepo: whRepo,
		interviewRepo:    ivRepo,
		options:          newOptions(opts),
	}
}

// CheckConflict evaluates every rule for the proposed interval and reports all violations
func (d *conflictDetector) CheckConflict(ctx context.Context, check domain.ConflictCheck) (*domain.ConflictReport, error) {
	if err := validateDuration(check.DurationMinutes); err != nil {
		return nil, err
	}
	check.Start = d.local(check.Start)

	day, err := loadRecruiterDay(ctx, d.workingHoursRepo, d.interviewRepo, check.RecruiterID, check.Start)
	if err != nil {
		return nil, internalErr(err)
	}

	var candidateInterviews []domain.Interview
	if check.CandidateID != "" {
		start, end := check.Start, check.End()
		candidateInterviews, err = d.interviewRepo.List(ctx, domain.InterviewFilter{
			CandidateID:      check.CandidateID,
			ExcludeCancelled: true,
			To:               &end,
			EndsAfter:        &start,
		})
		if err != nil {
			return nil, internalErr(err)
		}
	}

	return domain.NewConflictReport(evaluate(check, day, candidateInterviews)), nil
}

// IsAvailable is CheckConflict without a candidate, reduced to a boolean
func (d *conflictDetector) IsAvailable(ctx context.Context, recruiterID string, start time.Time, durationMinutes int) (bool, error) {
	report, err := d.CheckConflict(ctx, domain.ConflictCheck{
		RecruiterID:     recruiterID,
		Start:           start,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		return false, err
	}
	return !report.HasConflict, nil
}

// FindConflicts re-evaluates existing bookings against the current rules
func (d *conflictDetector) FindConflicts(ctx context.Context, recruiterID string, from, to time.Time) ([]domain.InterviewConflict, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	start, end, err := dateRange(d.local(from), d.local(to), maxRangeDays)
	if err != nil {
		return nil, err
	}

	interviews, err := d.interviewRepo.List(ctx, domain.InterviewFilter{
		RecruiterID:      recruiterID,
		ExcludeCancelled: true,
		From:             &start,
		To:               &end,
	})
	if err != nil {
		return nil, internalErr(err)
	}

	result := make([]domain.InterviewConflict, 0)
	for _, iv := range interviews {
		report, err := d.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID:        recruiterID,
			CandidateID:        iv.CandidateID,
			Start:              iv.ScheduledDate,
			DurationMinutes:    iv.DurationMinutes,
			ExcludeInterviewID: iv.ID,
		})
		if err != nil {
			return nil, err
		}
		if report.HasConflict {
			result = append(result, domain.InterviewConflict{Interview: iv, Conflicts: report.Conflicts})
		}
	}
	return result, nil
}

// evaluate applies the working-hours, lunch, cap and overlap rules to one proposed interval.
// Every rule is checked so the caller gets a complete diagnostic.
func evaluate(check domain.ConflictCheck, day *recruiterDay, candidateInterviews []domain.Interview) []domain.ConflictDetail {
	start, end := check.Start, check.End()
	conflicts := make([]domain.ConflictDetail, 0)
	add := func(t domain.ConflictType, ivID *int64, desc string) {
		conflicts = append(conflicts, domain.ConflictDetail{
			Type:                   t,
			IntervalStart:          start,
			IntervalEnd:            end,
			ConflictingInterviewID: ivID,
			Description:            desc,
		})
	}

	// 1. Working day
	if !day.hours.Works() {
		add(domain.ConflictNonWorkingDay, nil, fmt.Sprintf("%s is not a working day", start.Weekday()))
	} else {
		// 2. Working window
		if !day.hours.Contains(start, end) {
			add(domain.ConflictOutsideWorkingHours, nil, fmt.Sprintf("Working hours are %s-%s", day.hours.StartTime, day.hours.EndTime))
		}
		// 3. Lunch break
		if day.hours.IntersectsLunch(start, end) {
			add(domain.ConflictDuringLunchBreak, nil, fmt.Sprintf("Lunch break is %s-%s", day.hours.LunchBreakStart, day.hours.LunchBreakEnd))
		}
	}

	// 4. Daily cap
	if day.capReached(check.ExcludeInterviewID) {
		add(domain.ConflictMaxInterviewsReached, nil, fmt.Sprintf("Maximum of %d interviews per day reached", day.hours.MaxInterviewsPerDay))
	}

	// 5. Recruiter bookings, including the buffer on both sides
	for _, iv := range day.blocking(start, end, check.ExcludeInterviewID) {
		id := iv.ID
		add(domain.ConflictInterviewOverlap, &id, fmt.Sprintf("Overlaps interview #%d (%s-%s, buffer %d min)",
			iv.ID, iv.ScheduledDate.Format("15:04"), iv.ExpectedEndTime().Format("15:04"), day.hours.BufferMinutesOrZero()))
	}

	// 6. Candidate bookings with other recruiters
	for _, iv := range candidateInterviews {
		if iv.ID == check.ExcludeInterviewID || iv.RecruiterID == check.RecruiterID {
			continue
		}
		if domain.Overlaps(start, end, iv.ScheduledDate, iv.ExpectedEndTime()) {
			add(domain.ConflictInterviewOverlap, nil, "Candidate has another interview at this time")
		}
	}

	return conflicts
}
