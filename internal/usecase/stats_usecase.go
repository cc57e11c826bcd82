package usecase

import (
	"context"
	"math"
	"time"

	"go-interview-scheduler/internal/domain"
)

type statsUsecase struct {
	workingHoursRepo domain.WorkingHoursRepository
	interviewRepo    domain.InterviewRepository
	options
}

// NewStatsUsecase creates the scheduling analytics usecase
func NewStatsUsecase(
	whRepo domain.WorkingHoursRepository,
	ivRepo domain.InterviewRepository,
	opts ...Option,
) domain.StatsUsecase {
	return &statsUsecase{
		workingHoursRepo: whRepo,
		interviewRepo:    ivRepo,
		options:          newOptions(opts),
	}
}

// GetSchedulingStats aggregates the recruiter's interviews in an inclusive date range.
// Utilization assumes a flat 8-hour working day, whatever hours are configured.
func (uc *statsUsecase) GetSchedulingStats(ctx context.Context, recruiterID string, from, to time.Time) (*domain.SchedulingStats, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	start, end, err := dateRange(uc.local(from), uc.local(to), 0)
	if err != nil {
		return nil, err
	}

	interviews, err := uc.interviewRepo.List(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		From:        &start,
		To:          &end,
	})
	if err != nil {
		return nil, internalErr(err)
	}
	pattern, err := uc.workingHoursRepo.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, internalErr(err)
	}

	stats := &domain.SchedulingStats{
		RecruiterID:     recruiterID,
		From:            start,
		To:              end.AddDate(0, 0, -1),
		TotalInterviews: len(interviews),
	}

	var minutes, held int
	perWeekday := make(map[time.Weekday]int)
	for _, iv := range interviews {
		switch iv.Status {
		case domain.InterviewStatusCompleted:
			stats.CompletedInterviews++
		case domain.InterviewStatusCancelled:
			stats.CancelledInterviews++
			continue
		case domain.InterviewStatusNoShow:
			stats.NoShowInterviews++
		}
		minutes += iv.DurationMinutes
		held++
		perWeekday[uc.local(iv.ScheduledDate).Weekday()]++
	}

	stats.TotalInterviewHours = round2(float64(minutes) / 60)
	if held > 0 {
		stats.AverageDurationMinutes = round2(float64(minutes) / float64(held))
	}
	stats.BusiestDay = busiestDay(perWeekday)

	for i := range pattern {
		if pattern[i].Works() {
			stats.WorkingDaysPerWeek++
		}
	}
	weeks := int(math.Ceil(float64(daysBetween(start, end)) / 7))
	if weeks < 1 {
		weeks = 1
	}
	if capacity := float64(stats.WorkingDaysPerWeek * weeks * domain.HoursPerWorkingDay); capacity > 0 {
		stats.UtilizationRate = math.Round(float64(minutes)/60/capacity*10000) / 10000
	}
	return stats, nil
}

// GetRecruiterInterviewStats returns all-time counts per status and outcome
func (uc *statsUsecase) GetRecruiterInterviewStats(ctx context.Context, recruiterID string) (*domain.InterviewStats, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}

	byStatus, err := uc.interviewRepo.CountByStatus(ctx, recruiterID)
	if err != nil {
		return nil, internalErr(err)
	}
	byOutcome, err := uc.interviewRepo.CountByOutcome(ctx, recruiterID)
	if err != nil {
		return nil, internalErr(err)
	}
	now := uc.clock()
	upcoming, err := uc.interviewRepo.List(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		Statuses:    domain.ActiveInterviewStatuses,
		From:        &now,
	})
	if err != nil {
		return nil, internalErr(err)
	}

	stats := &domain.InterviewStats{
		RecruiterID:      recruiterID,
		Scheduled:        byStatus[domain.InterviewStatusScheduled] + byStatus[domain.InterviewStatusRescheduled],
		Confirmed:        byStatus[domain.InterviewStatusConfirmed],
		Completed:        byStatus[domain.InterviewStatusCompleted],
		Cancelled:        byStatus[domain.InterviewStatusCancelled],
		NoShow:           byStatus[domain.InterviewStatusNoShow],
		Upcoming:         len(upcoming),
		Passed:           byOutcome[domain.OutcomePass],
		Failed:           byOutcome[domain.OutcomeFail],
		PendingOutcome:   byOutcome[domain.OutcomePending],
		NeedsSecondRound: byOutcome[domain.OutcomeNeedsSecondRound],
	}
	for _, n := range byStatus {
		stats.Total += n
	}

	// Rates are over interviews whose time has come: attended or missed
	if attended := stats.Completed + stats.NoShow; attended > 0 {
		stats.CompletionRate = round2(float64(stats.Completed) * 100 / float64(attended))
		stats.NoShowRate = round2(float64(stats.NoShow) * 100 / float64(attended))
	}
	return stats, nil
}

// busiestDay is the weekday with most interviews; ties go to the earlier day of the week.
func busiestDay(perWeekday map[time.Weekday]int) string {
	best, bestCount := time.Weekday(-1), 0
	for i := 0; i < 7; i++ {
		d := time.Weekday((i + 1) % 7) // Monday first
		if perWeekday[d] > bestCount {
			best, bestCount = d, perWeekday[d]
		}
	}
	if best < 0 {
		return ""
	}
	return best.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
