package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflict_BufferAroundExistingInterview(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	existing := env.iv.seed(domain.Interview{
		RecruiterID:     recruiterID,
		CandidateID:     "candidate-2",
		ScheduledDate:   at(monday, 10, 0),
		DurationMinutes: 60,
	})
	detector := env.detector(t)
	ctx := context.Background()

	t.Run("5 minute gap is inside the buffer", func(t *testing.T) {
		report, err := detector.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 11, 5), DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.True(t, report.HasConflict)
		require.Len(t, report.Conflicts, 1)
		assert.Equal(t, domain.ConflictInterviewOverlap, report.Conflicts[0].Type)
		require.NotNil(t, report.Conflicts[0].ConflictingInterviewID)
		assert.Equal(t, existing.ID, *report.Conflicts[0].ConflictingInterviewID)
	})

	t.Run("15 minute gap is accepted", func(t *testing.T) {
		report, err := detector.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 11, 15), DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.False(t, report.HasConflict)
		assert.Empty(t, report.Conflicts)
		assert.Empty(t, report.ConflictReason)
	})

	t.Run("buffer applies before the existing interview too", func(t *testing.T) {
		report, err := detector.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 9, 20), DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.True(t, report.Has(domain.ConflictInterviewOverlap))

		report, err = detector.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 9, 0), DurationMinutes: 45,
		})
		require.NoError(t, err)
		assert.False(t, report.HasConflict)
	})

	t.Run("excluded interview does not conflict with itself", func(t *testing.T) {
		report, err := detector.CheckConflict(ctx, domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 10, 30), DurationMinutes: 60, ExcludeInterviewID: existing.ID,
		})
		require.NoError(t, err)
		assert.False(t, report.HasConflict)
	})
}

func TestCheckConflict_ReportsEveryViolation(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: "candidate-2", ScheduledDate: at(monday, 16, 0), DurationMinutes: 60})

	// 11:45 for 90 minutes runs into lunch; 16:30 for 60 leaves the window and hits the booking
	report, err := env.detector(t).CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, Start: at(monday, 11, 45), DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "DURING_LUNCH_BREAK", report.ConflictReason)

	report, err = env.detector(t).CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, Start: at(monday, 16, 30), DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.True(t, report.Has(domain.ConflictOutsideWorkingHours))
	assert.True(t, report.Has(domain.ConflictInterviewOverlap))
	assert.Equal(t, "OUTSIDE_WORKING_HOURS, INTERVIEW_OVERLAP", report.ConflictReason)
}

func TestCheckConflict_NonWorkingDay(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	saturday := monday.AddDate(0, 0, 5)
	detector := env.detector(t)

	for _, start := range []time.Time{at(saturday, 10, 0), at(saturday, 3, 0), at(saturday, 22, 0)} {
		report, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
			RecruiterID: recruiterID, Start: start, DurationMinutes: 30,
		})
		require.NoError(t, err)
		assert.True(t, report.Has(domain.ConflictNonWorkingDay), start.String())
	}

	// Unknown recruiter has no configuration at all
	report, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: "nobody", Start: at(monday, 10, 0), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "NON_WORKING_DAY", report.ConflictReason)
}

func TestCheckConflict_DailyCap(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	wh, _ := env.wh.GetByRecruiterAndDay(context.Background(), recruiterID, time.Monday)
	wh.MaxInterviewsPerDay = 2
	wh.BufferMinutes = 0
	_ = env.wh.Upsert(context.Background(), wh)

	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 9, 0), DurationMinutes: 30})
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 10, 0), DurationMinutes: 30})
	// Cancelled interviews do not count
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 11, 0), DurationMinutes: 30, Status: domain.InterviewStatusCancelled})

	detector := env.detector(t)
	report, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, Start: at(monday, 14, 0), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "MAX_INTERVIEWS_REACHED", report.ConflictReason)

	ok, err := detector.IsAvailable(context.Background(), recruiterID, at(monday, 14, 0), 30)
	require.NoError(t, err)
	assert.False(t, ok)

	tuesday := monday.AddDate(0, 0, 1)
	ok, err = detector.IsAvailable(context.Background(), recruiterID, at(tuesday, 14, 0), 30)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckConflict_CandidateSide(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.standardWeek(otherRecruiterID)
	env.iv.seed(domain.Interview{RecruiterID: otherRecruiterID, CandidateID: candidateID, ScheduledDate: at(monday, 14, 0), DurationMinutes: 60})
	detector := env.detector(t)

	report, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, CandidateID: candidateID, Start: at(monday, 14, 30), DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, domain.ConflictInterviewOverlap, report.Conflicts[0].Type)
	assert.Nil(t, report.Conflicts[0].ConflictingInterviewID)

	// No buffer on the candidate side
	report, err = detector.CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, CandidateID: candidateID, Start: at(monday, 15, 0), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.False(t, report.HasConflict)

	// Without a candidate the other recruiter's booking is invisible
	ok, err := detector.IsAvailable(context.Background(), recruiterID, at(monday, 14, 30), 30)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckConflict_RejectsOutOfRangeDuration(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	detector := env.detector(t)

	for _, minutes := range []int{10, domain.MaxInterviewDurationMinutes + 1, 200_000_000} {
		_, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
			RecruiterID: recruiterID, Start: at(monday, 9, 0), DurationMinutes: minutes,
		})
		assert.Equal(t, apperror.ReasonInvalidDuration, apperror.ReasonOf(err), minutes)
	}

	_, err := detector.IsAvailable(context.Background(), recruiterID, at(monday, 9, 0), 200_000_000)
	assert.Equal(t, apperror.ReasonInvalidDuration, apperror.ReasonOf(err))

	// A full-day booking is accepted as input and reported as outside working hours
	report, err := detector.CheckConflict(context.Background(), domain.ConflictCheck{
		RecruiterID: recruiterID, Start: at(monday, 9, 0), DurationMinutes: domain.MaxInterviewDurationMinutes,
	})
	require.NoError(t, err)
	assert.True(t, report.Has(domain.ConflictOutsideWorkingHours))
}

func TestFindConflicts_DetectsBookingsMadeIllegalByConfigChange(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	ok := env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: candidateID, ScheduledDate: at(monday, 9, 0), DurationMinutes: 60})
	late := env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: "candidate-2", ScheduledDate: at(monday, 15, 0), DurationMinutes: 60})

	// Monday now ends at 15:00
	wh, _ := env.wh.GetByRecruiterAndDay(context.Background(), recruiterID, time.Monday)
	wh.EndTime = tod(15, 0)
	_ = env.wh.Upsert(context.Background(), wh)

	conflicts, err := env.detector(t).FindConflicts(asRecruiter(recruiterID), recruiterID, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, late.ID, conflicts[0].Interview.ID)
	assert.NotEqual(t, ok.ID, conflicts[0].Interview.ID)
	assert.Equal(t, domain.ConflictOutsideWorkingHours, conflicts[0].Conflicts[0].Type)

	_, err = env.detector(t).FindConflicts(asRecruiter(otherRecruiterID), recruiterID, monday, monday)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
