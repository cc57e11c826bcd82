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

func TestGetAvailableSlots_StandardDay(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)

	slots, err := env.slotFinder(t).GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 60)
	require.NoError(t, err)

	assert.Contains(t, slots, domain.NewTimeOfDay(9, 0))
	assert.Contains(t, slots, domain.NewTimeOfDay(11, 0))
	assert.NotContains(t, slots, domain.NewTimeOfDay(11, 30), "would intersect lunch")
	assert.Contains(t, slots, domain.NewTimeOfDay(16, 0), "ends exactly at closing time")
	assert.NotContains(t, slots, domain.NewTimeOfDay(16, 15), "would end after closing time")
	assert.Len(t, slots, 22)

	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}

func TestGetAvailableSlots_NonWorkingDay(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	finder := env.slotFinder(t)

	slots, err := finder.GetAvailableSlots(asCandidate(candidateID), recruiterID, monday.AddDate(0, 0, 6), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_ = env.wh.Upsert(context.Background(), &domain.WorkingHours{
		RecruiterID: recruiterID, DayOfWeek: time.Monday, IsWorkingDay: false,
		StartTime: tod(9, 0), EndTime: tod(17, 0), BufferMinutes: 15, MaxInterviewsPerDay: 8,
	})
	slots, err = finder.GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlots_BufferMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 10, 0), DurationMinutes: 60})
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 14, 30), DurationMinutes: 45})
	finder := env.slotFinder(t)

	var previous []domain.TimeOfDay
	for _, buffer := range []int{0, 5, 15, 30, 60} {
		wh, _ := env.wh.GetByRecruiterAndDay(context.Background(), recruiterID, time.Monday)
		wh.BufferMinutes = buffer
		_ = env.wh.Upsert(context.Background(), wh)

		slots, err := finder.GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 30)
		require.NoError(t, err)
		if previous != nil {
			assert.Subset(t, previous, slots, "buffer %d added slots", buffer)
		}
		previous = slots
	}
}

func TestGetAvailableSlots_KeepsBufferToBookings(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 10, 0), DurationMinutes: 60})

	slots, err := env.slotFinder(t).GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 30)
	require.NoError(t, err)

	assert.Contains(t, slots, domain.NewTimeOfDay(9, 15))
	assert.NotContains(t, slots, domain.NewTimeOfDay(9, 30))
	assert.NotContains(t, slots, domain.NewTimeOfDay(11, 0))
	assert.Contains(t, slots, domain.NewTimeOfDay(11, 15))
}

func TestGetAvailableSlots_CapReached(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	wh, _ := env.wh.GetByRecruiterAndDay(context.Background(), recruiterID, time.Monday)
	wh.MaxInterviewsPerDay = 1
	_ = env.wh.Upsert(context.Background(), wh)
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 9, 0), DurationMinutes: 30})

	slots, err := env.slotFinder(t).GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailableSlots_DropsPastStartTimes(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.now = at(monday, 10, 20)

	slots, err := env.slotFinder(t).GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 30)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, domain.NewTimeOfDay(10, 30), slots[0])
}

func TestGetAvailableSlots_Validation(t *testing.T) {
	env := newTestEnv(t)
	finder := env.slotFinder(t)

	_, err := finder.GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 10)
	assert.Equal(t, apperror.ReasonInvalidDuration, apperror.ReasonOf(err))

	slots, err := finder.GetAvailableSlots(asCandidate(candidateID), recruiterID, monday, 200_000_000)
	assert.Equal(t, apperror.ReasonInvalidDuration, apperror.ReasonOf(err))
	assert.Nil(t, slots)

	_, err = finder.SuggestOptimalTimes(asCandidate(candidateID), recruiterID, monday, domain.MaxInterviewDurationMinutes+1)
	assert.Equal(t, apperror.ReasonInvalidDuration, apperror.ReasonOf(err))

	_, err = finder.GetAvailableSlots(asCandidate(candidateID), "ghost", monday, 30)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = finder.GetAvailableSlots(context.Background(), recruiterID, monday, 30)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestGetAvailableDates(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	finder := env.slotFinder(t)

	dates, err := finder.GetAvailableDates(asCandidate(candidateID), recruiterID, monday, monday.AddDate(0, 0, 6), 60)
	require.NoError(t, err)
	require.Len(t, dates, 5)
	assert.Equal(t, monday, dates[0])
	assert.Equal(t, time.Friday, dates[4].Weekday())

	_, err = finder.GetAvailableDates(asCandidate(candidateID), recruiterID, monday, monday.AddDate(0, 0, 100), 60)
	assert.Equal(t, apperror.ReasonInvalidDateRange, apperror.ReasonOf(err))

	_, err = finder.GetAvailableDates(asCandidate(candidateID), recruiterID, monday, monday.AddDate(0, 0, -1), 60)
	assert.Equal(t, apperror.ReasonInvalidDateRange, apperror.ReasonOf(err))
}

func TestSuggestOptimalTimes(t *testing.T) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	finder := env.slotFinder(t)

	t.Run("prefers anchors", func(t *testing.T) {
		env.iv.seed(domain.Interview{RecruiterID: recruiterID, ScheduledDate: at(monday, 14, 0), DurationMinutes: 60})
		times, err := finder.SuggestOptimalTimes(asCandidate(candidateID), recruiterID, monday, 60)
		require.NoError(t, err)
		assert.Equal(t, []domain.TimeOfDay{domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(11, 0)}, times)
	})

	t.Run("falls back to the first three slots", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		_ = env.wh.Upsert(context.Background(), &domain.WorkingHours{
			RecruiterID: recruiterID, DayOfWeek: time.Tuesday, IsWorkingDay: true,
			StartTime: tod(7, 0), EndTime: tod(10, 0), BufferMinutes: 15, MaxInterviewsPerDay: 8,
		})
		times, err := finder.SuggestOptimalTimes(asCandidate(candidateID), recruiterID, tuesday, 60)
		require.NoError(t, err)
		assert.Equal(t, []domain.TimeOfDay{domain.NewTimeOfDay(7, 0), domain.NewTimeOfDay(7, 15), domain.NewTimeOfDay(7, 30)}, times)
	})
}
