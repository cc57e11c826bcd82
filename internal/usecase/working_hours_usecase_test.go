package usecase_test

import (
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkingHoursUsecase(t *testing.T, env *testEnv) domain.WorkingHoursUsecase {
	return usecase.NewWorkingHoursUsecase(env.wh, validation.New(), env.options(t)...)
}

func TestSetWorkingHours_AppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	uc := newWorkingHoursUsecase(t, env)

	wh, err := uc.SetWorkingHours(asRecruiter(recruiterID), recruiterID, domain.WorkingHoursRequest{
		DayOfWeek:    weekdayPtr(time.Monday),
		IsWorkingDay: true,
		StartTime:    tod(9, 0),
		EndTime:      tod(17, 0),
	})
	require.NoError(t, err)
	assert.NotZero(t, wh.ID)
	assert.Equal(t, domain.DefaultBufferMinutes, wh.BufferMinutes)
	assert.Equal(t, domain.DefaultMaxInterviewsPerDay, wh.MaxInterviewsPerDay)

	// Upsert keeps one row per weekday
	again, err := uc.SetWorkingHours(asRecruiter(recruiterID), recruiterID, domain.WorkingHoursRequest{
		DayOfWeek:     weekdayPtr(time.Monday),
		IsWorkingDay:  true,
		StartTime:     tod(8, 0),
		EndTime:       tod(16, 0),
		BufferMinutes: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, wh.ID, again.ID)
	assert.Equal(t, 0, again.BufferMinutes)

	days, err := uc.GetWorkingHours(asCandidate(candidateID), recruiterID)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, domain.NewTimeOfDay(8, 0), *days[0].StartTime)
}

func TestSetWorkingHours_SundayIsAValidDay(t *testing.T) {
	env := newTestEnv(t)
	uc := newWorkingHoursUsecase(t, env)

	wh, err := uc.SetWorkingHours(asRecruiter(recruiterID), recruiterID, domain.WorkingHoursRequest{
		DayOfWeek:    weekdayPtr(time.Sunday),
		IsWorkingDay: false,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wh.DayOfWeek)
	assert.False(t, wh.Works())
}

func TestSetWorkingHours_Validation(t *testing.T) {
	env := newTestEnv(t)
	uc := newWorkingHoursUsecase(t, env)
	ctx := asRecruiter(recruiterID)

	tests := []struct {
		name string
		req  domain.WorkingHoursRequest
		want string
	}{
		{
			name: "missing start on working day",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, EndTime: tod(17, 0)},
			want: "Start time: is required on a working day",
		},
		{
			name: "end before start",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(17, 0), EndTime: tod(9, 0)},
			want: "End time: must be later than start time",
		},
		{
			name: "half lunch break",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), LunchBreakStart: tod(12, 0)},
			want: "Lunch break: both start and end are required",
		},
		{
			name: "inverted lunch break",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), LunchBreakStart: tod(13, 0), LunchBreakEnd: tod(12, 0)},
			want: "Lunch break end: must be later than lunch break start",
		},
		{
			name: "lunch outside working hours",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), LunchBreakStart: tod(16, 30), LunchBreakEnd: tod(17, 30)},
			want: "Lunch break: must lie within working hours",
		},
		{
			name: "buffer too large",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), BufferMinutes: intPtr(61)},
			want: "Buffer minutes: must be at most 60",
		},
		{
			name: "cap too large",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), MaxInterviewsPerDay: intPtr(21)},
			want: "Max interviews per day: must be at most 20",
		},
		{
			name: "cap zero",
			req:  domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0), MaxInterviewsPerDay: intPtr(0)},
			want: "Max interviews per day: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.SetWorkingHours(ctx, recruiterID, tt.req)
			require.Error(t, err)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, apperror.ReasonInvalidWorkingHours, appErr.Reason)
			assert.Contains(t, appErr.Details, tt.want)
		})
	}

	days, _ := env.wh.GetByRecruiter(ctx, recruiterID)
	assert.Empty(t, days)
}

func TestSetWorkingHours_OnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	uc := newWorkingHoursUsecase(t, env)
	req := domain.WorkingHoursRequest{DayOfWeek: weekdayPtr(time.Monday)}

	_, err := uc.SetWorkingHours(asRecruiter(otherRecruiterID), recruiterID, req)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = uc.SetWorkingHours(asCandidate(recruiterID), recruiterID, req)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = uc.SetWorkingHours(asAdmin(), recruiterID, req)
	assert.NoError(t, err)
}

func TestSetWorkingHoursBatch(t *testing.T) {
	env := newTestEnv(t)
	uc := newWorkingHoursUsecase(t, env)

	result, err := uc.SetWorkingHoursBatch(asRecruiter(recruiterID), recruiterID, domain.BatchWorkingHoursRequest{
		Days: []domain.WorkingHoursRequest{
			{DayOfWeek: weekdayPtr(time.Tuesday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0)},
			{DayOfWeek: weekdayPtr(time.Monday), IsWorkingDay: true, StartTime: tod(9, 0), EndTime: tod(17, 0)},
			{DayOfWeek: weekdayPtr(time.Wednesday), IsWorkingDay: true, StartTime: tod(17, 0), EndTime: tod(9, 0)},
		},
		ReplaceAll: true,
	})
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, time.Wednesday, *result.Failures[0].DayOfWeek)
	assert.Contains(t, result.Failures[0].Errors, "End time: must be later than start time")

	// Monday, Tuesday plus the four unspecified days marked non-working
	require.Len(t, result.Saved, 6)
	assert.Equal(t, time.Monday, result.Saved[0].DayOfWeek)
	assert.Equal(t, time.Sunday, result.Saved[5].DayOfWeek)
	assert.False(t, result.Saved[5].IsWorkingDay)

	// The failed day is neither saved nor switched off by replace-all
	_, err = env.wh.GetByRecruiterAndDay(asRecruiter(recruiterID), recruiterID, time.Wednesday)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
