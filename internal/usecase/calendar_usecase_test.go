package usecase_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newCalendarEnv(t *testing.T) (*testEnv, domain.CalendarUsecase) {
	env := newTestEnv(t)
	env.standardWeek(recruiterID)
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: candidateID, ScheduledDate: at(monday, 14, 0), DurationMinutes: 60, JobTitle: strPtr("Backend Engineer")})
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: "candidate-2", ScheduledDate: at(monday, 10, 0), DurationMinutes: 60})
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: candidateID, ScheduledDate: at(monday, 16, 0), DurationMinutes: 30, Status: domain.InterviewStatusCancelled})
	env.iv.seed(domain.Interview{RecruiterID: recruiterID, CandidateID: candidateID, ScheduledDate: at(monday.AddDate(0, 0, 14), 9, 0), DurationMinutes: 45})
	return env, usecase.NewCalendarUsecase(env.wh, env.iv, env.options(t)...)
}

func TestGetDailyCalendar(t *testing.T) {
	_, uc := newCalendarEnv(t)

	day, err := uc.GetDailyCalendar(asRecruiter(recruiterID), recruiterID, monday, 0)
	require.NoError(t, err)

	assert.True(t, day.IsWorkingDay)
	assert.Equal(t, "Monday", day.DayOfWeek)
	assert.Equal(t, domain.NewTimeOfDay(9, 0), *day.WorkStartTime)
	assert.Equal(t, domain.NewTimeOfDay(12, 0), *day.LunchBreakStart)
	assert.Equal(t, 2, day.TotalInterviews)
	require.Len(t, day.Interviews, 2)
	assert.Equal(t, at(monday, 10, 0), day.Interviews[0].ScheduledDate)

	assert.Equal(t, len(day.AvailableSlots), day.AvailableSlotCount)
	assert.NotContains(t, day.AvailableSlots, domain.NewTimeOfDay(9, 0))
	assert.NotContains(t, day.AvailableSlots, domain.NewTimeOfDay(13, 0))
	assert.Contains(t, day.AvailableSlots, domain.NewTimeOfDay(15, 15))
	assert.Contains(t, day.AvailableSlots, domain.NewTimeOfDay(16, 0))

	_, err = uc.GetDailyCalendar(asRecruiter(otherRecruiterID), recruiterID, monday, 0)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestGetWeeklyCalendar(t *testing.T) {
	_, uc := newCalendarEnv(t)

	week, err := uc.GetWeeklyCalendar(asRecruiter(recruiterID), recruiterID, monday.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, monday, week.WeekStart)
	assert.Equal(t, monday.AddDate(0, 0, 6), week.WeekEnd)
	require.Len(t, week.Days, 7)
	assert.True(t, week.Days[4].IsWorkingDay)
	assert.False(t, week.Days[5].IsWorkingDay)
	assert.Empty(t, week.Days[6].AvailableSlots)
	assert.Equal(t, 2, week.TotalInterviews)
	assert.Len(t, week.Interviews, 2)
}

func TestGetMonthlyCalendar(t *testing.T) {
	_, uc := newCalendarEnv(t)

	month, err := uc.GetMonthlyCalendar(asRecruiter(recruiterID), recruiterID, 2026, time.October)
	require.NoError(t, err)

	require.Len(t, month.Days, 31)
	assert.Equal(t, 22, month.WorkingDays)
	assert.Equal(t, 2, month.TotalInterviews)
	assert.Equal(t, 2, month.Days[18].InterviewCount)
	assert.True(t, month.Days[18].IsWorkingDay)
	assert.False(t, month.Days[2].IsWorkingDay) // Saturday 3 Oct

	november, err := uc.GetMonthlyCalendar(asRecruiter(recruiterID), recruiterID, 2026, time.November)
	require.NoError(t, err)
	assert.Len(t, november.Days, 30)
	assert.Equal(t, 1, november.TotalInterviews)

	_, err = uc.GetMonthlyCalendar(asRecruiter(recruiterID), recruiterID, 2026, 13)
	assert.Equal(t, apperror.ReasonInvalidDateRange, apperror.ReasonOf(err))
}

func TestGetCandidateCalendar_SpansTheWholeRange(t *testing.T) {
	_, uc := newCalendarEnv(t)

	view, err := uc.GetCandidateCalendar(asCandidate(candidateID), candidateID, monday.AddDate(0, 0, -3), monday.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, view.Interviews, 2)
	assert.Equal(t, at(monday, 14, 0), view.Interviews[0].ScheduledDate)
	assert.Equal(t, at(monday.AddDate(0, 0, 14), 9, 0), view.Interviews[1].ScheduledDate)

	view, err = uc.GetCandidateCalendar(asCandidate(candidateID), candidateID, monday, monday)
	require.NoError(t, err)
	assert.Len(t, view.Interviews, 1)

	_, err = uc.GetCandidateCalendar(asCandidate("candidate-2"), candidateID, monday, monday)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestExportRecruiterCalendar(t *testing.T) {
	_, uc := newCalendarEnv(t)
	ctx := asRecruiter(recruiterID)
	sunday := monday.AddDate(0, 0, 6)

	t.Run("xlsx", func(t *testing.T) {
		data, filename, err := uc.ExportRecruiterCalendar(ctx, recruiterID, monday, sunday, domain.ExportFormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, "interviews_20261019_20261025.xlsx", filename)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Interviews")
		require.NoError(t, err)
		require.Len(t, rows, 4) // header + 3, cancelled included
		assert.Equal(t, "ID", rows[0][0])
		assert.Equal(t, "10:00", rows[1][2])
	})

	t.Run("csv", func(t *testing.T) {
		data, filename, err := uc.ExportRecruiterCalendar(ctx, recruiterID, monday, sunday, domain.ExportFormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "interviews_20261019_20261025.csv", filename)

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "Backend Engineer", records[2][8])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := uc.ExportRecruiterCalendar(ctx, recruiterID, monday, sunday, "pdf")
		assert.Equal(t, apperror.ReasonInvalidRequest, apperror.ReasonOf(err))
	})
}
