package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

type calendarUsecase struct {
	workingHoursRepo domain.WorkingHoursRepository
	interviewRepo    domain.InterviewRepository
	options
}

// NewCalendarUsecase creates the calendar view builder
func NewCalendarUsecase(
	whRepo domain.WorkingHoursRepository,
	ivRepo domain.InterviewRepository,
	opts ...Option,
) domain.CalendarUsecase {
	return &calendarUsecase{
		workingHoursRepo: whRepo,
		interviewRepo:    ivRepo,
		options:          newOptions(opts),
	}
}

// GetDailyCalendar returns one day with its window, bookings and free slots
func (uc *calendarUsecase) GetDailyCalendar(ctx context.Context, recruiterID string, date time.Time, slotMinutes int) (*domain.DailyCalendar, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	return uc.daily(ctx, recruiterID, uc.local(date), slotMinutes)
}

// GetWeeklyCalendar returns the Monday-to-Sunday week containing date
func (uc *calendarUsecase) GetWeeklyCalendar(ctx context.Context, recruiterID string, date time.Time) (*domain.WeeklyCalendar, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}

	monday := domain.StartOfWeek(uc.local(date))
	week := &domain.WeeklyCalendar{
		WeekStart:  monday,
		WeekEnd:    monday.AddDate(0, 0, 6),
		Days:       make([]domain.DailyCalendar, 0, 7),
		Interviews: make([]domain.Interview, 0),
	}
	for i := 0; i < 7; i++ {
		day, err := uc.daily(ctx, recruiterID, monday.AddDate(0, 0, i), domain.DefaultCalendarSlotMinutes)
		if err != nil {
			return nil, err
		}
		week.Days = append(week.Days, *day)
		week.Interviews = append(week.Interviews, day.Interviews...)
	}
	week.TotalInterviews = len(week.Interviews)
	return week, nil
}

// GetMonthlyCalendar buckets non-cancelled interviews per date of the month
func (uc *calendarUsecase) GetMonthlyCalendar(ctx context.Context, recruiterID string, year int, month time.Month) (*domain.MonthlyCalendar, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, apperror.Validation(apperror.ReasonInvalidDateRange, "Month must be between 1 and 12", nil)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, uc.loc)
	next := first.AddDate(0, 1, 0)

	pattern, err := uc.workingHoursRepo.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, internalErr(err)
	}
	working := make(map[time.Weekday]bool, len(pattern))
	for i := range pattern {
		working[pattern[i].DayOfWeek] = pattern[i].Works()
	}

	interviews, err := uc.interviewRepo.List(ctx, domain.InterviewFilter{
		RecruiterID:      recruiterID,
		ExcludeCancelled: true,
		From:             &first,
		To:               &next,
	})
	if err != nil {
		return nil, internalErr(err)
	}
	counts := make(map[int]int)
	for _, iv := range interviews {
		counts[uc.local(iv.ScheduledDate).Day()]++
	}

	view := &domain.MonthlyCalendar{
		Year:  year,
		Month: month,
		Days:  make([]domain.MonthlyCalendarDay, 0, 31),
	}
	for date := first; date.Before(next); date = date.AddDate(0, 0, 1) {
		day := domain.MonthlyCalendarDay{
			Date:           date,
			IsWorkingDay:   working[date.Weekday()],
			InterviewCount: counts[date.Day()],
		}
		if day.IsWorkingDay {
			view.WorkingDays++
		}
		view.TotalInterviews += day.InterviewCount
		view.Days = append(view.Days, day)
	}
	return view, nil
}

// GetCandidateCalendar lists a candidate's non-cancelled interviews in an inclusive date range
func (uc *calendarUsecase) GetCandidateCalendar(ctx context.Context, candidateID string, from, to time.Time) (*domain.CandidateCalendar, error) {
	if err := requireCandidate(ctx, candidateID); err != nil {
		return nil, err
	}
	start, end, err := dateRange(uc.local(from), uc.local(to), maxRangeDays)
	if err != nil {
		return nil, err
	}

	interviews, err := uc.interviewRepo.List(ctx, domain.InterviewFilter{
		CandidateID:      candidateID,
		ExcludeCancelled: true,
		From:             &start,
		To:               &end,
	})
	if err != nil {
		return nil, internalErr(err)
	}
	sortByStart(interviews)

	return &domain.CandidateCalendar{
		CandidateID: candidateID,
		From:        start,
		To:          end.AddDate(0, 0, -1),
		Interviews:  interviews,
	}, nil
}

// ExportRecruiterCalendar renders the recruiter's interviews in range as a spreadsheet
func (uc *calendarUsecase) ExportRecruiterCalendar(ctx context.Context, recruiterID string, from, to time.Time, format string) ([]byte, string, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, "", err
	}
	start, end, err := dateRange(uc.local(from), uc.local(to), 366)
	if err != nil {
		return nil, "", err
	}

	interviews, err := uc.interviewRepo.List(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		From:        &start,
		To:          &end,
	})
	if err != nil {
		return nil, "", internalErr(err)
	}
	sortByStart(interviews)

	base := fmt.Sprintf("interviews_%s_%s", start.Format("20060102"), end.AddDate(0, 0, -1).Format("20060102"))
	rows := uc.exportRows(interviews)

	switch format {
	case domain.ExportFormatXLSX, "":
		data, err := exportExcel(rows)
		return data, base + ".xlsx", err
	case domain.ExportFormatCSV:
		data, err := exportCSV(rows)
		return data, base + ".csv", err
	default:
		return nil, "", apperror.InvalidInput(apperror.ReasonInvalidRequest, fmt.Sprintf("unsupported export format: %s", format))
	}
}

func (uc *calendarUsecase) daily(ctx context.Context, recruiterID string, date time.Time, slotMinutes int) (*domain.DailyCalendar, error) {
	if slotMinutes <= 0 {
		slotMinutes = domain.DefaultCalendarSlotMinutes
	}

	day, err := loadRecruiterDay(ctx, uc.workingHoursRepo, uc.interviewRepo, recruiterID, date)
	if err != nil {
		return nil, internalErr(err)
	}

	interviews := day.onDate()
	slots := availableSlots(day, slotMinutes, uc.clock())
	view := &domain.DailyCalendar{
		Date:               day.date,
		DayOfWeek:          day.date.Weekday().String(),
		IsWorkingDay:       day.hours.Works(),
		Interviews:         interviews,
		AvailableSlots:     slots,
		TotalInterviews:    len(interviews),
		AvailableSlotCount: len(slots),
	}
	if day.hours != nil {
		view.WorkStartTime = day.hours.StartTime
		view.WorkEndTime = day.hours.EndTime
		view.LunchBreakStart = day.hours.LunchBreakStart
		view.LunchBreakEnd = day.hours.LunchBreakEnd
	}
	return view, nil
}

var exportColumns = []string{
	"ID", "DATE", "START", "END", "DURATION (MIN)", "TYPE", "ROUND", "STATUS",
	"JOB", "CANDIDATE ID", "LOCATION", "MEETING LINK", "INTERVIEWER", "CONFIRMED", "OUTCOME",
}

func (uc *calendarUsecase) exportRows(interviews []domain.Interview) [][]string {
	rows := make([][]string, 0, len(interviews))
	for _, iv := range interviews {
		start := uc.local(iv.ScheduledDate)
		outcome := ""
		if iv.Outcome != nil {
			outcome = string(*iv.Outcome)
		}
		rows = append(rows, []string{
			strconv.FormatInt(iv.ID, 10),
			start.Format("2006-01-02"),
			start.Format("15:04"),
			uc.local(iv.ExpectedEndTime()).Format("15:04"),
			strconv.Itoa(iv.DurationMinutes),
			string(iv.InterviewType),
			strconv.Itoa(iv.InterviewRound),
			string(iv.Status),
			deref(iv.JobTitle),
			iv.CandidateID,
			deref(iv.Location),
			deref(iv.MeetingLink),
			deref(iv.InterviewerName),
			strconv.FormatBool(iv.CandidateConfirmed),
			outcome,
		})
	}
	return rows
}

// exportExcel generates an Excel file from the export rows
func exportExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Interviews"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// exportCSV generates a CSV file from the export rows
func exportCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}

func sortByStart(interviews []domain.Interview) {
	sort.SliceStable(interviews, func(i, j int) bool {
		return interviews[i].ScheduledDate.Before(interviews[j].ScheduledDate)
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
