package postgres

import (
	"context"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type workingHoursRepo struct {
	db *pgxpool.Pool
}

// NewWorkingHoursRepository creates a new working hours repository
func NewWorkingHoursRepository(db *pgxpool.Pool) domain.WorkingHoursRepository {
	return &workingHoursRepo{db: db}
}

const workingHoursColumns = `
	id, recruiter_id, day_of_week, is_working_day,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	to_char(lunch_break_start, 'HH24:MI'), to_char(lunch_break_end, 'HH24:MI'),
	buffer_minutes, max_interviews_per_day, created_at, updated_at`

// Upsert inserts or replaces the row for (recruiter, day)
func (r *workingHoursRepo) Upsert(ctx context.Context, wh *domain.WorkingHours) error {
	query := `
		INSERT INTO recruiter_working_hours (
			recruiter_id, day_of_week, is_working_day, start_time, end_time,
			lunch_break_start, lunch_break_end, buffer_minutes, max_interviews_per_day,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4::time, $5::time, $6::time, $7::time, $8, $9, $10, $10)
		ON CONFLICT (recruiter_id, day_of_week) DO UPDATE SET
			is_working_day = EXCLUDED.is_working_day,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			lunch_break_start = EXCLUDED.lunch_break_start,
			lunch_break_end = EXCLUDED.lunch_break_end,
			buffer_minutes = EXCLUDED.buffer_minutes,
			max_interviews_per_day = EXCLUDED.max_interviews_per_day,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	return conn(ctx, r.db).QueryRow(ctx, query,
		wh.RecruiterID,
		int(wh.DayOfWeek),
		wh.IsWorkingDay,
		timeOfDayParam(wh.StartTime),
		timeOfDayParam(wh.EndTime),
		timeOfDayParam(wh.LunchBreakStart),
		timeOfDayParam(wh.LunchBreakEnd),
		wh.BufferMinutes,
		wh.MaxInterviewsPerDay,
		time.Now(),
	).Scan(&wh.ID, &wh.CreatedAt, &wh.UpdatedAt)
}

// GetByRecruiter returns every configured day, Monday first
func (r *workingHoursRepo) GetByRecruiter(ctx context.Context, recruiterID string) ([]domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + `
		FROM recruiter_working_hours
		WHERE recruiter_id = $1
		ORDER BY (day_of_week + 6) % 7`

	rows, err := conn(ctx, r.db).Query(ctx, query, recruiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.WorkingHours
	for rows.Next() {
		wh, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, *wh)
	}
	return days, rows.Err()
}

// GetByRecruiterAndDay returns domain.ErrNotFound when the day was never configured
func (r *workingHoursRepo) GetByRecruiterAndDay(ctx context.Context, recruiterID string, day time.Weekday) (*domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + `
		FROM recruiter_working_hours
		WHERE recruiter_id = $1 AND day_of_week = $2`

	wh, err := scanWorkingHours(conn(ctx, r.db).QueryRow(ctx, query, recruiterID, int(day)))
	if err != nil {
		return nil, notFound(err)
	}
	return wh, nil
}

func scanWorkingHours(row pgx.Row) (*domain.WorkingHours, error) {
	var (
		wh                               domain.WorkingHours
		day                              int
		start, end, lunchStart, lunchEnd *string
	)
	if err := row.Scan(
		&wh.ID, &wh.RecruiterID, &day, &wh.IsWorkingDay,
		&start, &end, &lunchStart, &lunchEnd,
		&wh.BufferMinutes, &wh.MaxInterviewsPerDay, &wh.CreatedAt, &wh.UpdatedAt,
	); err != nil {
		return nil, err
	}
	wh.DayOfWeek = time.Weekday(day)

	var err error
	if wh.StartTime, err = parseTimeOfDay(start); err != nil {
		return nil, err
	}
	if wh.EndTime, err = parseTimeOfDay(end); err != nil {
		return nil, err
	}
	if wh.LunchBreakStart, err = parseTimeOfDay(lunchStart); err != nil {
		return nil, err
	}
	if wh.LunchBreakEnd, err = parseTimeOfDay(lunchEnd); err != nil {
		return nil, err
	}
	return &wh, nil
}

func timeOfDayParam(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func parseTimeOfDay(s *string) (*domain.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
