package postgres

import (
	"errors"
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestInterviewWhere(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		where, args := interviewWhere(domain.InterviewFilter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("placeholders follow argument order", func(t *testing.T) {
		from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)
		where, args := interviewWhere(domain.InterviewFilter{
			RecruiterID:      "recruiter-1",
			Statuses:         []domain.InterviewStatus{domain.InterviewStatusScheduled, domain.InterviewStatusConfirmed},
			ExcludeCancelled: true,
			From:             &from,
			To:               &to,
			EndsAfter:        &from,
			Unconfirmed:      true,
		})

		assert.Equal(t, " WHERE i.recruiter_id = $1"+
			" AND i.status = ANY($2::text[])"+
			" AND i.status <> $3"+
			" AND i.scheduled_date >= $4"+
			" AND i.scheduled_date < $5"+
			" AND i.scheduled_date + make_interval(mins => i.duration_minutes) > $6"+
			" AND NOT i.candidate_confirmed", where)
		assert.Len(t, args, 6)
		assert.Equal(t, "recruiter-1", args[0])
		assert.Equal(t, "CANCELLED", args[2])
		assert.Equal(t, to, args[4])
	})

	t.Run("candidate only", func(t *testing.T) {
		where, args := interviewWhere(domain.InterviewFilter{CandidateID: "candidate-1"})
		assert.Equal(t, " WHERE i.candidate_id = $1", where)
		assert.Equal(t, []any{"candidate-1"}, args)
	})
}

func TestReminderColumn(t *testing.T) {
	col, err := reminderColumn(domain.Reminder24h)
	assert.NoError(t, err)
	assert.Equal(t, "reminder_sent_24h", col)

	col, err = reminderColumn(domain.Reminder2h)
	assert.NoError(t, err)
	assert.Equal(t, "reminder_sent_2h", col)

	_, err = reminderColumn("1h")
	assert.Error(t, err)
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{
			name:   "active interview per application",
			err:    &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintActiveInterview},
			reason: apperror.ReasonInterviewAlreadyScheduled,
		},
		{
			name:   "recruiter overlap",
			err:    &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: constraintNoOverlap},
			reason: apperror.ReasonSchedulingConflict,
		},
		{
			name:   "other constraint passes through",
			err:    &pgconn.PgError{Code: "23503"},
			reason: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, apperror.ReasonOf(mapWriteError(tt.err)))
		})
	}

	plain := errors.New("boom")
	assert.Same(t, plain, mapWriteError(plain))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), domain.ErrNotFound)
	other := errors.New("boom")
	assert.Equal(t, other, notFound(other))
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	assert.Nil(t, timeOfDayParam(nil))
	parsed, err := parseTimeOfDay(nil)
	assert.NoError(t, err)
	assert.Nil(t, parsed)

	nine := domain.NewTimeOfDay(9, 30)
	s := timeOfDayParam(&nine)
	assert.Equal(t, "09:30", *s)
	parsed, err = parseTimeOfDay(s)
	assert.NoError(t, err)
	assert.Equal(t, nine, *parsed)
}
