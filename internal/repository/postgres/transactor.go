package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// Constraint names from scripts/migrations/001_interview_scheduling.sql
const (
	constraintActiveInterview = "interviews_active_application_uniq"
	constraintNoOverlap       = "interviews_recruiter_no_overlap"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// conn returns the transaction bound to ctx by WithinRecruiterLock, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

type transactor struct {
	db *pgxpool.Pool
}

// NewTransactor creates the advisory-lock backed transactor
func NewTransactor(db *pgxpool.Pool) domain.Transactor {
	return &transactor{db: db}
}

// WithinRecruiterLock runs fn in one transaction that holds a transaction-scoped
// advisory lock keyed by the recruiter. The lock is released on commit or rollback.
func (t *transactor) WithinRecruiterLock(ctx context.Context, recruiterID string, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(pgx.Tx); nested {
		return fn(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Serialize every booking write for this recruiter
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "recruiter:"+recruiterID); err != nil {
		return fmt.Errorf("acquire recruiter lock: %w", err)
	}

	// 2. Run the caller's checks and writes on the same transaction
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	// 3. Commit; deferred constraints surface here
	if err := tx.Commit(ctx); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// mapWriteError turns constraint violations on interviews into domain conflicts.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintActiveInterview:
		return apperror.Conflict(apperror.ReasonInterviewAlreadyScheduled, "An interview is already scheduled for this application")
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == constraintNoOverlap:
		return apperror.Conflict(apperror.ReasonSchedulingConflict, "The recruiter already has an interview at this time")
	case pgErr.Code == pgUniqueViolation:
		return apperror.Conflict(apperror.ReasonInterviewAlreadyScheduled, "Record already exists")
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
