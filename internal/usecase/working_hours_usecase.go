package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type workingHoursUsecase struct {
	workingHoursRepo domain.WorkingHoursRepository
	validate         *validator.Validate
	options
}

// NewWorkingHoursUsecase creates the availability configuration usecase
func NewWorkingHoursUsecase(
	whRepo domain.WorkingHoursRepository,
	validate *validator.Validate,
	opts ...Option,
) domain.WorkingHoursUsecase {
	return &workingHoursUsecase{
		workingHoursRepo: whRepo,
		validate:         validate,
		options:          newOptions(opts),
	}
}

// SetWorkingHours validates and upserts one day of the weekly pattern
func (uc *workingHoursUsecase) SetWorkingHours(ctx context.Context, recruiterID string, req domain.WorkingHoursRequest) (*domain.WorkingHours, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	return uc.save(ctx, recruiterID, req)
}

// GetWorkingHours returns the configured days ordered Monday to Sunday
func (uc *workingHoursUsecase) GetWorkingHours(ctx context.Context, recruiterID string) ([]domain.WorkingHours, error) {
	if _, err := currentIdentity(ctx); err != nil {
		return nil, err
	}
	days, err := uc.workingHoursRepo.GetByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, internalErr(err)
	}
	sortMondayFirst(days)
	return days, nil
}

// SetWorkingHoursBatch saves each day independently and collects per-day failures
func (uc *workingHoursUsecase) SetWorkingHoursBatch(ctx context.Context, recruiterID string, req domain.BatchWorkingHoursRequest) (*domain.BatchWorkingHoursResult, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}

	result := &domain.BatchWorkingHoursResult{
		Saved:    make([]domain.WorkingHours, 0, len(req.Days)),
		Failures: make([]domain.WorkingHoursFailure, 0),
	}
	specified := make(map[time.Weekday]bool)

	for _, dayReq := range req.Days {
		if dayReq.DayOfWeek != nil {
			specified[*dayReq.DayOfWeek] = true
		}
		saved, err := uc.save(ctx, recruiterID, dayReq)
		if err != nil {
			result.Failures = append(result.Failures, domain.WorkingHoursFailure{
				DayOfWeek: dayReq.DayOfWeek,
				Errors:    failureMessages(err),
			})
			continue
		}
		result.Saved = append(result.Saved, *saved)
	}

	if req.ReplaceAll {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if specified[d] {
				continue
			}
			saved, err := uc.markNonWorking(ctx, recruiterID, d)
			if err != nil {
				day := d
				result.Failures = append(result.Failures, domain.WorkingHoursFailure{
					DayOfWeek: &day,
					Errors:    failureMessages(err),
				})
				continue
			}
			result.Saved = append(result.Saved, *saved)
		}
	}

	sortMondayFirst(result.Saved)
	uc.log.Info("working hours batch applied",
		zap.String("recruiter_id", recruiterID),
		zap.Int("saved", len(result.Saved)),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func (uc *workingHoursUsecase) save(ctx context.Context, recruiterID string, req domain.WorkingHoursRequest) (*domain.WorkingHours, error) {
	if violations := uc.violations(req); len(violations) > 0 {
		return nil, apperror.Validation(apperror.ReasonInvalidWorkingHours, "Invalid working hours", violations)
	}

	wh := &domain.WorkingHours{
		RecruiterID:         recruiterID,
		DayOfWeek:           *req.DayOfWeek,
		IsWorkingDay:        req.IsWorkingDay,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		LunchBreakStart:     req.LunchBreakStart,
		LunchBreakEnd:       req.LunchBreakEnd,
		BufferMinutes:       domain.DefaultBufferMinutes,
		MaxInterviewsPerDay: domain.DefaultMaxInterviewsPerDay,
	}
	if req.BufferMinutes != nil {
		wh.BufferMinutes = *req.BufferMinutes
	}
	if req.MaxInterviewsPerDay != nil {
		wh.MaxInterviewsPerDay = *req.MaxInterviewsPerDay
	}

	if err := uc.workingHoursRepo.Upsert(ctx, wh); err != nil {
		return nil, internalErr(err)
	}
	return wh, nil
}

// markNonWorking keeps an existing configuration but switches the day off.
func (uc *workingHoursUsecase) markNonWorking(ctx context.Context, recruiterID string, day time.Weekday) (*domain.WorkingHours, error) {
	wh, err := uc.workingHoursRepo.GetByRecruiterAndDay(ctx, recruiterID, day)
	if errors.Is(err, domain.ErrNotFound) {
		wh = &domain.WorkingHours{
			RecruiterID:         recruiterID,
			DayOfWeek:           day,
			BufferMinutes:       domain.DefaultBufferMinutes,
			MaxInterviewsPerDay: domain.DefaultMaxInterviewsPerDay,
		}
	} else if err != nil {
		return nil, internalErr(err)
	}

	wh.IsWorkingDay = false
	if err := uc.workingHoursRepo.Upsert(ctx, wh); err != nil {
		return nil, internalErr(err)
	}
	return wh, nil
}

// violations lists every broken rule of req, struct tags first, then the cross-field rules.
func (uc *workingHoursUsecase) violations(req domain.WorkingHoursRequest) []string {
	var out []string
	if err := uc.validate.Struct(req); err != nil {
		out = append(out, validation.FormatValidationErrors(err)...)
	}
	if req.DayOfWeek == nil {
		return out
	}

	if req.IsWorkingDay {
		if req.StartTime == nil {
			out = append(out, "Start time: is required on a working day")
		}
		if req.EndTime == nil {
			out = append(out, "End time: is required on a working day")
		}
	}
	hasWindow := req.StartTime != nil && req.EndTime != nil
	if hasWindow && *req.EndTime <= *req.StartTime {
		out = append(out, "End time: must be later than start time")
	}

	switch {
	case (req.LunchBreakStart == nil) != (req.LunchBreakEnd == nil):
		out = append(out, "Lunch break: both start and end are required")
	case req.LunchBreakStart != nil:
		if *req.LunchBreakEnd <= *req.LunchBreakStart {
			out = append(out, "Lunch break end: must be later than lunch break start")
		}
		if hasWindow && (*req.LunchBreakStart < *req.StartTime || *req.LunchBreakEnd > *req.EndTime) {
			out = append(out, "Lunch break: must lie within working hours")
		}
	}
	return out
}

func failureMessages(err error) []string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if violations, ok := appErr.Details.([]string); ok && len(violations) > 0 {
			return violations
		}
		return []string{appErr.Message}
	}
	return []string{err.Error()}
}

// sortMondayFirst orders days Monday..Sunday.
func sortMondayFirst(days []domain.WorkingHours) {
	sort.Slice(days, func(i, j int) bool {
		return mondayIndex(days[i].DayOfWeek) < mondayIndex(days[j].DayOfWeek)
	})
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
