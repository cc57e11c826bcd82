package usecase

import (
	"context"
	"errors"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
)

// slotStepMinutes is the grid candidate start times are generated on
const slotStepMinutes = 15

// preferredSlots are the mid-morning and mid-afternoon anchors offered first
var preferredSlots = []domain.TimeOfDay{
	domain.NewTimeOfDay(10, 0),
	domain.NewTimeOfDay(11, 0),
	domain.NewTimeOfDay(14, 0),
	domain.NewTimeOfDay(15, 0),
}

const fallbackSuggestions = 3

type slotFinder struct {
	workingHoursRepo domain.WorkingHoursRepository
	interviewRepo    domain.InterviewRepository
	userRepo         domain.UserRepository
	options
}

// NewSlotFinder creates the free-slot search usecase
func NewSlotFinder(
	whRepo domain.WorkingHoursRepository,
	ivRepo domain.InterviewRepository,
	userRepo domain.UserRepository,
	opts ...Option,
) domain.SlotFinder {
	return &slotFinder{
		workingHoursRepo: whRepo,
		interviewRepo:    ivRepo,
		userRepo:         userRepo,
		options:          newOptions(opts),
	}
}

// GetAvailableSlots lists the legal free start times of one date in chronological order
func (s *slotFinder) GetAvailableSlots(ctx context.Context, recruiterID string, date time.Time, durationMinutes int) ([]domain.TimeOfDay, error) {
	if err := s.validate(ctx, recruiterID, durationMinutes); err != nil {
		return nil, err
	}
	day, err := loadRecruiterDay(ctx, s.workingHoursRepo, s.interviewRepo, recruiterID, s.local(date))
	if err != nil {
		return nil, internalErr(err)
	}
	return availableSlots(day, durationMinutes, s.clock()), nil
}

// GetAvailableDates returns every date of the inclusive range with at least one free slot
func (s *slotFinder) GetAvailableDates(ctx context.Context, recruiterID string, startDate, endDate time.Time, durationMinutes int) ([]time.Time, error) {
	if err := s.validate(ctx, recruiterID, durationMinutes); err != nil {
		return nil, err
	}
	from, to, err := dateRange(s.local(startDate), s.local(endDate), maxRangeDays)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	dates := make([]time.Time, 0)
	for date := from; date.Before(to); date = date.AddDate(0, 0, 1) {
		// Days that are already over cannot have slots
		if date.AddDate(0, 0, 1).Before(now) {
			continue
		}
		day, err := loadRecruiterDay(ctx, s.workingHoursRepo, s.interviewRepo, recruiterID, date)
		if err != nil {
			return nil, internalErr(err)
		}
		if len(availableSlots(day, durationMinutes, now)) > 0 {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

// SuggestOptimalTimes prefers the anchor times and falls back to the earliest free slots
func (s *slotFinder) SuggestOptimalTimes(ctx context.Context, recruiterID string, date time.Time, durationMinutes int) ([]domain.TimeOfDay, error) {
	slots, err := s.GetAvailableSlots(ctx, recruiterID, date, durationMinutes)
	if err != nil {
		return nil, err
	}
	return suggest(slots), nil
}

func (s *slotFinder) validate(ctx context.Context, recruiterID string, durationMinutes int) error {
	if _, err := currentIdentity(ctx); err != nil {
		return err
	}
	if err := validateDuration(durationMinutes); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, recruiterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Recruiter not found")
		}
		return internalErr(err)
	}
	return nil
}

// availableSlots walks the 15-minute grid of the working window and keeps the
// start times that fit the window, avoid lunch, keep the buffer to every booking
// and lie in the future.
func availableSlots(day *recruiterDay, durationMinutes int, now time.Time) []domain.TimeOfDay {
	slots := make([]domain.TimeOfDay, 0)
	if !day.hours.Works() || day.capReached(0) {
		return slots
	}

	duration := time.Duration(durationMinutes) * time.Minute
	_, closeAt := day.hours.Window(day.date)
	for slot := *day.hours.StartTime; slot < *day.hours.EndTime; slot = slot.Add(slotStepMinutes) {
		start := slot.On(day.date)
		end := start.Add(duration)
		if end.After(closeAt) {
			continue
		}
		if day.hours.IntersectsLunch(start, end) {
			continue
		}
		if len(day.blocking(start, end, 0)) > 0 {
			continue
		}
		if !start.After(now) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func suggest(slots []domain.TimeOfDay) []domain.TimeOfDay {
	free := make(map[domain.TimeOfDay]bool, len(slots))
	for _, slot := range slots {
		free[slot] = true
	}

	suggestions := make([]domain.TimeOfDay, 0, len(preferredSlots))
	for _, anchor := range preferredSlots {
		if free[anchor] {
			suggestions = append(suggestions, anchor)
		}
	}
	if len(suggestions) > 0 {
		return suggestions
	}

	if len(slots) > fallbackSuggestions {
		return slots[:fallbackSuggestions]
	}
	return slots
}
