package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const completedEarlyPrefix = "[Completed early] "

type interviewUsecase struct {
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	userRepo        domain.UserRepository
	detector        domain.ConflictDetector
	tx              domain.Transactor
	notifier        domain.Notifier
	validate        *validator.Validate
	options
}

// NewInterviewUsecase creates the interview lifecycle usecase
func NewInterviewUsecase(
	ivRepo domain.InterviewRepository,
	appRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	detector domain.ConflictDetector,
	tx domain.Transactor,
	notifier domain.Notifier,
	validate *validator.Validate,
	opts ...Option,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo:   ivRepo,
		applicationRepo: appRepo,
		userRepo:        userRepo,
		detector:        detector,
		tx:              tx,
		notifier:        notifier,
		validate:        validate,
		options:         newOptions(opts),
	}
}

// ScheduleInterview books the interview of a job application after a full conflict check
func (uc *interviewUsecase) ScheduleInterview(ctx context.Context, jobApplicationID int64, req domain.ScheduleInterviewRequest) (*domain.Interview, error) {
	// 1. Validate request
	if err := validateDuration(req.DurationMinutes); err != nil {
		return nil, err
	}
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation(apperror.ReasonInvalidRequest, "Invalid interview request", validation.FormatValidationErrors(err))
	}

	// 2. Resolve the application and its owner
	app, err := uc.applicationRepo.GetByID(ctx, jobApplicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFoundReason(apperror.ReasonJobApplicationNotFound, "Job application not found")
		}
		return nil, internalErr(err)
	}
	if app.RecruiterUserID == "" {
		return nil, apperror.State(apperror.ReasonJobApplicationNotFound, "Job application has no recruiter to schedule with")
	}
	if err := requireRecruiter(ctx, app.RecruiterUserID); err != nil {
		return nil, err
	}

	// 3. One live interview per application
	if _, err := uc.interviewRepo.GetActiveByJobApplicationID(ctx, jobApplicationID); err == nil {
		return nil, apperror.Conflict(apperror.ReasonInterviewAlreadyScheduled, "An interview is already scheduled for this application")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, internalErr(err)
	}

	// 4. Must be strictly in the future
	scheduled := uc.local(req.ScheduledDate)
	if !scheduled.After(uc.clock()) {
		return nil, apperror.InvalidInput(apperror.ReasonInvalidScheduleDate, "Interview must be scheduled in the future")
	}

	round := req.InterviewRound
	if round == 0 {
		round = 1
	}
	iv := &domain.Interview{
		JobApplicationID: jobApplicationID,
		RecruiterID:      app.RecruiterUserID,
		CandidateID:      app.CandidateUserID,
		InterviewRound:   round,
		ScheduledDate:    scheduled,
		DurationMinutes:  req.DurationMinutes,
		InterviewType:    req.InterviewType,
		Location:         req.Location,
		MeetingLink:      req.MeetingLink,
		InterviewerName:  req.InterviewerName,
		InterviewerEmail: req.InterviewerEmail,
		InterviewerPhone: req.InterviewerPhone,
		PreparationNotes: req.PreparationNotes,
		Status:           domain.InterviewStatusScheduled,
		JobTitle:         app.JobTitle,
	}

	// 5. Check, insert and move the application under the recruiter lock
	err = uc.tx.WithinRecruiterLock(ctx, app.RecruiterUserID, func(ctx context.Context) error {
		if err := uc.ensureNoConflict(ctx, iv, 0); err != nil {
			return err
		}
		if err := uc.interviewRepo.Create(ctx, iv); err != nil {
			return err
		}
		return uc.applicationRepo.UpdateStatus(ctx, jobApplicationID, domain.ApplicationStatusInterviewScheduled)
	})
	if err != nil {
		return nil, internalErr(err)
	}

	uc.log.Info("interview scheduled",
		zap.Int64("interview_id", iv.ID),
		zap.Int64("job_application_id", jobApplicationID),
		zap.String("recruiter_id", iv.RecruiterID),
		zap.Time("scheduled_date", iv.ScheduledDate),
	)
	uc.notify(ctx, iv, iv.CandidateID, domain.NotificationInterviewScheduled, domain.PriorityHigh,
		"Interview scheduled",
		fmt.Sprintf("Your interview has been scheduled for %s.", uc.formatWhen(iv)))
	return iv, nil
}

// ConfirmInterview records the candidate's confirmation
func (uc *interviewUsecase) ConfirmInterview(ctx context.Context, id int64) (*domain.Interview, error) {
	iv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireCandidate(ctx, iv.CandidateID); err != nil {
		return nil, err
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}
	if iv.CandidateConfirmed || iv.Status == domain.InterviewStatusConfirmed {
		return nil, apperror.Conflict(apperror.ReasonInterviewAlreadyConfirmed, "Interview is already confirmed")
	}

	now := uc.clock()
	iv.CandidateConfirmed = true
	iv.CandidateConfirmedAt = &now
	iv.Status = domain.InterviewStatusConfirmed
	if err := uc.interviewRepo.Update(ctx, iv); err != nil {
		return nil, internalErr(err)
	}

	uc.notify(ctx, iv, iv.RecruiterID, domain.NotificationInterviewConfirmed, domain.PriorityNormal,
		"Interview confirmed",
		fmt.Sprintf("The candidate confirmed the interview on %s.", uc.formatWhen(iv)))
	return iv, nil
}

// CompleteInterview closes an interview whose expected end has passed
func (uc *interviewUsecase) CompleteInterview(ctx context.Context, id int64, notes string, outcome domain.InterviewOutcome) (*domain.Interview, error) {
	return uc.complete(ctx, id, notes, outcome, false)
}

// CompleteEarly closes an interview that ran at least half its booked duration
func (uc *interviewUsecase) CompleteEarly(ctx context.Context, id int64, notes string, outcome domain.InterviewOutcome) (*domain.Interview, error) {
	return uc.complete(ctx, id, notes, outcome, true)
}

func (uc *interviewUsecase) complete(ctx context.Context, id int64, notes string, outcome domain.InterviewOutcome, early bool) (*domain.Interview, error) {
	if !outcome.IsValid() {
		return nil, apperror.Validation(apperror.ReasonInvalidRequest, fmt.Sprintf("Unsupported outcome %q", outcome), nil)
	}
	iv, err := uc.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}

	now := uc.clock()
	if early {
		minimum := time.Duration(iv.DurationMinutes) * time.Minute / 2
		if now.Sub(iv.ScheduledDate) < minimum {
			return nil, apperror.State(apperror.ReasonInterviewTooShort,
				fmt.Sprintf("At least %s must elapse before completing early", minimum))
		}
		notes = completedEarlyPrefix + notes
	} else if now.Before(iv.ExpectedEndTime()) {
		return nil, apperror.State(apperror.ReasonInterviewNotYetCompleted, "Interview has not ended yet")
	}

	iv.Status = domain.InterviewStatusCompleted
	iv.InterviewerNotes = &notes
	iv.Outcome = &outcome
	iv.InterviewCompletedAt = &now

	if err := uc.saveWithApplication(ctx, iv, domain.ApplicationStatusInterviewed); err != nil {
		return nil, err
	}

	uc.log.Info("interview completed",
		zap.Int64("interview_id", iv.ID),
		zap.String("outcome", string(outcome)),
		zap.Bool("early", early),
	)
	uc.notify(ctx, iv, iv.CandidateID, domain.NotificationInterviewCompleted, domain.PriorityNormal,
		"Interview completed",
		"Thank you for attending the interview. The recruiter will follow up with the next steps.")
	return iv, nil
}

// MarkNoShow records that the candidate did not attend
func (uc *interviewUsecase) MarkNoShow(ctx context.Context, id int64, notes string) (*domain.Interview, error) {
	iv, err := uc.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}
	if uc.clock().Before(iv.ScheduledDate) {
		return nil, apperror.State(apperror.ReasonCannotMarkNoShowBeforeTime, "Cannot mark no-show before the interview time")
	}

	iv.Status = domain.InterviewStatusNoShow
	if notes != "" {
		iv.InterviewerNotes = &notes
	}

	if err := uc.saveWithApplication(ctx, iv, domain.ApplicationStatusRejected); err != nil {
		return nil, err
	}
	uc.log.Info("interview marked no-show", zap.Int64("interview_id", iv.ID))
	return iv, nil
}

// CancelInterview cancels any interview that has not been completed
func (uc *interviewUsecase) CancelInterview(ctx context.Context, id int64, reason string) (*domain.Interview, error) {
	iv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, err := requireParticipant(ctx, iv)
	if err != nil {
		return nil, err
	}
	if iv.Status == domain.InterviewStatusCompleted {
		return nil, apperror.State(apperror.ReasonCannotCancelCompletedInterview, "Cannot cancel a completed interview")
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}

	notes := "[Cancelled] " + reason
	if iv.InterviewerNotes != nil && *iv.InterviewerNotes != "" {
		notes = *iv.InterviewerNotes + "\n" + notes
	}
	iv.Status = domain.InterviewStatusCancelled
	iv.InterviewerNotes = &notes

	if err := uc.interviewRepo.Update(ctx, iv); err != nil {
		return nil, internalErr(err)
	}

	uc.log.Info("interview cancelled", zap.Int64("interview_id", iv.ID), zap.String("by", actor.UserID))
	message := fmt.Sprintf("The interview on %s has been cancelled.", uc.formatWhen(iv))
	if reason != "" {
		message += " Reason: " + reason
	}
	for _, recipient := range []string{iv.CandidateID, iv.RecruiterID} {
		if recipient == actor.UserID {
			continue
		}
		uc.notify(ctx, iv, recipient, domain.NotificationInterviewCancelled, domain.PriorityHigh, "Interview cancelled", message)
	}
	return iv, nil
}

// AdjustDuration changes the booked length without touching the status.
// A longer interview is re-checked against working hours, lunch and the buffers.
func (uc *interviewUsecase) AdjustDuration(ctx context.Context, id int64, durationMinutes int) (*domain.Interview, error) {
	if err := validateDuration(durationMinutes); err != nil {
		return nil, err
	}
	iv, err := uc.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}

	grows := durationMinutes > iv.DurationMinutes
	iv.DurationMinutes = durationMinutes
	err = uc.tx.WithinRecruiterLock(ctx, iv.RecruiterID, func(ctx context.Context) error {
		if grows {
			if err := uc.ensureNoConflict(ctx, iv, iv.ID); err != nil {
				return err
			}
		}
		return uc.interviewRepo.Update(ctx, iv)
	})
	if err != nil {
		return nil, internalErr(err)
	}
	return iv, nil
}

// UpdateInterview applies the non-nil fields; a new date goes through the full conflict check
func (uc *interviewUsecase) UpdateInterview(ctx context.Context, id int64, req domain.UpdateInterviewRequest) (*domain.Interview, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation(apperror.ReasonInvalidRequest, "Invalid interview update", validation.FormatValidationErrors(err))
	}
	iv, err := uc.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status.IsTerminal() {
		return nil, cannotModify(iv)
	}

	rescheduled := req.ScheduledDate != nil && !req.ScheduledDate.Equal(iv.ScheduledDate)
	if rescheduled && !req.ScheduledDate.After(uc.clock()) {
		return nil, apperror.InvalidInput(apperror.ReasonInvalidScheduleDate, "Interview must be scheduled in the future")
	}

	applyUpdate(iv, req)
	if rescheduled {
		iv.ScheduledDate = uc.local(*req.ScheduledDate)
		iv.Status = domain.InterviewStatusScheduled
		iv.CandidateConfirmed = false
		iv.CandidateConfirmedAt = nil
		iv.ReminderSent24h = false
		iv.ReminderSent2h = false
	}

	err = uc.tx.WithinRecruiterLock(ctx, iv.RecruiterID, func(ctx context.Context) error {
		if rescheduled {
			if err := uc.ensureNoConflict(ctx, iv, iv.ID); err != nil {
				return err
			}
		}
		return uc.interviewRepo.Update(ctx, iv)
	})
	if err != nil {
		return nil, internalErr(err)
	}

	if rescheduled {
		uc.log.Info("interview rescheduled", zap.Int64("interview_id", iv.ID), zap.Time("scheduled_date", iv.ScheduledDate))
		uc.notify(ctx, iv, iv.CandidateID, domain.NotificationInterviewRescheduled, domain.PriorityHigh,
			"Interview rescheduled",
			fmt.Sprintf("Your interview has been moved to %s. Please confirm the new time.", uc.formatWhen(iv)))
	}
	return iv, nil
}

// GetInterviewByID returns an interview visible to the caller
func (uc *interviewUsecase) GetInterviewByID(ctx context.Context, id int64) (*domain.Interview, error) {
	iv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// GetInterviewByJobApplication returns the live interview of an application
func (uc *interviewUsecase) GetInterviewByJobApplication(ctx context.Context, jobApplicationID int64) (*domain.Interview, error) {
	iv, err := uc.interviewRepo.GetActiveByJobApplicationID(ctx, jobApplicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFoundReason(apperror.ReasonInterviewNotFound, "No interview scheduled for this application")
		}
		return nil, internalErr(err)
	}
	if _, err := requireParticipant(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// GetRecruiterUpcomingInterviews lists active interviews from now on
func (uc *interviewUsecase) GetRecruiterUpcomingInterviews(ctx context.Context, recruiterID string) ([]domain.Interview, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	now := uc.clock()
	return uc.list(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		Statuses:    domain.ActiveInterviewStatuses,
		From:        &now,
	})
}

// GetRecruiterScheduledInterviews lists scheduled and confirmed interviews, past-due ones included
func (uc *interviewUsecase) GetRecruiterScheduledInterviews(ctx context.Context, recruiterID string) ([]domain.Interview, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	return uc.list(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		Statuses:    []domain.InterviewStatus{domain.InterviewStatusScheduled, domain.InterviewStatusConfirmed},
	})
}

// GetRecruiterPendingInterviews lists future interviews the candidate has not confirmed yet
func (uc *interviewUsecase) GetRecruiterPendingInterviews(ctx context.Context, recruiterID string) ([]domain.Interview, error) {
	if err := requireRecruiter(ctx, recruiterID); err != nil {
		return nil, err
	}
	now := uc.clock()
	return uc.list(ctx, domain.InterviewFilter{
		RecruiterID: recruiterID,
		Statuses:    []domain.InterviewStatus{domain.InterviewStatusScheduled},
		From:        &now,
		Unconfirmed: true,
	})
}

func (uc *interviewUsecase) GetCandidateUpcomingInterviews(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	if err := requireCandidate(ctx, candidateID); err != nil {
		return nil, err
	}
	now := uc.clock()
	return uc.list(ctx, domain.InterviewFilter{
		CandidateID: candidateID,
		Statuses:    domain.ActiveInterviewStatuses,
		From:        &now,
	})
}

// GetCandidatePastInterviews lists interviews that started before now, newest first
func (uc *interviewUsecase) GetCandidatePastInterviews(ctx context.Context, candidateID string) ([]domain.Interview, error) {
	if err := requireCandidate(ctx, candidateID); err != nil {
		return nil, err
	}
	now := uc.clock()
	return uc.list(ctx, domain.InterviewFilter{
		CandidateID: candidateID,
		To:          &now,
		Descending:  true,
	})
}

func (uc *interviewUsecase) list(ctx context.Context, filter domain.InterviewFilter) ([]domain.Interview, error) {
	interviews, err := uc.interviewRepo.List(ctx, filter)
	if err != nil {
		return nil, internalErr(err)
	}
	if interviews == nil {
		interviews = []domain.Interview{}
	}
	return interviews, nil
}

func (uc *interviewUsecase) load(ctx context.Context, id int64) (*domain.Interview, error) {
	iv, err := uc.interviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFoundReason(apperror.ReasonInterviewNotFound, "Interview not found")
		}
		return nil, internalErr(err)
	}
	iv.ScheduledDate = uc.local(iv.ScheduledDate)
	return iv, nil
}

// loadOwned loads an interview the caller manages as its recruiter.
func (uc *interviewUsecase) loadOwned(ctx context.Context, id int64) (*domain.Interview, error) {
	iv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireRecruiter(ctx, iv.RecruiterID); err != nil {
		return nil, err
	}
	return iv, nil
}

func (uc *interviewUsecase) ensureNoConflict(ctx context.Context, iv *domain.Interview, excludeID int64) error {
	report, err := uc.detector.CheckConflict(ctx, domain.ConflictCheck{
		RecruiterID:        iv.RecruiterID,
		CandidateID:        iv.CandidateID,
		Start:              iv.ScheduledDate,
		DurationMinutes:    iv.DurationMinutes,
		ExcludeInterviewID: excludeID,
	})
	if err != nil {
		return err
	}
	if report.HasConflict {
		return apperror.Conflict(apperror.ReasonSchedulingConflict, "Scheduling conflict: "+report.ConflictReason).WithDetails(report)
	}
	return nil
}

// saveWithApplication updates the interview and moves its application in one transaction.
func (uc *interviewUsecase) saveWithApplication(ctx context.Context, iv *domain.Interview, appStatus string) error {
	err := uc.tx.WithinRecruiterLock(ctx, iv.RecruiterID, func(ctx context.Context) error {
		if err := uc.interviewRepo.Update(ctx, iv); err != nil {
			return err
		}
		return uc.applicationRepo.UpdateStatus(ctx, iv.JobApplicationID, appStatus)
	})
	if err != nil {
		return internalErr(err)
	}
	return nil
}

func applyUpdate(iv *domain.Interview, req domain.UpdateInterviewRequest) {
	if req.InterviewType != nil {
		iv.InterviewType = *req.InterviewType
	}
	if req.InterviewRound != nil {
		iv.InterviewRound = *req.InterviewRound
	}
	if req.Location != nil {
		iv.Location = req.Location
	}
	if req.MeetingLink != nil {
		iv.MeetingLink = req.MeetingLink
	}
	if req.InterviewerName != nil {
		iv.InterviewerName = req.InterviewerName
	}
	if req.InterviewerEmail != nil {
		iv.InterviewerEmail = req.InterviewerEmail
	}
	if req.InterviewerPhone != nil {
		iv.InterviewerPhone = req.InterviewerPhone
	}
	if req.PreparationNotes != nil {
		iv.PreparationNotes = req.PreparationNotes
	}
}

// validateDuration bounds the length on both sides so start+duration never overflows
func validateDuration(minutes int) error {
	if minutes < domain.MinInterviewDurationMinutes || minutes > domain.MaxInterviewDurationMinutes {
		return apperror.Validation(apperror.ReasonInvalidDuration,
			fmt.Sprintf("Interview duration must be between %d and %d minutes",
				domain.MinInterviewDurationMinutes, domain.MaxInterviewDurationMinutes), nil)
	}
	return nil
}

func cannotModify(iv *domain.Interview) error {
	return apperror.State(apperror.ReasonInterviewCannotBeModified,
		fmt.Sprintf("Interview is %s and can no longer be modified", iv.Status))
}
