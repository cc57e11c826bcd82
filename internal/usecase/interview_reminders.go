package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-interview-scheduler/internal/domain"

	"go.uber.org/zap"
)

// Reminder windows: the scan looks for interviews starting at now+offset ± tolerance
const (
	reminder24hOffset    = 24 * time.Hour
	reminder24hTolerance = 30 * time.Minute
	reminder2hOffset     = 2 * time.Hour
	reminder2hTolerance  = 15 * time.Minute
)

// Send24HourReminders notifies both participants of interviews starting in about a day
func (uc *interviewUsecase) Send24HourReminders(ctx context.Context) (int, error) {
	return uc.sendReminders(ctx, domain.Reminder24h, reminder24hOffset, reminder24hTolerance)
}

// Send2HourReminders notifies both participants of interviews starting in about two hours
func (uc *interviewUsecase) Send2HourReminders(ctx context.Context) (int, error) {
	return uc.sendReminders(ctx, domain.Reminder2h, reminder2hOffset, reminder2hTolerance)
}

// sendReminders handles each interview independently; a failed one is logged and
// left unflagged so the next run retries it.
func (uc *interviewUsecase) sendReminders(ctx context.Context, kind domain.ReminderKind, offset, tolerance time.Duration) (int, error) {
	target := uc.clock().Add(offset)
	due, err := uc.interviewRepo.ListDueForReminder(ctx, kind, target.Add(-tolerance), target.Add(tolerance))
	if err != nil {
		return 0, internalErr(err)
	}

	sent := 0
	for i := range due {
		iv := &due[i]
		iv.ScheduledDate = uc.local(iv.ScheduledDate)
		if err := uc.remind(ctx, iv, kind); err != nil {
			uc.log.Warn("reminder failed",
				zap.Int64("interview_id", iv.ID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	uc.log.Info("reminders processed",
		zap.String("kind", string(kind)),
		zap.Int("due", len(due)),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func (uc *interviewUsecase) remind(ctx context.Context, iv *domain.Interview, kind domain.ReminderKind) error {
	subject := fmt.Sprintf("Reminder: interview in %s", kind)
	message := fmt.Sprintf("Your interview starts on %s.", uc.formatWhen(iv))

	for _, recipient := range []string{iv.CandidateID, iv.RecruiterID} {
		event, err := uc.event(ctx, iv, recipient, domain.NotificationInterviewReminder, domain.PriorityHigh, subject, message)
		if err != nil {
			return err
		}
		event.Metadata["reminder"] = string(kind)
		if err := uc.notifier.SendNotification(ctx, domain.ChannelEmail, *event); err != nil {
			return err
		}
	}
	return uc.interviewRepo.MarkReminderSent(ctx, iv.ID, kind)
}

// notify sends a lifecycle notification. The state change is already committed,
// so a delivery failure is logged rather than returned.
func (uc *interviewUsecase) notify(ctx context.Context, iv *domain.Interview, recipientID, category string, priority domain.NotificationPriority, subject, message string) {
	event, err := uc.event(ctx, iv, recipientID, category, priority, subject, message)
	if err == nil {
		err = uc.notifier.SendNotification(ctx, domain.ChannelEmail, *event)
	}
	if err != nil {
		uc.log.Warn("notification not sent",
			zap.Int64("interview_id", iv.ID),
			zap.String("category", category),
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

func (uc *interviewUsecase) event(ctx context.Context, iv *domain.Interview, recipientID, category string, priority domain.NotificationPriority, subject, message string) (*domain.NotificationEvent, error) {
	user, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("resolve recipient %s: %w", recipientID, err)
	}

	metadata := map[string]string{
		"interview_id":       strconv.FormatInt(iv.ID, 10),
		"job_application_id": strconv.FormatInt(iv.JobApplicationID, 10),
		"scheduled_date":     iv.ScheduledDate.Format(time.RFC3339),
		"duration_minutes":   strconv.Itoa(iv.DurationMinutes),
		"interview_type":     string(iv.InterviewType),
	}
	if iv.JobTitle != nil {
		metadata["job_title"] = *iv.JobTitle
	}
	if iv.MeetingLink != nil {
		metadata["meeting_link"] = *iv.MeetingLink
	}
	if iv.Location != nil {
		metadata["location"] = *iv.Location
	}

	return &domain.NotificationEvent{
		RecipientID:    recipientID,
		RecipientEmail: user.Email,
		Subject:        subject,
		Message:        message,
		Category:       category,
		Metadata:       metadata,
		Priority:       priority,
	}, nil
}

func (uc *interviewUsecase) formatWhen(iv *domain.Interview) string {
	return uc.local(iv.ScheduledDate).Format("Mon, 02 Jan 2006 15:04 MST")
}
