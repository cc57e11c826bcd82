package domain

import "context"

// Notification channels
const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// Notification categories emitted by the interview lifecycle
const (
	NotificationInterviewScheduled   = "INTERVIEW_SCHEDULED"
	NotificationInterviewConfirmed   = "INTERVIEW_CONFIRMED"
	NotificationInterviewRescheduled = "INTERVIEW_RESCHEDULED"
	NotificationInterviewCancelled   = "INTERVIEW_CANCELLED"
	NotificationInterviewCompleted   = "INTERVIEW_COMPLETED"
	NotificationInterviewReminder    = "INTERVIEW_REMINDER"
)

// NotificationPriority orders delivery in the notification queue
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

// NotificationEvent is a message for one recipient
type NotificationEvent struct {
	RecipientID    string               `json:"recipient_id"`
	RecipientEmail string               `json:"recipient_email"`
	Subject        string               `json:"subject"`
	Message        string               `json:"message"`
	Category       string               `json:"category"`
	Metadata       map[string]string    `json:"metadata,omitempty"`
	Priority       NotificationPriority `json:"priority"`
}

// Notifier hands events to the delivery pipeline. Implementations must not block on delivery.
type Notifier interface {
	SendNotification(ctx context.Context, channel string, event NotificationEvent) error
}
