package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/email"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EmailSender delivers one rendered interview email
type EmailSender interface {
	SendInterviewEmail(data email.InterviewEmailData) error
	IsConfigured() bool
}

// Worker consumes TypeSend tasks
type Worker struct {
	sender EmailSender
	log    *zap.Logger
}

func NewWorker(sender EmailSender, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{sender: sender, log: log}
}

// Register mounts the worker's handlers on mux
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSend, w.HandleSend)
}

// NewServer builds the asynq server draining every notification queue
func NewServer(redisOpt asynq.RedisConnOpt, concurrency int, log *zap.Logger) *asynq.Server {
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      Queues,
		Logger:      log.Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("notification task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
}

// HandleSend delivers one notification. Malformed payloads are not retried.
func (w *Worker) HandleSend(ctx context.Context, task *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("decode notification payload: %v: %w", err, asynq.SkipRetry)
	}

	log := w.log.With(
		zap.String("channel", p.Channel),
		zap.String("category", p.Event.Category),
		zap.String("recipient_id", p.Event.RecipientID),
	)

	switch p.Channel {
	case domain.ChannelEmail:
		if !w.sender.IsConfigured() {
			log.Warn("SMTP not configured, dropping email notification")
			return nil
		}
		if p.Event.RecipientEmail == "" {
			return fmt.Errorf("recipient %s has no email: %w", p.Event.RecipientID, asynq.SkipRetry)
		}
		if err := w.sender.SendInterviewEmail(emailData(p.Event)); err != nil {
			return err
		}
		log.Info("email notification sent")
		return nil
	case domain.ChannelPush:
		log.Info("push notification skipped: no push provider configured")
		return nil
	default:
		return fmt.Errorf("unknown channel %q: %w", p.Channel, asynq.SkipRetry)
	}
}

var detailLabels = map[string]string{
	"job_title":        "Position",
	"scheduled_date":   "When",
	"duration_minutes": "Duration (minutes)",
	"interview_type":   "Type",
	"location":         "Location",
	"meeting_link":     "Meeting link",
}

func emailData(e domain.NotificationEvent) email.InterviewEmailData {
	details := make(map[string]string)
	for key, label := range detailLabels {
		v, ok := e.Metadata[key]
		if !ok || v == "" {
			continue
		}
		if key == "scheduled_date" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				v = t.Format("Mon, 02 Jan 2006 15:04 MST")
			}
		}
		if key == "interview_type" {
			v = titleCase(v)
		}
		details[label] = v
	}
	return email.InterviewEmailData{
		RecipientEmail: e.RecipientEmail,
		Subject:        e.Subject,
		Message:        e.Message,
		Category:       strings.ToLower(strings.ReplaceAll(e.Category, "_", " ")),
		Details:        details,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
