package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeSend is the asynq task type carrying one NotificationEvent
const TypeSend = "notification:send"

// Queue names, highest weight first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Queues maps every queue to its asynq weight
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

const (
	maxRetry    = 5
	taskTimeout = 30 * time.Second
)

// Payload is the JSON body of a TypeSend task
type Payload struct {
	Channel string                   `json:"channel"`
	Event   domain.NotificationEvent `json:"event"`
}

// Enqueuer is the part of *asynq.Client the notifier needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type queueNotifier struct {
	client Enqueuer
	log    *zap.Logger
}

// NewQueueNotifier returns a domain.Notifier that only enqueues; delivery happens in the Worker.
func NewQueueNotifier(client Enqueuer, log *zap.Logger) domain.Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &queueNotifier{client: client, log: log}
}

// NewTask builds the asynq task for one event
func NewTask(channel string, event domain.NotificationEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(Payload{Channel: channel, Event: event})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(QueueFor(event.Priority)),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	}
	return asynq.NewTask(TypeSend, b), opts, nil
}

// QueueFor routes a priority to its queue; unknown priorities use the default queue.
func QueueFor(p domain.NotificationPriority) string {
	switch p {
	case domain.PriorityHigh:
		return QueueCritical
	case domain.PriorityLow:
		return QueueLow
	default:
		return QueueDefault
	}
}

func (n *queueNotifier) SendNotification(ctx context.Context, channel string, event domain.NotificationEvent) error {
	task, opts, err := NewTask(channel, event)
	if err != nil {
		return fmt.Errorf("build notification task: %w", err)
	}
	info, err := n.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	n.log.Debug("notification enqueued",
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue),
		zap.String("category", event.Category),
		zap.String("recipient_id", event.RecipientID),
	)
	return nil
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier records events without delivering them. Used when no Redis is configured.
func NewLogNotifier(log *zap.Logger) domain.Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &logNotifier{log: log}
}

func (n *logNotifier) SendNotification(_ context.Context, channel string, event domain.NotificationEvent) error {
	n.log.Info("notification not delivered: queue unavailable",
		zap.String("channel", channel),
		zap.String("category", event.Category),
		zap.String("recipient_id", event.RecipientID),
	)
	return nil
}
