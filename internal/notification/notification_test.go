package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/email"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendInterviewEmail(data email.InterviewEmailData) error {
	return m.Called(data).Error(0)
}

func (m *MockSender) IsConfigured() bool {
	return m.Called().Bool(0)
}

func sampleEvent() domain.NotificationEvent {
	return domain.NotificationEvent{
		RecipientID:    "candidate-1",
		RecipientEmail: "candidate@example.com",
		Subject:        "Interview scheduled",
		Message:        "Your interview has been scheduled.",
		Category:       domain.NotificationInterviewScheduled,
		Priority:       domain.PriorityHigh,
		Metadata: map[string]string{
			"interview_id":     "7",
			"scheduled_date":   "2026-10-19T10:00:00Z",
			"duration_minutes": "60",
			"interview_type":   "ONLINE",
			"job_title":        "Backend Engineer",
			"meeting_link":     "",
		},
	}
}

func taskFor(t *testing.T, channel string, event domain.NotificationEvent) *asynq.Task {
	t.Helper()
	task, _, err := NewTask(channel, event)
	require.NoError(t, err)
	return task
}

func TestQueueFor(t *testing.T) {
	assert.Equal(t, QueueCritical, QueueFor(domain.PriorityHigh))
	assert.Equal(t, QueueDefault, QueueFor(domain.PriorityNormal))
	assert.Equal(t, QueueLow, QueueFor(domain.PriorityLow))
	assert.Equal(t, QueueDefault, QueueFor(""))
}

func TestNewTask(t *testing.T) {
	task, opts, err := NewTask(domain.ChannelEmail, sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, TypeSend, task.Type())
	assert.Len(t, opts, 4)

	var p Payload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, domain.ChannelEmail, p.Channel)
	assert.Equal(t, "candidate@example.com", p.Event.RecipientEmail)
	assert.Equal(t, "7", p.Event.Metadata["interview_id"])
}

func TestQueueNotifier_SendNotification(t *testing.T) {
	enq := new(MockEnqueuer)
	n := NewQueueNotifier(enq, zaptest.NewLogger(t))

	enq.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == TypeSend
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "task-1", Queue: QueueCritical}, nil).Once()

	require.NoError(t, n.SendNotification(context.Background(), domain.ChannelEmail, sampleEvent()))
	enq.AssertExpectations(t)
}

func TestQueueNotifier_EnqueueFailure(t *testing.T) {
	enq := new(MockEnqueuer)
	n := NewQueueNotifier(enq, nil)
	enq.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	err := n.SendNotification(context.Background(), domain.ChannelEmail, sampleEvent())
	assert.ErrorContains(t, err, "redis down")
}

func TestWorker_HandleSend_Email(t *testing.T) {
	sender := new(MockSender)
	w := NewWorker(sender, zaptest.NewLogger(t))

	sender.On("IsConfigured").Return(true)
	sender.On("SendInterviewEmail", mock.MatchedBy(func(d email.InterviewEmailData) bool {
		return d.RecipientEmail == "candidate@example.com" &&
			d.Subject == "Interview scheduled" &&
			d.Category == "interview scheduled" &&
			d.Details["Position"] == "Backend Engineer" &&
			d.Details["Type"] == "Online" &&
			d.Details["When"] == "Mon, 19 Oct 2026 10:00 UTC" &&
			d.Details["Duration (minutes)"] == "60"
	})).Return(nil).Once()

	require.NoError(t, w.HandleSend(context.Background(), taskFor(t, domain.ChannelEmail, sampleEvent())))
	sender.AssertExpectations(t)
}

func TestWorker_HandleSend_EmptyMetadataOmitted(t *testing.T) {
	data := emailData(sampleEvent())
	_, hasLink := data.Details["Meeting link"]
	assert.False(t, hasLink)
	_, hasLocation := data.Details["Location"]
	assert.False(t, hasLocation)
}

func TestWorker_HandleSend_DeliveryErrorIsRetried(t *testing.T) {
	sender := new(MockSender)
	w := NewWorker(sender, zaptest.NewLogger(t))
	sender.On("IsConfigured").Return(true)
	sender.On("SendInterviewEmail", mock.Anything).Return(errors.New("smtp timeout"))

	err := w.HandleSend(context.Background(), taskFor(t, domain.ChannelEmail, sampleEvent()))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestWorker_HandleSend_Unconfigured(t *testing.T) {
	sender := new(MockSender)
	w := NewWorker(sender, zaptest.NewLogger(t))
	sender.On("IsConfigured").Return(false)

	assert.NoError(t, w.HandleSend(context.Background(), taskFor(t, domain.ChannelEmail, sampleEvent())))
	sender.AssertNotCalled(t, "SendInterviewEmail", mock.Anything)
}

func TestWorker_HandleSend_NotRetried(t *testing.T) {
	sender := new(MockSender)
	sender.On("IsConfigured").Return(true)
	w := NewWorker(sender, zaptest.NewLogger(t))

	noEmail := sampleEvent()
	noEmail.RecipientEmail = ""

	tests := []struct {
		name string
		task *asynq.Task
	}{
		{name: "malformed payload", task: asynq.NewTask(TypeSend, []byte("{"))},
		{name: "unknown channel", task: taskFor(t, "sms", sampleEvent())},
		{name: "missing recipient email", task: taskFor(t, domain.ChannelEmail, noEmail)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.HandleSend(context.Background(), tt.task)
			assert.ErrorIs(t, err, asynq.SkipRetry)
		})
	}
	sender.AssertNotCalled(t, "SendInterviewEmail", mock.Anything)
}

func TestWorker_HandleSend_Push(t *testing.T) {
	sender := new(MockSender)
	w := NewWorker(sender, zaptest.NewLogger(t))
	assert.NoError(t, w.HandleSend(context.Background(), taskFor(t, domain.ChannelPush, sampleEvent())))
	sender.AssertNotCalled(t, "SendInterviewEmail", mock.Anything)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(nil)
	err := n.SendNotification(context.Background(), domain.ChannelEmail, domain.NotificationEvent{Category: domain.NotificationInterviewScheduled})
	assert.NoError(t, err)
}
