package usecase_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/validation"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

const (
	recruiterID      = "recruiter-1"
	otherRecruiterID = "recruiter-2"
	candidateID      = "candidate-1"
	adminID          = "admin-1"
)

// Friday 16 Oct 2026, 12:00 UTC. The following Monday is 19 Oct.
var (
	fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func tod(hour, minute int) *domain.TimeOfDay {
	t := domain.NewTimeOfDay(hour, minute)
	return &t
}

func intPtr(v int) *int { return &v }

func weekdayPtr(d time.Weekday) *time.Weekday { return &d }

func strPtr(s string) *string { return &s }

// ---- working hours ----

type fakeWorkingHoursRepo struct {
	mu     sync.Mutex
	nextID int64
	days   map[string]domain.WorkingHours
}

func newFakeWorkingHoursRepo() *fakeWorkingHoursRepo {
	return &fakeWorkingHoursRepo{days: make(map[string]domain.WorkingHours)}
}

func whKey(recruiterID string, day time.Weekday) string {
	return recruiterID + "/" + day.String()
}

func (r *fakeWorkingHoursRepo) Upsert(ctx context.Context, wh *domain.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := whKey(wh.RecruiterID, wh.DayOfWeek)
	if existing, ok := r.days[key]; ok {
		wh.ID = existing.ID
		wh.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		wh.ID = r.nextID
		wh.CreatedAt = fixedNow
	}
	wh.UpdatedAt = fixedNow
	r.days[key] = *wh
	return nil
}

func (r *fakeWorkingHoursRepo) GetByRecruiter(ctx context.Context, recruiterID string) ([]domain.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkingHours
	for _, wh := range r.days {
		if wh.RecruiterID == recruiterID {
			out = append(out, wh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r *fakeWorkingHoursRepo) GetByRecruiterAndDay(ctx context.Context, recruiterID string, day time.Weekday) (*domain.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.days[whKey(recruiterID, day)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &wh, nil
}

// ---- interviews ----

type fakeInterviewRepo struct {
	mu         sync.Mutex
	nextID     int64
	interviews map[int64]domain.Interview
	markErr    error
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[int64]domain.Interview)}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.interviews {
		if existing.JobApplicationID == iv.JobApplicationID && existing.Status != domain.InterviewStatusCancelled {
			return apperror.Conflict(apperror.ReasonInterviewAlreadyScheduled, "duplicate")
		}
	}
	r.nextID++
	iv.ID = r.nextID
	iv.CreatedAt = fixedNow
	iv.UpdatedAt = fixedNow
	r.interviews[iv.ID] = *iv
	return nil
}

// seed stores iv as-is, bypassing every rule.
func (r *fakeInterviewRepo) seed(iv domain.Interview) domain.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	iv.ID = r.nextID
	if iv.Status == "" {
		iv.Status = domain.InterviewStatusScheduled
	}
	if iv.InterviewType == "" {
		iv.InterviewType = domain.InterviewTypeOnline
	}
	r.interviews[iv.ID] = iv
	return iv
}

func (r *fakeInterviewRepo) Update(ctx context.Context, iv *domain.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.interviews[iv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.interviews[iv.ID] = *iv
	return nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &iv, nil
}

func (r *fakeInterviewRepo) get(id int64) domain.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interviews[id]
}

func (r *fakeInterviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.interviews)
}

func (r *fakeInterviewRepo) GetActiveByJobApplicationID(ctx context.Context, jobApplicationID int64) (*domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range r.interviews {
		if iv.JobApplicationID == jobApplicationID && iv.Status != domain.InterviewStatusCancelled {
			return &iv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeInterviewRepo) List(ctx context.Context, f domain.InterviewFilter) ([]domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Interview
	for _, iv := range r.interviews {
		if f.RecruiterID != "" && iv.RecruiterID != f.RecruiterID {
			continue
		}
		if f.CandidateID != "" && iv.CandidateID != f.CandidateID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, iv.Status) {
			continue
		}
		if f.ExcludeCancelled && iv.Status == domain.InterviewStatusCancelled {
			continue
		}
		if f.From != nil && iv.ScheduledDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !iv.ScheduledDate.Before(*f.To) {
			continue
		}
		if f.EndsAfter != nil && !iv.ExpectedEndTime().After(*f.EndsAfter) {
			continue
		}
		if f.Unconfirmed && iv.CandidateConfirmed {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Descending {
			return out[i].ScheduledDate.After(out[j].ScheduledDate)
		}
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (r *fakeInterviewRepo) ListDueForReminder(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]domain.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Interview
	for _, iv := range r.interviews {
		if iv.Status != domain.InterviewStatusScheduled && iv.Status != domain.InterviewStatusConfirmed {
			continue
		}
		if (kind == domain.Reminder24h && iv.ReminderSent24h) || (kind == domain.Reminder2h && iv.ReminderSent2h) {
			continue
		}
		if iv.ScheduledDate.Before(from) || iv.ScheduledDate.After(to) {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInterviewRepo) MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	iv := r.interviews[id]
	if kind == domain.Reminder24h {
		iv.ReminderSent24h = true
	} else {
		iv.ReminderSent2h = true
	}
	r.interviews[id] = iv
	return nil
}

func (r *fakeInterviewRepo) CountByStatus(ctx context.Context, recruiterID string) (map[domain.InterviewStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.InterviewStatus]int)
	for _, iv := range r.interviews {
		if iv.RecruiterID == recruiterID {
			out[iv.Status]++
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) CountByOutcome(ctx context.Context, recruiterID string) (map[domain.InterviewOutcome]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.InterviewOutcome]int)
	for _, iv := range r.interviews {
		if iv.RecruiterID == recruiterID && iv.Outcome != nil {
			out[*iv.Outcome]++
		}
	}
	return out, nil
}

func containsStatus(statuses []domain.InterviewStatus, s domain.InterviewStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ---- applications, users, transactor ----

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[int64]domain.Application
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &app, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.Status = status
	r.apps[id] = app
	return nil
}

func (r *fakeApplicationRepo) status(id int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type fakeTransactor struct {
	mu    sync.Mutex
	calls int
}

func (t *fakeTransactor) WithinRecruiterLock(ctx context.Context, recruiterID string, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return fn(ctx)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendNotification(ctx context.Context, channel string, event domain.NotificationEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

// ---- environment ----

type testEnv struct {
	wh       *fakeWorkingHoursRepo
	iv       *fakeInterviewRepo
	apps     *fakeApplicationRepo
	users    *fakeUserRepo
	tx       *fakeTransactor
	notifier *MockNotifier
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		wh: newFakeWorkingHoursRepo(),
		iv: newFakeInterviewRepo(),
		apps: &fakeApplicationRepo{apps: map[int64]domain.Application{
			100: {ID: 100, JobID: 10, CandidateUserID: candidateID, RecruiterUserID: recruiterID, Status: domain.ApplicationStatusReviewed, JobTitle: strPtr("Backend Engineer")},
			101: {ID: 101, JobID: 10, CandidateUserID: "candidate-2", RecruiterUserID: recruiterID, Status: domain.ApplicationStatusReviewed},
			200: {ID: 200, JobID: 20, CandidateUserID: candidateID, RecruiterUserID: otherRecruiterID, Status: domain.ApplicationStatusReviewed},
		}},
		users: &fakeUserRepo{users: map[string]domain.User{
			recruiterID:      {ID: recruiterID, Email: "recruiter@example.com", Role: domain.RoleEmployer},
			otherRecruiterID: {ID: otherRecruiterID, Email: "other@example.com", Role: domain.RoleEmployer},
			candidateID:      {ID: candidateID, Email: "candidate@example.com", Role: domain.RoleCandidate},
			"candidate-2":    {ID: "candidate-2", Email: "candidate2@example.com", Role: domain.RoleCandidate},
		}},
		tx:       &fakeTransactor{},
		notifier: new(MockNotifier),
		now:      fixedNow,
	}
	return env
}

func (e *testEnv) options(t *testing.T) []usecase.Option {
	return []usecase.Option{
		usecase.WithClock(func() time.Time { return e.now }),
		usecase.WithLocation(time.UTC),
		usecase.WithLogger(zaptest.NewLogger(t)),
	}
}

// standardWeek configures Mon-Fri 09:00-17:00, lunch 12:00-13:00, buffer 15, cap 8.
func (e *testEnv) standardWeek(recruiter string) {
	for d := time.Monday; d <= time.Friday; d++ {
		_ = e.wh.Upsert(context.Background(), &domain.WorkingHours{
			RecruiterID:         recruiter,
			DayOfWeek:           d,
			IsWorkingDay:        true,
			StartTime:           tod(9, 0),
			EndTime:             tod(17, 0),
			LunchBreakStart:     tod(12, 0),
			LunchBreakEnd:       tod(13, 0),
			BufferMinutes:       15,
			MaxInterviewsPerDay: 8,
		})
	}
}

func (e *testEnv) detector(t *testing.T) domain.ConflictDetector {
	return usecase.NewConflictDetector(e.wh, e.iv, e.options(t)...)
}

func (e *testEnv) slotFinder(t *testing.T) domain.SlotFinder {
	return usecase.NewSlotFinder(e.wh, e.iv, e.users, e.options(t)...)
}

func (e *testEnv) interviews(t *testing.T) domain.InterviewUsecase {
	return usecase.NewInterviewUsecase(e.iv, e.apps, e.users, e.detector(t), e.tx, e.notifier, validation.New(), e.options(t)...)
}

func asRecruiter(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id, Role: domain.RoleEmployer})
}

func asCandidate(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: id, Role: domain.RoleCandidate})
}

func asAdmin() context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{UserID: adminID, Role: domain.RoleAdmin})
}
