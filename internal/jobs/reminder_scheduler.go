package jobs

import (
	"context"
	"errors"
	"time"

	"go-interview-scheduler/internal/domain"
	redislock "go-interview-scheduler/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderSender is the slice of domain.InterviewUsecase the scheduler drives
type ReminderSender interface {
	Send24HourReminders(ctx context.Context) (int, error)
	Send2HourReminders(ctx context.Context) (int, error)
}

var _ ReminderSender = domain.InterviewUsecase(nil)

const (
	lockKeyPrefix = "interview-scheduler:reminders:"
	lockTTL       = 2 * time.Minute
	runTimeout    = time.Minute
)

// ReminderScheduler runs the reminder scans on cron schedules. With a Redis client
// only one instance runs each scan at a time; without one every instance runs it
// and the per-interview flags keep delivery single.
type ReminderScheduler struct {
	cron   *cron.Cron
	sender ReminderSender
	rdb    redis.Cmdable
	log    *zap.Logger
}

func NewReminderScheduler(sender ReminderSender, rdb redis.Cmdable, log *zap.Logger) *ReminderScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log: log}
	return &ReminderScheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		sender: sender,
		rdb:    rdb,
		log:    log,
	}
}

// Schedule registers both scans. spec24h and spec2h use cron syntax or descriptors such as "@every 15m".
func (s *ReminderScheduler) Schedule(spec24h, spec2h string) error {
	if _, err := s.cron.AddFunc(spec24h, func() { s.Run(context.Background(), domain.Reminder24h) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec2h, func() { s.Run(context.Background(), domain.Reminder2h) }); err != nil {
		return err
	}
	return nil
}

func (s *ReminderScheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running ones, or for ctx.
func (s *ReminderScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("reminder scheduler stop timed out")
	}
}

// Run performs one scan of the given kind. It returns the number of interviews reminded.
func (s *ReminderScheduler) Run(ctx context.Context, kind domain.ReminderKind) int {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	log := s.log.With(zap.String("kind", string(kind)))

	if s.rdb != nil {
		lock, err := redislock.TryLock(ctx, s.rdb, lockKeyPrefix+string(kind), lockTTL)
		switch {
		case errors.Is(err, redislock.ErrLockHeld):
			log.Debug("reminder scan already running elsewhere")
			return 0
		case err != nil:
			// Flags still prevent duplicates, so run unlocked
			log.Warn("reminder lock unavailable", zap.Error(err))
		default:
			defer func() {
				if err := lock.Unlock(context.Background()); err != nil {
					log.Warn("reminder lock release failed", zap.Error(err))
				}
			}()
		}
	}

	var (
		sent int
		err  error
	)
	switch kind {
	case domain.Reminder24h:
		sent, err = s.sender.Send24HourReminders(ctx)
	case domain.Reminder2h:
		sent, err = s.sender.Send2HourReminders(ctx)
	default:
		log.Error("unknown reminder kind")
		return 0
	}
	if err != nil {
		log.Error("reminder scan failed", zap.Error(err))
		return sent
	}
	if sent > 0 {
		log.Info("reminders sent", zap.Int("count", sent))
	}
	return sent
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
