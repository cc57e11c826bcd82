package usecase

import (
	"time"

	"go-interview-scheduler/pkg/logger"

	"go.uber.org/zap"
)

// Option configures the scheduling usecases
type Option func(*options)

type options struct {
	now func() time.Time
	loc *time.Location
	log *zap.Logger
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the single location all wall-clock rules are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local, log: logger.Log}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// clock returns the current time in the scheduling location.
func (o options) clock() time.Time {
	return o.now().In(o.loc)
}

// local moves t into the scheduling location.
func (o options) local(t time.Time) time.Time {
	return t.In(o.loc)
}
