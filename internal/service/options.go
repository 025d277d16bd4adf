package service

import (
	"time"

	"go.uber.org/zap"

	"jobportal/internal/domain"
)

type Option func(*options)

type options struct {
	now        func() time.Time
	log        *zap.Logger
	strict     bool
	profileTTL time.Duration
}

// WithClock replaces time.Now for timestamps and analytics windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
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

// WithStrictTransitions makes SetStatus reject no-op and backward moves.
func WithStrictTransitions(on bool) Option {
	return func(o *options) { o.strict = on }
}

func WithProfileTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.profileTTL = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:        time.Now,
		log:        zap.NewNop(),
		profileTTL: 5 * time.Minute,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) clock() time.Time { return o.now().UTC() }

func storeErr(op string, err error) error {
	return domain.Store(op+" failed", err)
}
