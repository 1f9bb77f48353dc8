package notify

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const pollInterval = 5 * time.Minute

// Run starts the polling loop and the fixed-time jobs and blocks until
// ctx is cancelled. Every job catches its own failures; nothing here
// crashes the process.
func (n *Notifier) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(n.loc))

	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{"0 8 * * *", "who_broadcast", func() { n.WhoBroadcast(ctx, time.Now()) }},
		{"55 8 * * *", "preps_morning", func() { n.PrepsBroadcast(ctx, time.Now()) }},
		{"55 16 * * *", "preps_evening", func() { n.PrepsBroadcast(ctx, time.Now()) }},
		{"52 22 * * *", "feedback_digest", func() { n.FeedbackDigest(ctx, time.Now()) }},
		{"0 0 * * *", "daily_reset", func() { n.ResetDailyData(time.Now()) }},
	}
	for _, j := range jobs {
		if _, err := c.AddFunc(j.spec, n.recovered(j.name, j.fn)); err != nil {
			return err
		}
	}
	c.Start()
	defer c.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	n.log.Info("notification scheduler started",
		zap.Duration("poll_interval", pollInterval),
		zap.String("timezone", n.loc.String()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n.recovered("shift_check", func() { n.CheckShifts(ctx, time.Now()) })()
		}
	}
}

// recovered wraps a job so a panic is logged at the job boundary
// instead of taking the process down.
func (n *Notifier) recovered(name string, fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				n.log.Error("job panicked",
					zap.String("job", name), zap.Any("panic", r))
			}
		}()
		fn()
	}
}
