package utils

import (
	"context"
	"time"
)

// Cooldown is a fixed pause taken after every request to the rankings site.
// It is constant: it does not grow on failure or shrink on success.
type Cooldown struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration)
}

// NewCooldown creates a Cooldown of delayMs milliseconds. Zero disables it.
func NewCooldown(delayMs int) *Cooldown {
	return &Cooldown{
		delay: time.Duration(delayMs) * time.Millisecond,
		sleep: sleepCtx,
	}
}

// Delay returns the configured pause.
func (c *Cooldown) Delay() time.Duration {
	return c.delay
}

// Wait blocks for the configured delay or until ctx is done.
func (c *Cooldown) Wait(ctx context.Context) {
	if c == nil || c.delay <= 0 {
		return
	}
	c.sleep(ctx, c.delay)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
