package services

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy is a fixed-delay, bounded-attempts policy.
type RetryPolicy struct {
	// Attempts is the total number of tries, first one included.
	Attempts int
	Delay    time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

func (p RetryPolicy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	return retry.WithMaxRetries(uint64(p.attempts()-1), retry.NewConstant(delay))
}
