// Package resilience retries transient failures of outbound HTTP calls
// with exponential backoff and jitter.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Policy controls retry behavior. The zero value means a single attempt
// with no retries.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. Each further
	// retry doubles it, capped at MaxBackoff. Jitter of up to ±25% is
	// applied to every delay.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultPolicy suits the vendor APIs this service calls: three attempts,
// half-second initial backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// StatusError marks an HTTP response status as the cause of a failure so
// Transient can decide whether the call is worth retrying.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return e.Msg
}

// Statusf builds a StatusError with an eris-style formatted message.
func Statusf(code int, format string, args ...any) error {
	return &StatusError{Code: code, Msg: eris.Errorf(format, args...).Error()}
}

// Transient reports whether err is worth retrying: a timeout at the
// network layer, or a rate-limit / server-side HTTP status.
func Transient(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Do runs fn, retrying transient errors per the policy. The op name is
// used for retry logging only. Context cancellation stops retries and
// returns the last error.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !Transient(lastErr) || attempt == p.MaxAttempts-1 {
			return lastErr
		}

		delay := backoff(p, attempt)
		zap.L().Warn("retrying after transient failure",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(lastErr),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}

func backoff(p Policy, attempt int) time.Duration {
	delay := float64(p.InitialBackoff) * math.Pow(2, float64(attempt))
	if max := float64(p.MaxBackoff); p.MaxBackoff > 0 && delay > max {
		delay = max
	}
	// ±25% jitter
	delay += delay * 0.25 * (rand.Float64()*2 - 1)
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
