package insight

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ResilientProvider retries the primary provider on transient failures and
// then tries the fallback once, all within a single timeout.
type ResilientProvider struct {
	primary    Provider
	fallback   Provider
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	log        zerolog.Logger
}

func NewResilientProvider(primary, fallback Provider, log zerolog.Logger) *ResilientProvider {
	return &ResilientProvider{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		timeout:    25 * time.Second,
		log:        log,
	}
}

func (r *ResilientProvider) Assess(ctx context.Context, req Request) (*Insight, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	in, err := r.assessWithRetry(ctx, r.primary, req)
	if err == nil {
		return in, nil
	}
	if r.fallback == nil {
		return nil, err
	}

	r.log.Warn().Err(err).Msg("primary insight provider exhausted, switching to fallback")
	in, err = r.fallback.Assess(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("primary and fallback insight providers failed: %w", err)
	}
	return in, nil
}

func (r *ResilientProvider) assessWithRetry(ctx context.Context, p Provider, req Request) (*Insight, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		in, err := p.Assess(ctx, req)
		if err == nil {
			return in, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := backoff(r.baseDelay, attempt)
		r.log.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying insight provider")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// isRetryable matches rate limits, server errors and timeouts.
func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"429", "500", "502", "503", "504", "overloaded", "unavailable", "deadline"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// backoff doubles base per attempt and adds up to 20% jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	d := float64(base) * float64(int(1)<<attempt)
	return time.Duration(d + rand.Float64()*0.2*d)
}
