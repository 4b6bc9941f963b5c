// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "math"

// RetryPolicy configures Retry's backoff schedule. Delay for attempt k
// is min(BaseDelayMs * BackoffMultiplier^k, MaxDelayMs); a MaxDelayMs
// of zero or less means no cap. ShouldRetry, if set, additionally
// gates whether a given failure is retryable.
type RetryPolicy struct {
	MaxRetries        int
	BaseDelayMs       int64
	BackoffMultiplier float64
	MaxDelayMs        int64
	ShouldRetry       func(err any, attempt int) bool
}

// ImmediatePolicy retries up to n times with zero delay between
// attempts.
func ImmediatePolicy(n int) RetryPolicy {
	return RetryPolicy{MaxRetries: n, BaseDelayMs: 0, BackoffMultiplier: 1}
}

func (p RetryPolicy) delayForAttempt(attempt int) int64 {
	d := float64(p.BaseDelayMs) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if p.MaxDelayMs > 0 && d > float64(p.MaxDelayMs) {
		d = float64(p.MaxDelayMs)
	}
	if d < 0 {
		d = 0
	}
	return int64(d)
}

// Retry runs e; on failure, if attempt < policy.MaxRetries and
// policy.ShouldRetry (when set) allows it, delays and tries again with
// attempt+1. Succeeds immediately on a successful attempt.
func Retry[E, A any](e Effect[E, A], policy RetryPolicy) Effect[E, A] {
	return retryAttempt(e, policy, 0)
}

func retryAttempt[E, A any](e Effect[E, A], policy RetryPolicy, attempt int) Effect[E, A] {
	return CatchAllCause(e, func(c Cause[E]) Effect[E, A] {
		v, ok := c.FirstFailure()
		if !ok {
			return FailCauseEffect[E, A](c)
		}
		if attempt >= policy.MaxRetries {
			return FailCauseEffect[E, A](c)
		}
		if policy.ShouldRetry != nil && !policy.ShouldRetry(v, attempt) {
			return FailCauseEffect[E, A](c)
		}
		return FlatMap(Delay[E](policy.delayForAttempt(attempt)), func(Unit) Effect[E, A] {
			return SuspendEffect(func() Effect[E, A] {
				return retryAttempt(e, policy, attempt+1)
			})
		})
	})
}

// RetryN is Retry with an immediate (zero-delay) policy of n retries.
func RetryN[E, A any](e Effect[E, A], n int) Effect[E, A] {
	return Retry(e, ImmediatePolicy(n))
}

// RetryUntil re-runs e on success while p(value) is false, up to max
// extra attempts; it returns the last value and does not fail on
// exhaustion.
func RetryUntil[E, A any](e Effect[E, A], p func(A) bool, max int) Effect[E, A] {
	return retryUntilAttempt(e, p, max, 0)
}

func retryUntilAttempt[E, A any](e Effect[E, A], p func(A) bool, max, attempt int) Effect[E, A] {
	return FlatMap(e, func(a A) Effect[E, A] {
		if p(a) || attempt >= max {
			return Succeed[E, A](a)
		}
		return SuspendEffect(func() Effect[E, A] {
			return retryUntilAttempt(e, p, max, attempt+1)
		})
	})
}
