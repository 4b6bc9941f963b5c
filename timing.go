// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "time"

// Delay sleeps for ms milliseconds then yields unit. A non-positive ms
// is a no-op. Built on AsyncEffect + time.AfterFunc so it suspends a
// fiber without blocking the host thread, and is a fatal defect (as
// any Async leaf is) under SyncRuntime.
func Delay[E any](ms int64) Effect[E, Unit] {
	if ms <= 0 {
		return UnitEffect[E]()
	}
	return AsyncEffect[E, Unit](func(complete func(Exit[E, Unit])) {
		time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
			complete(Success[E, Unit](Unit{}))
		})
	})
}

// Sleep is Delay(round(seconds * 1000)).
func Sleep[E any](seconds float64) Effect[E, Unit] {
	return Delay[E](int64(seconds*1000 + 0.5))
}

// Timed reads a monotonic clock before and after e, returning its value
// paired with the elapsed duration in milliseconds.
func Timed[E, A any](e Effect[E, A]) Effect[E, Pair[A, int64]] {
	return FlatMap(Sync[E, time.Time](time.Now), func(start time.Time) Effect[E, Pair[A, int64]] {
		return Map(e, func(a A) Pair[A, int64] {
			return Pair[A, int64]{First: a, Second: time.Since(start).Milliseconds()}
		})
	})
}

// Timeout fails with a *TimeoutError (raised as a Defect, consistent
// with OrDie's promotion of non-E conditions — see DESIGN.md) if the
// deadline elapses before e's success would be delivered. Without
// preemption this cannot interrupt a running Sync leaf; it is a
// best-effort deadline checked at reduction boundaries.
func Timeout[E, A any](e Effect[E, A], ms int64) Effect[E, A] {
	return FlatMap(Timed(e), func(result Pair[A, int64]) Effect[E, A] {
		if result.Second > ms {
			return Defect[E, A](&TimeoutError{Ms: ms})
		}
		return Succeed[E, A](result.First)
	})
}

// RepeatN sequentially runs e n times, collecting results in order.
func RepeatN[E, A any](e Effect[E, A], n int) Effect[E, []A] {
	es := make([]Effect[E, A], n)
	for i := range es {
		es[i] = e
	}
	return All(es)
}

// Forever runs e indefinitely, stack-safely via SuspendEffect; it
// terminates only on failure or interruption.
func Forever[E, A any](e Effect[E, A]) Effect[E, A] {
	return FlatMap(e, func(A) Effect[E, A] {
		return SuspendEffect(func() Effect[E, A] { return Forever(e) })
	})
}
