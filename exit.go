// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Exit is the terminal result of running an Effect[E, A]: either a
// success value or a failure Cause.
type Exit[E, A any] struct {
	ok    bool
	value A
	cause Cause[E]
}

// Success wraps a value as a successful exit.
func Success[E, A any](a A) Exit[E, A] {
	return Exit[E, A]{ok: true, value: a}
}

// Failure wraps a cause as a failed exit.
func Failure[E, A any](c Cause[E]) Exit[E, A] {
	return Exit[E, A]{cause: c}
}

// IsSuccess reports whether the exit is a success.
func (e Exit[E, A]) IsSuccess() bool { return e.ok }

// IsFailure reports whether the exit is a failure.
func (e Exit[E, A]) IsFailure() bool { return !e.ok }

// Cause returns the failure cause, empty for a successful exit.
func (e Exit[E, A]) Cause() Cause[E] { return e.cause }

// Value returns the success value and true, or the zero value and
// false for a failure.
func (e Exit[E, A]) Value() (A, bool) {
	if !e.ok {
		var zero A
		return zero, false
	}
	return e.value, true
}

// GetOrThrow returns the success value or panics with the cause
// squashed to a host error. Intended for tests and top-level mains
// that have already decided a failure is fatal.
func (e Exit[E, A]) GetOrThrow() A {
	if e.ok {
		return e.value
	}
	panic(e.cause.Squash())
}

// MatchExit folds an exit into a single value via one of two
// continuations.
func MatchExit[E, A, B any](e Exit[E, A], onFailure func(Cause[E]) B, onSuccess func(A) B) B {
	if e.ok {
		return onSuccess(e.value)
	}
	return onFailure(e.cause)
}

// MapExit transforms a successful exit's value, leaving failures
// untouched.
func MapExit[E, A, B any](e Exit[E, A], f func(A) B) Exit[E, B] {
	if !e.ok {
		return Exit[E, B]{cause: e.cause}
	}
	return Exit[E, B]{ok: true, value: f(e.value)}
}

// FlatMapExit chains a second exit-producing computation onto a
// successful exit, leaving failures untouched.
func FlatMapExit[E, A, B any](e Exit[E, A], f func(A) Exit[E, B]) Exit[E, B] {
	if !e.ok {
		return Exit[E, B]{cause: e.cause}
	}
	return f(e.value)
}

// MapErrorExit transforms a failed exit's cause, leaving successes
// untouched.
func MapErrorExit[E, E2, A any](e Exit[E, A], f func(E) E2) Exit[E2, A] {
	if e.ok {
		return Exit[E2, A]{ok: true, value: e.value}
	}
	return Exit[E2, A]{cause: MapCause(e.cause, f)}
}
