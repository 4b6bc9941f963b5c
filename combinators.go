// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "fmt"

// Map transforms a successful effect's value; failures pass through
// untouched. Free function: it changes the success type parameter,
// which a method on Effect[E, A] cannot do in Go.
func Map[E, A, B any](e Effect[E, A], f func(A) B) Effect[E, B] {
	return wrap[E, B](&mapNode{
		child: e.n,
		f:     func(v any) any { return f(v.(A)) },
	})
}

// FlatMap continues with the effect produced by k on success; failures
// pass through untouched.
func FlatMap[E, A, B any](e Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return wrap[E, B](&flatMapNode{
		child: e.n,
		k:     func(v any) node { return k(v.(A)).n },
	})
}

// AndThen is an alias for FlatMap.
func AndThen[E, A, B any](e Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return FlatMap(e, k)
}

// Fold is the only primitive that observes failure: onSuccess or
// onFailure runs, each producing a new effect.
func Fold[E, A, B any](e Effect[E, A], onSuccess func(A) Effect[E, B], onFailure func(Cause[E]) Effect[E, B]) Effect[E, B] {
	return wrap[E, B](&foldNode{
		child:     e.n,
		onSuccess: func(v any) node { return onSuccess(v.(A)).n },
		onFailure: func(c exitAnyCause) node { return onFailure(reifyCause[E](c)).n },
	})
}

// Tap runs f for its side effect on success, passing the value through
// unchanged.
func Tap[E, A any](e Effect[E, A], f func(A)) Effect[E, A] {
	return Map(e, func(a A) A {
		f(a)
		return a
	})
}

// TapEffect runs an effectful side computation on success, discarding
// its result and passing the original value through unchanged.
func TapEffect[E, A, B any](e Effect[E, A], k func(A) Effect[E, B]) Effect[E, A] {
	return FlatMap(e, func(a A) Effect[E, A] {
		return As(k(a), a)
	})
}

// Pair is a 2-tuple, the result type of Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip runs e then other, pairing their successes.
func Zip[E, A, B any](e Effect[E, A], other Effect[E, B]) Effect[E, Pair[A, B]] {
	return ZipWith(e, other, func(a A, b B) Pair[A, B] { return Pair[A, B]{a, b} })
}

// ZipWith runs e then other, combining their successes with f.
func ZipWith[E, A, B, C any](e Effect[E, A], other Effect[E, B], f func(A, B) C) Effect[E, C] {
	return FlatMap(e, func(a A) Effect[E, C] {
		return Map(other, func(b B) C { return f(a, b) })
	})
}

// ZipLeft runs e then other, keeping only e's success.
func ZipLeft[E, A, B any](e Effect[E, A], other Effect[E, B]) Effect[E, A] {
	return ZipWith(e, other, func(a A, _ B) A { return a })
}

// ZipRight runs e then other, keeping only other's success.
func ZipRight[E, A, B any](e Effect[E, A], other Effect[E, B]) Effect[E, B] {
	return ZipWith(e, other, func(_ A, b B) B { return b })
}

// CatchAll recovers from an expected failure with h; defects and
// interrupts resurface unchanged.
func CatchAll[E, A any](e Effect[E, A], h func(E) Effect[E, A]) Effect[E, A] {
	return Fold(e, func(a A) Effect[E, A] { return Succeed[E, A](a) }, func(c Cause[E]) Effect[E, A] {
		if v, ok := c.FirstFailure(); ok {
			return h(v)
		}
		return FailCauseEffect[E, A](c)
	})
}

// CatchAllCause recovers from the entire cause, including defects and
// interrupts.
func CatchAllCause[E, A any](e Effect[E, A], h func(Cause[E]) Effect[E, A]) Effect[E, A] {
	return Fold(e, func(a A) Effect[E, A] { return Succeed[E, A](a) }, h)
}

// CatchTag recovers only when the failure's dynamic type is T; any
// other failure resurfaces unchanged.
func CatchTag[E, T, A any](e Effect[E, A], h func(T) Effect[E, A]) Effect[E, A] {
	return CatchAll(e, func(err E) Effect[E, A] {
		if t, ok := any(err).(T); ok {
			return h(t)
		}
		return Fail[E, A](err)
	})
}

// MapError rewrites the failure's error value; defects and interrupts
// are fixed points.
func MapError[E, E2, A any](e Effect[E, A], f func(E) E2) Effect[E2, A] {
	return wrap[E2, A](&foldNode{
		child:     e.n,
		onSuccess: func(v any) node { return (&succeedNode{value: v}) },
		onFailure: func(c exitAnyCause) node {
			return FailCauseEffect[E2, A](MapCause(reifyCause[E](c), f)).n
		},
	})
}

// OrElse replaces any expected failure with that; defects and
// interrupts resurface unchanged.
func OrElse[E, A any](e Effect[E, A], that Effect[E, A]) Effect[E, A] {
	return CatchAll(e, func(E) Effect[E, A] { return that })
}

// OrElseSucceed replaces any expected failure with a constant success.
func OrElseSucceed[E, A any](e Effect[E, A], v A) Effect[E, A] {
	return CatchAll(e, func(E) Effect[E, A] { return Succeed[E, A](v) })
}

// coerceToException returns t unchanged if it is already an error,
// otherwise wraps its formatted value in a generic error.
func coerceToException(t any) any {
	if err, ok := t.(error); ok {
		return err
	}
	return fmt.Errorf("effect: %v", t)
}

// OrDie promotes an expected failure to a defect, terminating the
// fiber/run instead of letting catchAll/catchTag observe it.
func OrDie[E, A any](e Effect[E, A]) Effect[E, A] {
	return CatchAll(e, func(err E) Effect[E, A] {
		return Defect[E, A](coerceToException(err))
	})
}

// RefineOrDie keeps the failure if p(err) holds, otherwise promotes it
// to a defect.
func RefineOrDie[E, A any](e Effect[E, A], p func(E) bool) Effect[E, A] {
	return CatchAll(e, func(err E) Effect[E, A] {
		if p(err) {
			return Fail[E, A](err)
		}
		return Defect[E, A](coerceToException(err))
	})
}

// As replaces a successful value with a constant, discarding the
// original.
func As[E, A, B any](e Effect[E, A], v B) Effect[E, B] {
	return Map(e, func(A) B { return v })
}

// AsUnit discards a successful value.
func AsUnit[E, A any](e Effect[E, A]) Effect[E, Unit] {
	return As[E, A, Unit](e, Unit{})
}

// Ensuring runs finalizer exactly once whether e succeeds, fails, or
// the fiber is interrupted while e is running. If e fails and
// finalizer also fails, the two causes compose via Cause.Then (e's
// cause first); if e succeeds and finalizer fails, the finalizer's
// failure surfaces unmasked. See DESIGN.md for the tradeoff against a
// terser formula that would drop the finalizer's cause.
//
// Ensuring bypasses the plain Fold helper and sets foldNode.mask
// directly: the branch it takes must run to completion even after the
// fiber's interrupt flag is observed, which the interpreter enforces
// by driving a masked fold's branch with its own interrupt-blind
// reduction instead of resuming the interruptible outer loop.
func Ensuring[E, A any](e Effect[E, A], finalizer Effect[E, Unit]) Effect[E, A] {
	return wrap[E, A](&foldNode{
		child: e.n,
		mask:  true,
		onSuccess: func(v any) node {
			return FlatMap(finalizer, func(Unit) Effect[E, A] { return Succeed[E, A](v.(A)) }).n
		},
		onFailure: func(ec exitAnyCause) node {
			c := reifyCause[E](ec)
			return Fold(finalizer,
				func(Unit) Effect[E, A] { return FailCauseEffect[E, A](c) },
				func(finalizerCause Cause[E]) Effect[E, A] {
					return FailCauseEffect[E, A](c.Then(finalizerCause))
				},
			).n
		},
	})
}
