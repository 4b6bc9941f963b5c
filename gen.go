// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// genAbortSignal is sent into a generator's toGen channel to unwind it
// when a yielded effect fails; Yield turns it into a panic caught by
// the generator goroutine's own recover, so the goroutine exits
// quietly instead of leaking.
type genAbortSignal struct{}

// genMsg is what the generator goroutine reports back to the driver:
// either a yielded effect to run, a final return value, or a panic
// that escaped the generator body (reported as a Defect).
type genMsg[E any] struct {
	isDone    bool
	doneValue any
	hasPanic  bool
	panicVal  any
	yieldNode node
}

// GenScope is the handle a generator body uses to yield effects. It
// pairs an unbuffered channel (the body blocks on it for the yielded
// effect's result) with a buffered one (the body's reports to the
// driver never need a ready receiver).
type GenScope[E any] struct {
	toGen   chan any
	fromGen chan genMsg[E]
}

// Yield suspends the generator body until e completes, returning its
// success value. A free function, not a method, because it introduces
// a type parameter (A) the scope itself is not parameterised by.
func Yield[E, A any](scope *GenScope[E], e Effect[E, A]) A {
	scope.fromGen <- genMsg[E]{yieldNode: e.n}
	v := <-scope.toGen
	if _, aborted := v.(genAbortSignal); aborted {
		panic(genAbortSignal{})
	}
	return v.(A)
}

// Gen turns a generator-style body into a single effect: the current
// yielded effect is evaluated; on success its value is sent back into
// the body and the next yielded effect is awaited; when the body
// returns, the overall effect succeeds with that value. Failure of any
// yielded effect short-circuits — the body is not resumed.
func Gen[E, R any](body func(*GenScope[E]) R) Effect[E, R] {
	return SuspendEffect(func() Effect[E, R] {
		scope := &GenScope[E]{
			toGen:   make(chan any),
			fromGen: make(chan genMsg[E], 1),
		}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					if _, aborted := r.(genAbortSignal); aborted {
						return
					}
					scope.fromGen <- genMsg[E]{isDone: true, hasPanic: true, panicVal: r}
				}
			}()
			result := body(scope)
			scope.fromGen <- genMsg[E]{isDone: true, doneValue: result}
		}()
		return driveGen[E, R](scope)
	})
}

func driveGen[E, R any](scope *GenScope[E]) Effect[E, R] {
	return FlatMap(receiveGenMsg[E](scope), func(msg genMsg[E]) Effect[E, R] {
		if msg.hasPanic {
			return Defect[E, R](msg.panicVal)
		}
		if msg.isDone {
			var zero R
			if msg.doneValue != nil {
				zero = msg.doneValue.(R)
			}
			return Succeed[E, R](zero)
		}
		yielded := Effect[E, any]{n: msg.yieldNode}
		return Fold(yielded,
			func(v any) Effect[E, R] {
				return SuspendEffect(func() Effect[E, R] {
					scope.toGen <- v
					return driveGen[E, R](scope)
				})
			},
			func(c Cause[E]) Effect[E, R] {
				scope.toGen <- genAbortSignal{}
				return FailCauseEffect[E, R](c)
			},
		)
	})
}

// receiveGenMsg routes the blocking channel read through AsyncEffect so
// a fiber interrupt can still abort a stuck generator: the async leaf's
// select races the read against the fiber's interrupt channel.
func receiveGenMsg[E any](scope *GenScope[E]) Effect[E, genMsg[E]] {
	return AsyncEffect[E, genMsg[E]](func(complete func(Exit[E, genMsg[E]])) {
		go func() {
			msg := <-scope.fromGen
			complete(Success[E, genMsg[E]](msg))
		}()
	})
}
