// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "errors"

// SyncRuntime is a stack-safe trampoline with no suspension mechanism.
// Async and Never leaves are fatal defects; callers needing either
// must use FiberRuntime instead.
type SyncRuntime struct {
	ctx Context
}

// NewSyncRuntime returns a SyncRuntime with an empty Context.
func NewSyncRuntime() SyncRuntime { return SyncRuntime{} }

// WithContext returns a new SyncRuntime whose Context is overlaid by
// ctx, leaving the receiver untouched.
func (r SyncRuntime) WithContext(ctx Context) SyncRuntime {
	return SyncRuntime{ctx: MergeContext(r.ctx, ctx)}
}

func syncAsyncStep(*asyncNode, Context) exitAny {
	return exitAnyFailure(exitAnyCause{n: &causeNode{
		tag: causeDefect,
		t:   errors.New("effect: async effects not supported in SyncRuntime"),
	}})
}

func syncNeverStep(Context) exitAny {
	return exitAnyFailure(exitAnyCause{n: &causeNode{
		tag: causeDefect,
		t:   errors.New("effect: cannot complete (Never requires FiberRuntime)"),
	}})
}

// RunSyncExitWith runs e to completion under r and returns its Exit.
// Total: never panics for a user-visible failure. Free function
// because Go methods cannot introduce type parameters beyond the
// receiver's.
func RunSyncExitWith[E, A any](r SyncRuntime, e Effect[E, A]) Exit[E, A] {
	res := interpret(e.n, r.ctx, syncAsyncStep, syncAsyncStep, syncNeverStep, nil)
	return toExit[E, A](res)
}

// RunSyncWith runs e to completion under r and returns its value,
// panicking with cause.Squash() on failure.
func RunSyncWith[E, A any](r SyncRuntime, e Effect[E, A]) A {
	return RunSyncExitWith(r, e).GetOrThrow()
}
