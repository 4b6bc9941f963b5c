// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sync"
	"sync/atomic"
)

// FiberContext is the per-fiber state consulted at every interpreter
// step: the fiber's id, an interruption flag, and the channel used to
// wake a parked Async/Never leaf. Finalizer ordering is not tracked as
// a separate list: Ensuring/Bracket compile to a masked fold, and the
// interpreter's own continuation stack drives each fiber's finalizers
// LIFO and exactly once, running them via asyncStepUninterruptible so
// a pending interrupt cannot preempt one mid-flight.
type FiberContext struct {
	id          FiberId
	interrupted atomic.Bool
	interruptCh chan struct{}
	once        sync.Once
}

func newFiberContext() *FiberContext {
	return &FiberContext{id: NewFiberId(), interruptCh: make(chan struct{})}
}

// ID returns the fiber's identity.
func (fc *FiberContext) ID() FiberId { return fc.id }

// Interrupt sets the one-way sticky interruption flag. Idempotent.
func (fc *FiberContext) Interrupt() {
	fc.once.Do(func() {
		fc.interrupted.Store(true)
		close(fc.interruptCh)
	})
}

func (fc *FiberContext) checkInterrupt() (exitAny, bool) {
	if !fc.interrupted.Load() {
		return exitAny{}, false
	}
	return exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeInterrupt, id: fc.id}}), true
}

func (fc *FiberContext) asyncStep(n *asyncNode, ctx Context) exitAny {
	resultCh := make(chan exitAny, 1)
	var fired atomic.Bool
	n.register(func(e exitAny) {
		if fired.CompareAndSwap(false, true) {
			resultCh <- e
		}
	})
	select {
	case e := <-resultCh:
		return e
	default:
	}
	for {
		select {
		case e := <-resultCh:
			return e
		case <-fc.interruptCh:
			return exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeInterrupt, id: fc.id}})
		}
	}
}

// asyncStepUninterruptible resolves an asyncNode leaf like asyncStep
// but never races the fiber's interrupt channel: it is used only while
// driving a masked fold's finalizer, so an async finalizer waits for
// its real completion instead of being reported as interrupted before
// its callback ever fires.
func (fc *FiberContext) asyncStepUninterruptible(n *asyncNode, ctx Context) exitAny {
	resultCh := make(chan exitAny, 1)
	var fired atomic.Bool
	n.register(func(e exitAny) {
		if fired.CompareAndSwap(false, true) {
			resultCh <- e
		}
	})
	return <-resultCh
}

func (fc *FiberContext) neverStep(ctx Context) exitAny {
	<-fc.interruptCh
	return exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeInterrupt, id: fc.id}})
}

// fiberRegistry lets a supervising effect or test cancel a fiber it did
// not itself spawn, given only its FiberId — the natural complement to
// RunCallback's returned id.
var fiberRegistry sync.Map // FiberId -> *FiberContext

// Interrupt cancels a running fiber by id. Reports whether a fiber was
// found registered under id; cooperative cancellation is always
// eventually honoured once found, per FiberContext.Interrupt.
func Interrupt(id FiberId) bool {
	v, ok := fiberRegistry.Load(id)
	if !ok {
		return false
	}
	v.(*FiberContext).Interrupt()
	return true
}

// Deferred is a single-assignment cell holding an eventual Exit, plus a
// list of pending completion callbacks. The first Complete wins;
// later ones are ignored. Callbacks attached before completion fire in
// registration order at completion; those attached after fire
// immediately.
type Deferred[E, A any] struct {
	mu        sync.Mutex
	done      bool
	exit      Exit[E, A]
	callbacks []func(Exit[E, A])
}

// NewDeferred returns an empty Deferred.
func NewDeferred[E, A any]() *Deferred[E, A] { return &Deferred[E, A]{} }

// Complete assigns the cell's value. Ignored if already completed.
func (d *Deferred[E, A]) Complete(exit Exit[E, A]) {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return
	}
	d.done = true
	d.exit = exit
	cbs := d.callbacks
	d.callbacks = nil
	d.mu.Unlock()
	for _, cb := range cbs {
		cb(exit)
	}
}

// OnComplete registers cb to run once the cell is assigned.
func (d *Deferred[E, A]) OnComplete(cb func(Exit[E, A])) {
	d.mu.Lock()
	if d.done {
		exit := d.exit
		d.mu.Unlock()
		cb(exit)
		return
	}
	d.callbacks = append(d.callbacks, cb)
	d.mu.Unlock()
}

// Await blocks the calling goroutine until the cell is assigned.
func (d *Deferred[E, A]) Await() Exit[E, A] {
	ch := make(chan Exit[E, A], 1)
	d.OnComplete(func(e Exit[E, A]) { ch <- e })
	return <-ch
}

// FiberRuntime is a cooperative interpreter: one fiber runs a chain of
// reductions to completion, suspending only at Async and Never leaves,
// backed by a goroutine per fiber and channels as the suspension
// primitive.
type FiberRuntime struct {
	ctx Context
}

// NewFiberRuntime returns a FiberRuntime with an empty Context.
func NewFiberRuntime() FiberRuntime { return FiberRuntime{} }

// WithContext returns a new FiberRuntime whose Context is overlaid by
// ctx, leaving the receiver untouched.
func (r FiberRuntime) WithContext(ctx Context) FiberRuntime {
	return FiberRuntime{ctx: MergeContext(r.ctx, ctx)}
}

func runFiber[E, A any](r FiberRuntime, e Effect[E, A]) (FiberId, *Deferred[E, A]) {
	fc := newFiberContext()
	fiberRegistry.Store(fc.id, fc)
	d := NewDeferred[E, A]()
	go func() {
		defer fiberRegistry.Delete(fc.id)
		res := interpret(e.n, r.ctx, fc.asyncStep, fc.asyncStepUninterruptible, fc.neverStep, fc.checkInterrupt)
		d.Complete(toExit[E, A](res))
	}()
	return fc.id, d
}

// RunSync starts e as a fiber, blocks until it terminates, and returns
// its value, panicking with cause.Squash() on failure. Free function
// because Go methods cannot introduce type parameters beyond the
// receiver's.
func RunSync[E, A any](r FiberRuntime, e Effect[E, A]) A {
	return RunSyncExit(r, e).GetOrThrow()
}

// RunSyncExit starts e as a fiber, blocks until it terminates, and
// returns its Exit.
func RunSyncExit[E, A any](r FiberRuntime, e Effect[E, A]) Exit[E, A] {
	_, d := runFiber(r, e)
	return d.Await()
}

// RunCallback starts e as a fiber and returns its id immediately; cb is
// invoked with the Exit once the fiber terminates.
func RunCallback[E, A any](r FiberRuntime, e Effect[E, A], cb func(Exit[E, A])) FiberId {
	id, d := runFiber(r, e)
	d.OnComplete(cb)
	return id
}

// RunDeferred starts e as a fiber and returns a Deferred that will hold
// its Exit once the fiber terminates.
func RunDeferred[E, A any](r FiberRuntime, e Effect[E, A]) *Deferred[E, A] {
	_, d := runFiber(r, e)
	return d
}
