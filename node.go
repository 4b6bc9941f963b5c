// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"errors"
	"fmt"
)

// maxIterations bounds each interpret call (a top-level run, or the
// nested reduction of one masked fold's branch) against runaway user
// recursion (e.g. an unguarded Forever). Every node visited counts as
// one step, so an All of 100,000 effects, about three steps per
// element, stays within it.
const maxIterations = 1000000

// node is the closed, type-erased representation shared by every
// Effect[E, A] instantiation. Concrete node kinds carry only the data
// needed for their own reduction; success/error payloads are boxed as
// any and recovered by assertion at the Effect[E, A] boundary.
type node interface {
	isNode()
}

type succeedNode struct{ value any }
type failNode struct{ err any }
type defectNode struct{ t any }
type syncNode struct{ thunk func() any }
type trySyncNode struct {
	thunk func() any
	catch func(any) any // nil means "raised value becomes the fail payload"
}
type asyncNode struct {
	register func(func(exitAny)) // callback consumes a type-erased exit
}
type suspendNode struct{ thunk func() node }
type neverNode struct{}
type interruptNode struct{}
type mapNode struct {
	child node
	f     func(any) any
}
type flatMapNode struct {
	child node
	k     func(any) node
}
type foldNode struct {
	child     node
	onSuccess func(any) node
	onFailure func(exitAnyCause) node
	// mask marks a foldNode produced by Ensuring: the branch it takes
	// must run to completion even if the fiber's interrupt flag is
	// already set, so the interpreter drives it with a nested,
	// interrupt-blind reduction instead of resuming the interruptible
	// outer loop.
	mask bool
}
type accessNode struct {
	key string
	f   func(any) any
}
type provideNode struct {
	child node
	ctx   Context
}

func (*succeedNode) isNode()  {}
func (*failNode) isNode()     {}
func (*defectNode) isNode()   {}
func (*syncNode) isNode()     {}
func (*trySyncNode) isNode()  {}
func (*asyncNode) isNode()    {}
func (*suspendNode) isNode()  {}
func (*neverNode) isNode()    {}
func (*interruptNode) isNode() {}
func (*mapNode) isNode()      {}
func (*flatMapNode) isNode()  {}
func (*foldNode) isNode()     {}
func (*accessNode) isNode()   {}
func (*provideNode) isNode()  {}

// exitAnyCause is the type-erased Cause carried inside the interpreter;
// it boxes whatever E the caller's Cause[E] used, recovered at the
// Effect[E, A] boundary via reifyCause.
type exitAnyCause struct {
	n *causeNode
}

func (c exitAnyCause) isEmpty() bool { return c.n == nil }

// exitAny is the type-erased Exit carried inside the interpreter.
type exitAny struct {
	ok    bool
	value any
	cause exitAnyCause
}

func exitAnySuccess(v any) exitAny { return exitAny{ok: true, value: v} }
func exitAnyFailure(c exitAnyCause) exitAny { return exitAny{cause: c} }

// Effect is an immutable description of a computation that, when run,
// may require services from a Context, may fail with an E or an
// unexpected defect, and may produce an A.
type Effect[E, A any] struct {
	n node
}

func wrap[E, A any](n node) Effect[E, A] { return Effect[E, A]{n: n} }

// eraseCause converts a typed Cause[E] into the interpreter's internal
// representation. The underlying tree is untouched: E leaves stay
// boxed as any inside causeNode, exactly as Cause[E] already stores
// them.
func eraseCause[E any](c Cause[E]) exitAnyCause { return exitAnyCause{n: c.n} }

func reifyCause[E any](c exitAnyCause) Cause[E] { return Cause[E]{n: c.n} }

func toExit[E, A any](e exitAny) Exit[E, A] {
	if e.ok {
		var v A
		if e.value != nil {
			v = e.value.(A)
		}
		return Success[E, A](v)
	}
	return Failure[E, A](reifyCause[E](e.cause))
}

// --- smart constructors -----------------------------------------------

// Succeed builds a constant successful effect.
func Succeed[E, A any](a A) Effect[E, A] {
	return wrap[E, A](&succeedNode{value: a})
}

// UnitEffect is Succeed of the empty struct.
func UnitEffect[E any]() Effect[E, Unit] {
	return Succeed[E, Unit](Unit{})
}

// Fail builds a constant expected-failure effect.
func Fail[E, A any](e E) Effect[E, A] {
	return wrap[E, A](&failNode{err: e})
}

// FailCauseEffect lifts an arbitrary cause into an effect. An empty
// cause becomes a defect naming the bug; a cause containing a defect
// becomes a defect of its first defect; otherwise one containing a
// failure becomes a Fail of its first failure; anything else is
// squashed into a defect. Only that one leaf is kept: the cause's other
// leaves and its Then/Both structure are not carried over.
func FailCauseEffect[E, A any](c Cause[E]) Effect[E, A] {
	if c.IsEmpty() {
		return Defect[E, A](errors.New("effect: empty cause"))
	}
	if t, ok := c.FirstDefect(); ok {
		return Defect[E, A](t)
	}
	if e, ok := c.FirstFailure(); ok {
		return Fail[E, A](e)
	}
	return Defect[E, A](c.Squash())
}

// Defect builds a constant unexpected-failure effect carrying a host
// exception value.
func Defect[E, A any](t any) Effect[E, A] {
	return wrap[E, A](&defectNode{t: t})
}

// Sync lifts a zero-argument side-effecting function: its return value
// is the success; a panic inside thunk becomes a Defect.
func Sync[E, A any](thunk func() A) Effect[E, A] {
	return wrap[E, A](&syncNode{thunk: func() any { return thunk() }})
}

// TrySync is like Sync but a panic inside thunk is routed through the
// optional catch mapper to produce a typed Fail; with no catch, the
// panic value itself becomes the Fail payload, preserved verbatim.
func TrySync[E, A any](thunk func() A, catch func(any) E) Effect[E, A] {
	n := &trySyncNode{thunk: func() any { return thunk() }}
	if catch != nil {
		n.catch = func(v any) any { return catch(v) }
	}
	return wrap[E, A](n)
}

// AsyncEffect builds a suspendable leaf: register receives a one-shot
// callback that must eventually be invoked exactly once with the
// effect's Exit. Additional invocations are silently ignored.
func AsyncEffect[E, A any](register func(complete func(Exit[E, A]))) Effect[E, A] {
	return wrap[E, A](&asyncNode{
		register: func(cb func(exitAny)) {
			register(func(exit Exit[E, A]) {
				if exit.ok {
					cb(exitAnySuccess(exit.value))
				} else {
					cb(exitAnyFailure(eraseCause(exit.cause)))
				}
			})
		},
	})
}

// SuspendEffect lazily produces another effect, evaluated only when the
// interpreter reaches it. Useful for deferring recursive construction
// (see Forever) and for delaying side effects like goroutine spawns.
func SuspendEffect[E, A any](thunk func() Effect[E, A]) Effect[E, A] {
	return wrap[E, A](&suspendNode{thunk: func() node { return thunk().n }})
}

// Never is an effect that never completes; only fiber interruption
// releases it. Under SyncRuntime it is a fatal defect.
func Never[E, A any]() Effect[E, A] {
	return wrap[E, A](&neverNode{})
}

// InterruptEffect produces an immediate interruption failure. The
// interrupt leaf carries the zero FiberId, not the running fiber's id.
func InterruptEffect[E, A any]() Effect[E, A] {
	return wrap[E, A](&interruptNode{})
}

// Access reads the service bound to tag and projects it with f.
func Access[E, T, A any](tag Tag[T], f func(T) A) Effect[E, A] {
	return wrap[E, A](&accessNode{
		key: tag.key,
		f:   func(v any) any { return f(v.(T)) },
	})
}

// GetService reads the service bound to tag unchanged.
func GetService[E, T any](tag Tag[T]) Effect[E, T] {
	return Access[E, T, T](tag, func(t T) T { return t })
}

// Service is an alias for Access under its external-interface name.
func Service[E, T, A any](tag Tag[T], f func(T) A) Effect[E, A] {
	return Access[E, T, A](tag, f)
}

// Provide runs child with its context overlaid by ctx.
func Provide[E, A any](child Effect[E, A], ctx Context) Effect[E, A] {
	return wrap[E, A](&provideNode{child: child.n, ctx: ctx})
}

// ProvideService is Provide with a single-service context built inline.
func ProvideService[E, T, A any](child Effect[E, A], tag Tag[T], svc T) Effect[E, A] {
	return Provide(child, AddService(Context{}, tag, svc))
}

// Unit is the effect success/error payload analogue of void.
type Unit = struct{}

// --- shared interpreter engine -----------------------------------------

type frameKind int8

const (
	frameMap frameKind = iota
	frameFlatMap
	frameFold
)

type frame struct {
	kind      frameKind
	mapFn     func(any) any
	flatMapFn func(any) node
	onSuccess func(any) node
	onFailure func(exitAnyCause) node
	ctx       Context
	mask      bool
}

// asyncStepFn resolves an asyncNode leaf to an exitAny: the fiber
// interpreter blocks until the callback fires (or the fiber is
// interrupted), the sync interpreter returns a defect exit at once.
type asyncStepFn func(n *asyncNode, ctx Context) exitAny

// neverStepFn resolves a neverNode leaf.
type neverStepFn func(ctx Context) exitAny

// interruptCheckFn lets the fiber interpreter short-circuit a step in
// place of evaluating the current leaf, without discarding the pending
// continuation stack — necessary so Ensuring/Bracket finalizers still
// run on interruption.
type interruptCheckFn func() (exitAny, bool)

// interpret is the trampoline shared by SyncRuntime and FiberRuntime.
// It never recurses for IR depth: continuation stack depth is bounded
// only by heap, not by the host call stack. It does recurse once per
// masked fold it unwinds through (Ensuring/Bracket finalizers), a depth
// bounded by program nesting rather than by the size of the effect
// being reduced.
//
// uninterruptibleAsyncStep resolves an asyncNode leaf the same way
// asyncStep does but must not itself race the fiber's interrupt
// channel: it is used only while driving a masked fold's finalizer, so
// that an async finalizer still waits for its real completion instead
// of being reported as interrupted early.
func interpret(cur node, ctx Context, asyncStep, uninterruptibleAsyncStep asyncStepFn, neverStep neverStepFn, checkInterrupt interruptCheckFn) exitAny {
	var stack []frame
	iterations := 0

outer:
	for {
		iterations++
		if iterations > maxIterations {
			return exitAnyFailure(exitAnyCause{n: &causeNode{
				tag: causeDefect,
				t:   errors.New("effect: maximum iterations exceeded — possible infinite loop"),
			}})
		}

		var res exitAny
		if checkInterrupt != nil {
			if r, interrupted := checkInterrupt(); interrupted {
				res = r
				goto unwind
			}
		}

		switch n := cur.(type) {
		case *succeedNode:
			res = exitAnySuccess(n.value)
		case *failNode:
			res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeFail, err: n.err}})
		case *defectNode:
			res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeDefect, t: n.t}})
		case *interruptNode:
			res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeInterrupt}})
		case *syncNode:
			res = evalSync(n.thunk)
		case *trySyncNode:
			res = evalTrySync(n)
		case *accessNode:
			v, ok := ctx.lookup(n.key)
			if !ok {
				res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeDefect, t: &ServiceNotFoundError{TagKey: n.key}}})
			} else {
				res = evalSync(func() any { return n.f(v) })
			}
		case *provideNode:
			ctx = MergeContext(ctx, n.ctx)
			cur = n.child
			continue outer
		case *suspendNode:
			cur = n.thunk()
			continue outer
		case *asyncNode:
			res = asyncStep(n, ctx)
		case *neverNode:
			res = neverStep(ctx)
		case *mapNode:
			stack = append(stack, frame{kind: frameMap, mapFn: n.f})
			cur = n.child
			continue outer
		case *flatMapNode:
			stack = append(stack, frame{kind: frameFlatMap, flatMapFn: n.k, ctx: ctx})
			cur = n.child
			continue outer
		case *foldNode:
			stack = append(stack, frame{kind: frameFold, onSuccess: n.onSuccess, onFailure: n.onFailure, ctx: ctx, mask: n.mask})
			cur = n.child
			continue outer
		default:
			res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeDefect, t: fmt.Errorf("effect: unknown node type %T", cur)}})
		}

	unwind:
		for {
			if len(stack) == 0 {
				return res
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch top.kind {
			case frameMap:
				if res.ok {
					res = evalSync(func() any { return top.mapFn(res.value) })
					continue
				}
				continue
			case frameFlatMap:
				if res.ok {
					ctx = top.ctx
					cur = top.flatMapFn(res.value)
					continue outer
				}
				continue
			case frameFold:
				ctx = top.ctx
				var next node
				if res.ok {
					next = top.onSuccess(res.value)
				} else {
					next = top.onFailure(res.cause)
				}
				if top.mask {
					// Ensuring's finalizer branch must run to
					// completion even though the interrupt flag may
					// already be set; drive it with its own
					// interrupt-blind reduction rather than resuming
					// the interruptible outer loop, so a pending
					// interrupt can never preempt it mid-flight.
					res = interpret(next, ctx, uninterruptibleAsyncStep, uninterruptibleAsyncStep, neverStep, nil)
					continue
				}
				cur = next
				continue outer
			}
		}
	}
}

func evalSync(thunk func() any) (res exitAny) {
	defer func() {
		if r := recover(); r != nil {
			res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeDefect, t: r}})
		}
	}()
	return exitAnySuccess(thunk())
}

func evalTrySync(n *trySyncNode) (res exitAny) {
	defer func() {
		if r := recover(); r != nil {
			if n.catch != nil {
				res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeFail, err: n.catch(r)}})
			} else {
				res = exitAnyFailure(exitAnyCause{n: &causeNode{tag: causeFail, err: r}})
			}
		}
	}()
	return exitAnySuccess(n.thunk())
}
