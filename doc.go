// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides an algebraic effects runtime for Go.
//
// Programs are built by composing immutable [Effect] values — a closed
// algebra of operation nodes — and later run by an interpreter that
// walks the tree, evaluates side effects, and produces an [Exit].
//
// # Design Philosophy
//
// The package is organized around three ideas:
//
//   - A closed, immutable effect algebra ([Effect]) instead of open,
//     handler-dispatched operations: every node kind is known ahead of
//     time, so the interpreters are exhaustive type switches rather than
//     dynamic dispatch tables.
//   - A lossless failure model ([Cause]) that distinguishes expected
//     failures, unexpected defects, and cooperative interruption, and
//     composes them as a semiring instead of collapsing them into a
//     single error value.
//   - Two interpreters sharing one reduction engine: a synchronous
//     trampoline with no suspension, and a cooperative fiber interpreter
//     that suspends on async and never-completing leaves.
//
// # Effect Algebra
//
// [Effect] is parameterised by an error channel E and a success channel
// A. Because Go methods cannot introduce type parameters beyond their
// receiver's, most combinators are free functions taking the effect as
// their first argument — [Map], [FlatMap], [Fold], [CatchAll],
// [MapError], and so on — mirroring how continuation libraries expose
// Bind/Map as functions rather than methods.
//
// Smart constructors: [Succeed], [Fail], [FailCauseEffect], [Defect],
// [Sync], [TrySync], [AsyncEffect], [SuspendEffect], [Never],
// [InterruptEffect], [Access], [GetService], [Service], [Provide].
//
// # Cause and Exit
//
// [Cause] is a semiring of failure reasons — empty, fail, defect,
// interrupt, sequential, parallel — with [Cause.Then] and [Cause.Both]
// as its two associative compositions. [Exit] is the terminal result of
// a run: success or failure, with [MatchExit], [MapExit], [FlatMapExit],
// and [MapErrorExit].
//
// # Context and Tag
//
// [Context] is an immutable, type-indexed service map. [Tag] names a
// service slot; [NewTag] creates a stable named tag, [NewUniqueTag] a
// generated one. [Access]/[Provide] read and overlay the environment.
//
// # Interpreters
//
//   - [SyncRuntime] / [RunSyncExitWith] / [RunSyncWith]: a stack-safe
//     trampoline with no suspension. Async and Never are fatal defects.
//   - [FiberRuntime] / [RunSync] / [RunSyncExit] / [RunCallback] /
//     [RunDeferred]: a cooperative interpreter backed by a goroutine per
//     fiber and channels as the suspension primitive. Fibers started
//     concurrently are not serialized against one another.
//     [Interrupt] cancels a fiber cooperatively by id.
//
// # Derived Combinators
//
// [All] / [Seq] / [Traverse] / [FirstSuccess] / [Tuple2] / [Tuple3] for
// collection; [Retry] / [RetryN] / [RetryUntil] for backoff policies;
// [Delay] / [Sleep] / [Timed] / [Timeout] / [RepeatN] / [Forever] for
// timing; [Bracket] / [Bracket2] / [Ensuring] for resource safety; [Gen]
// for generator-style do-notation over a goroutine-backed coroutine.
package effect
