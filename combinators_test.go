// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"code.hybscloud.com/effect"
)

func TestTapRunsSideEffectAndPassesValue(t *testing.T) {
	r := effect.NewSyncRuntime()
	seen := 0
	e := effect.Tap(effect.Succeed[string, int](5), func(n int) { seen = n })
	if got := effect.RunSyncWith(r, e); got != 5 || seen != 5 {
		t.Fatalf("got %d seen %d", got, seen)
	}
}

func TestZipPairsResults(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.Zip(effect.Succeed[string, int](1), effect.Succeed[string, string]("a"))
	got := effect.RunSyncWith(r, e)
	if got.First != 1 || got.Second != "a" {
		t.Fatalf("got %+v", got)
	}
}

func TestZipLeftRight(t *testing.T) {
	r := effect.NewSyncRuntime()
	left := effect.ZipLeft(effect.Succeed[string, int](1), effect.Succeed[string, int](2))
	right := effect.ZipRight(effect.Succeed[string, int](1), effect.Succeed[string, int](2))
	if effect.RunSyncWith(r, left) != 1 {
		t.Fatalf("zipLeft should keep first")
	}
	if effect.RunSyncWith(r, right) != 2 {
		t.Fatalf("zipRight should keep second")
	}
}

func TestCatchTagOnlyRecoversMatchingType(t *testing.T) {
	r := effect.NewSyncRuntime()
	type notFound struct{ key string }
	e := effect.CatchTag[any, notFound](effect.Fail[any, int](notFound{key: "k"}), func(nf notFound) effect.Effect[any, int] {
		return effect.Succeed[any, int](42)
	})
	if got := effect.RunSyncWith(r, e); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}

	e2 := effect.CatchTag[any, notFound](effect.Fail[any, int]("other"), func(nf notFound) effect.Effect[any, int] {
		return effect.Succeed[any, int](42)
	})
	exit := effect.RunSyncExitWith(r, e2)
	if exit.IsSuccess() {
		t.Fatalf("catchTag must not recover a non-matching fail value")
	}
}

func TestMapErrorRewritesFailLeavesOnly(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.MapError(effect.Fail[string, int]("boom"), func(s string) int { return len(s) })
	exit := effect.RunSyncExitWith(r, e)
	if f, ok := exit.Cause().FirstFailure(); !ok || f != 4 {
		t.Fatalf("got %v ok=%v", f, ok)
	}
}

func TestOrDiePromotesFailureToDefect(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.OrDie(effect.Fail[string, int]("boom"))
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("expected failure")
	}
	if _, ok := exit.Cause().FirstDefect(); !ok {
		t.Fatalf("orDie should promote to a defect")
	}
}

func TestRefineOrDieKeepsMatchingFailures(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.RefineOrDie(effect.Fail[string, int]("retryable"), func(s string) bool { return s == "retryable" })
	exit := effect.RunSyncExitWith(r, e)
	if f, ok := exit.Cause().FirstFailure(); !ok || f != "retryable" {
		t.Fatalf("expected fail to survive, got %v ok=%v", f, ok)
	}
}

func TestEnsuringRunsFinalizerOnceOnSuccess(t *testing.T) {
	r := effect.NewSyncRuntime()
	runs := 0
	finalizer := effect.Sync[string](func() effect.Unit { runs++; return effect.Unit{} })
	e := effect.Ensuring(effect.Succeed[string, int](1), finalizer)
	if got := effect.RunSyncWith(r, e); got != 1 || runs != 1 {
		t.Fatalf("got %d runs %d", got, runs)
	}
}

func TestEnsuringRunsFinalizerOnceOnFailure(t *testing.T) {
	r := effect.NewSyncRuntime()
	runs := 0
	finalizer := effect.Sync[string](func() effect.Unit { runs++; return effect.Unit{} })
	e := effect.Ensuring(effect.Fail[string, int]("boom"), finalizer)
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() || runs != 1 {
		t.Fatalf("expected failure preserved and finalizer run once, runs=%d", runs)
	}
	if f, ok := exit.Cause().FirstFailure(); !ok || f != "boom" {
		t.Fatalf("expected original failure to surface, got %v ok=%v", f, ok)
	}
}

func TestEnsuringComposesFinalizerFailureWithOriginal(t *testing.T) {
	r := effect.NewSyncRuntime()
	finalizer := effect.Fail[string, effect.Unit]("finalizer-failed")
	e := effect.Ensuring(effect.Fail[string, int]("boom"), finalizer)
	exit := effect.RunSyncExitWith(r, e)
	got := exit.Cause().Failures()
	if len(got) != 2 || got[0] != "boom" || got[1] != "finalizer-failed" {
		t.Fatalf("expected composed [boom finalizer-failed], got %v", got)
	}
}

func TestEnsuringFinalizerFailureSurfacesOnSuccess(t *testing.T) {
	r := effect.NewSyncRuntime()
	finalizer := effect.Fail[string, effect.Unit]("finalizer-failed")
	e := effect.Ensuring(effect.Succeed[string, int](1), finalizer)
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("finalizer failure must surface even though the guarded effect succeeded")
	}
	if f, ok := exit.Cause().FirstFailure(); !ok || f != "finalizer-failed" {
		t.Fatalf("got %v ok=%v", f, ok)
	}
}
