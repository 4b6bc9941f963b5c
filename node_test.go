// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"code.hybscloud.com/effect"
)

// seed test 1: succeed(5).map(n -> n*2).runSync ≡ 10
func TestSeedMapDoubles(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.Map(effect.Succeed[string, int](5), func(n int) int { return n * 2 })
	if got := effect.RunSyncWith(r, e); got != 10 {
		t.Fatalf("got %d, want 10", got)
	}
}

// seed test 2: succeed(1).flatMap(a -> succeed(a+3)).runSync ≡ 4
func TestSeedFlatMapAdds(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.FlatMap(effect.Succeed[string, int](1), func(a int) effect.Effect[string, int] {
		return effect.Succeed[string, int](a + 3)
	})
	if got := effect.RunSyncWith(r, e); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

// seed test 3: fail("boom").catchAll(_ -> succeed("ok")).runSync ≡ "ok"
func TestSeedCatchAllRecovers(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.CatchAll(effect.Fail[string, string]("boom"), func(string) effect.Effect[string, string] {
		return effect.Succeed[string, string]("ok")
	})
	if got := effect.RunSyncWith(r, e); got != "ok" {
		t.Fatalf("got %q, want ok", got)
	}
}

// seed test 4: trySync with no catch surfaces the raised value as Fail.
func TestSeedTrySyncNoCatchSurfacesRawValue(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.TrySync[string, int](func() int {
		panic("x")
	}, nil)
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("expected failure")
	}
	failErr, ok := exit.Cause().FirstFailure()
	if !ok || failErr != "x" {
		t.Fatalf("expected fail payload \"x\", got %v ok=%v", failErr, ok)
	}
}

type cfgService struct{ value string }

// seed test 5: service lookup via Access/GetService.
func TestSeedGetServiceReadsContext(t *testing.T) {
	tag := effect.NewTag[cfgService]("CFG")
	r := effect.NewSyncRuntime().WithContext(effect.AddService(effect.Context{}, tag, cfgService{value: "hello"}))
	e := effect.Map(effect.GetService[string](tag), func(c cfgService) string { return c.value })
	if got := effect.RunSyncWith(r, e); got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
}

func TestAccessMissingServiceIsDefectNotFail(t *testing.T) {
	r := effect.NewSyncRuntime()
	tag := effect.NewTag[cfgService]("MISSING")
	e := effect.GetService[string](tag)
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("expected failure")
	}
	if _, ok := exit.Cause().FirstFailure(); ok {
		t.Fatalf("missing service must be a defect, not a fail")
	}
	if _, ok := exit.Cause().FirstDefect(); !ok {
		t.Fatalf("expected a defect")
	}
}

func TestAsyncIsFatalDefectUnderSyncRuntime(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.AsyncEffect[string, int](func(complete func(effect.Exit[string, int])) {
		complete(effect.Success[string, int](1))
	})
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("expected SyncRuntime to reject Async")
	}
	if _, ok := exit.Cause().FirstDefect(); !ok {
		t.Fatalf("expected a defect")
	}
}

func TestIterationCapSurfacesDefect(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.Forever[string](effect.Succeed[string, int](1))
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("expected Forever to hit the iteration cap")
	}
	if _, ok := exit.Cause().FirstDefect(); !ok {
		t.Fatalf("expected iteration cap to be a defect")
	}
}

func TestProvideOverlaysContext(t *testing.T) {
	tag := effect.NewTag[int]("N")
	r := effect.NewSyncRuntime()
	inner := effect.GetService[string](tag)
	e := effect.Provide(inner, effect.AddService(effect.Context{}, tag, 42))
	if got := effect.RunSyncWith(r, e); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

// --- Monad law properties ---

func TestPropertySucceedMapAppliesFunction(t *testing.T) {
	r := effect.NewSyncRuntime()
	for _, a := range []int{-3, 0, 1, 7, 100} {
		e := effect.Map(effect.Succeed[string, int](a), func(n int) int { return n + 1 })
		got := effect.RunSyncWith(r, e)
		if got != a+1 {
			t.Fatalf("map law: got %d want %d (a=%d)", got, a+1, a)
		}
	}
}

func TestPropertyFlatMapLeftIdentity(t *testing.T) {
	r := effect.NewSyncRuntime()
	k := func(x int) effect.Effect[string, int] { return effect.Succeed[string, int](x * 3) }
	for _, a := range []int{-5, 0, 2, 9} {
		left := effect.RunSyncWith(r, effect.FlatMap(effect.Succeed[string, int](a), k))
		right := effect.RunSyncWith(r, k(a))
		if left != right {
			t.Fatalf("left identity: %d != %d (a=%d)", left, right, a)
		}
	}
}

func TestPropertyFlatMapRightIdentity(t *testing.T) {
	r := effect.NewSyncRuntime()
	for _, a := range []int{-5, 0, 2, 9} {
		m := effect.Succeed[string, int](a)
		left := effect.RunSyncWith(r, effect.FlatMap(m, func(x int) effect.Effect[string, int] {
			return effect.Succeed[string, int](x)
		}))
		right := effect.RunSyncWith(r, m)
		if left != right {
			t.Fatalf("right identity: %d != %d (a=%d)", left, right, a)
		}
	}
}

func TestPropertyFlatMapAssociativity(t *testing.T) {
	r := effect.NewSyncRuntime()
	f := func(x int) effect.Effect[string, int] { return effect.Succeed[string, int](x + 3) }
	g := func(x int) effect.Effect[string, int] { return effect.Succeed[string, int](x * 2) }
	for _, a := range []int{-5, 0, 2, 9} {
		m := effect.Succeed[string, int](a)
		left := effect.RunSyncWith(r, effect.FlatMap(effect.FlatMap(m, f), g))
		right := effect.RunSyncWith(r, effect.FlatMap(m, func(x int) effect.Effect[string, int] {
			return effect.FlatMap(f(x), g)
		}))
		if left != right {
			t.Fatalf("associativity: %d != %d (a=%d)", left, right, a)
		}
	}
}

func TestPropertyFailureSkipsMapAndFlatMap(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.Fail[string, int]("boom")
	mapped := effect.Map(e, func(n int) int { return n + 1 })
	flatMapped := effect.FlatMap(e, func(n int) effect.Effect[string, int] { return effect.Succeed[string, int](n + 1) })
	if effect.RunSyncExitWith(r, mapped).IsSuccess() {
		t.Fatalf("map should not run on failure")
	}
	if effect.RunSyncExitWith(r, flatMapped).IsSuccess() {
		t.Fatalf("flatMap should not run on failure")
	}
}

func TestPropertyDefectCatchAllCauseInvokedOnce(t *testing.T) {
	r := effect.NewSyncRuntime()
	calls := 0
	e := effect.CatchAllCause(effect.Defect[string, int]("boom"), func(c effect.Cause[string]) effect.Effect[string, int] {
		calls++
		return effect.Succeed[string, int](1)
	})
	if got := effect.RunSyncWith(r, e); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one invocation, got %d", calls)
	}
}

func TestPropertyDefectEscapesCatchAll(t *testing.T) {
	r := effect.NewSyncRuntime()
	e := effect.CatchAll(effect.Defect[string, int]("boom"), func(string) effect.Effect[string, int] {
		return effect.Succeed[string, int](1)
	})
	exit := effect.RunSyncExitWith(r, e)
	if exit.IsSuccess() {
		t.Fatalf("catchAll must not observe defects")
	}
	if _, ok := exit.Cause().FirstDefect(); !ok {
		t.Fatalf("expected the original defect to resurface")
	}
}
