// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Bracket runs acquire, then use(r) with release(r) guaranteed to run
// exactly once regardless of whether use succeeds, fails, or is
// interrupted. If acquire itself fails, release does not run.
func Bracket[E, R, A any](acquire Effect[E, R], release func(R) Effect[E, Unit], use func(R) Effect[E, A]) Effect[E, A] {
	return FlatMap(acquire, func(r R) Effect[E, A] {
		return Ensuring(use(r), release(r))
	})
}

// Bracket2 nests two brackets acquired in order, released in LIFO
// order (the inner resource's release runs before the outer's).
func Bracket2[E, R1, R2, A any](
	acquire1 Effect[E, R1], release1 func(R1) Effect[E, Unit],
	acquire2 func(R1) Effect[E, R2], release2 func(R2) Effect[E, Unit],
	use func(R1, R2) Effect[E, A],
) Effect[E, A] {
	return Bracket(acquire1, release1, func(r1 R1) Effect[E, A] {
		return Bracket(acquire2(r1), release2, func(r2 R2) Effect[E, A] {
			return use(r1, r2)
		})
	})
}
