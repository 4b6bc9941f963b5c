// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "errors"

// Triple is a 3-tuple, the result type of Tuple3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// All runs es in order, fail-fast: the first failure short-circuits
// and no subsequent effect is evaluated. On success, returns the
// results in input order.
func All[E, A any](es []Effect[E, A]) Effect[E, []A] {
	return allFrom(es, 0, make([]A, 0, len(es)))
}

func allFrom[E, A any](es []Effect[E, A], i int, acc []A) Effect[E, []A] {
	if i >= len(es) {
		return Succeed[E, []A](acc)
	}
	return FlatMap(es[i], func(a A) Effect[E, []A] {
		return SuspendEffect(func() Effect[E, []A] {
			return allFrom(es, i+1, append(acc, a))
		})
	})
}

// Seq is an alias for All under its sequence-of-effects name.
func Seq[E, A any](es []Effect[E, A]) Effect[E, []A] { return All(es) }

// Traverse is All(items mapped through f).
func Traverse[E, T, A any](items []T, f func(T) Effect[E, A]) Effect[E, []A] {
	es := make([]Effect[E, A], len(items))
	for i, it := range items {
		es[i] = f(it)
	}
	return All(es)
}

// FirstSuccess folds es with OrElse: the first success wins, the last
// failure surfaces if all fail. Empty input is a defect (programmer
// error — there is no value to produce).
func FirstSuccess[E, A any](es []Effect[E, A]) Effect[E, A] {
	if len(es) == 0 {
		return Defect[E, A](errors.New("effect: FirstSuccess of an empty slice"))
	}
	result := es[0]
	for _, e := range es[1:] {
		result = OrElse(result, e)
	}
	return result
}

// Tuple2 is sugar over Zip.
func Tuple2[E, A, B any](a Effect[E, A], b Effect[E, B]) Effect[E, Pair[A, B]] {
	return Zip(a, b)
}

// Tuple3 is sugar over two Zips flattened into a Triple.
func Tuple3[E, A, B, C any](a Effect[E, A], b Effect[E, B], c Effect[E, C]) Effect[E, Triple[A, B, C]] {
	return ZipWith(Zip(a, b), c, func(ab Pair[A, B], cc C) Triple[A, B, C] {
		return Triple[A, B, C]{ab.First, ab.Second, cc}
	})
}
