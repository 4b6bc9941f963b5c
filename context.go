// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"fmt"
	"sync/atomic"
)

var tagSeq atomic.Uint64

// Tag names a service slot of type T in a Context. Two tags with
// distinct keys never collide even if T is the same concrete type.
type Tag[T any] struct {
	key string
}

// NewTag creates a stable, named tag. Two calls with the same name
// produce tags that collide in a Context; names are the caller's
// contract for stability across a process.
func NewTag[T any](name string) Tag[T] {
	return Tag[T]{key: name}
}

// NewUniqueTag creates a tag that never collides with another unique
// tag, keyed "tag#N" from a process-wide monotonic counter. A NewTag
// whose name has that same form does collide with it.
func NewUniqueTag[T any]() Tag[T] {
	return Tag[T]{key: fmt.Sprintf("tag#%d", tagSeq.Add(1))}
}

// Key returns the tag's lookup key, mostly useful for diagnostics.
func (t Tag[T]) Key() string { return t.key }

// Context is an immutable, type-indexed environment of services. The
// zero Context has no services bound; overlaying (via AddService or
// Provide) always produces a new Context, never mutates the receiver.
type Context struct {
	services map[string]any
}

// AddService returns a new Context with svc bound under tag, shadowing
// any prior binding for the same key.
func AddService[T any](ctx Context, tag Tag[T], svc T) Context {
	next := make(map[string]any, len(ctx.services)+1)
	for k, v := range ctx.services {
		next[k] = v
	}
	next[tag.key] = svc
	return Context{services: next}
}

// MergeContext overlays other onto base: bindings in other shadow
// same-keyed bindings in base.
func MergeContext(base, other Context) Context {
	next := make(map[string]any, len(base.services)+len(other.services))
	for k, v := range base.services {
		next[k] = v
	}
	for k, v := range other.services {
		next[k] = v
	}
	return Context{services: next}
}

// Lookup looks up the service bound under tag.
func Lookup[T any](ctx Context, tag Tag[T]) (T, bool) {
	v, ok := ctx.services[tag.key]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (ctx Context) lookup(key string) (any, bool) {
	v, ok := ctx.services[key]
	return v, ok
}
