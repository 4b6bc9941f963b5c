// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"fmt"
	"sync/atomic"
	"time"
)

var fiberIDSeq atomic.Uint64

// FiberId identifies a fiber. It is monotonic and never reused, and
// carries a start-time annotation for logging/printing.
type FiberId struct {
	n         uint64
	startedAt time.Time
}

// NewFiberId allocates a fresh, never-reused fiber id.
func NewFiberId() FiberId {
	return FiberId{n: fiberIDSeq.Add(1), startedAt: time.Now()}
}

// Seq returns the monotonic sequence number, unique across the process.
func (id FiberId) Seq() uint64 { return id.n }

// StartedAt returns when the id was allocated.
func (id FiberId) StartedAt() time.Time { return id.startedAt }

// String renders the id as a print key, e.g. "fiber#7".
func (id FiberId) String() string {
	return fmt.Sprintf("fiber#%d", id.n)
}
