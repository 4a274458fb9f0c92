package twr

import (
	"context"
	"sync"
)

// Refresher serializes user-triggered recomputations. Every trigger gets a
// monotonically increasing request identifier; when a newer trigger
// arrives before an older computation finishes, the older result is
// discarded on arrival instead of overwriting fresher state. In-flight
// work is not cancelled, only its result dropped.
type Refresher struct {
	// Apply receives the report of the newest completed trigger.
	Apply func(*PerformanceReport)
	// OnError, when set, receives failures of non-stale triggers.
	OnError func(error)

	mu   sync.Mutex
	seq  uint64
	wg   sync.WaitGroup
}

// Trigger starts a computation and returns its request identifier. The
// result is delivered to Apply only if no newer Trigger happened in the
// meantime.
func (r *Refresher) Trigger(ctx context.Context, run func(context.Context) (*PerformanceReport, error)) uint64 {
	r.mu.Lock()
	r.seq++
	id := r.seq
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		report, err := run(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if id != r.seq {
			// A newer computation was triggered while this one ran;
			// its result would overwrite fresher state. Drop it.
			return
		}
		if err != nil {
			if r.OnError != nil {
				r.OnError(err)
			}
			return
		}
		if r.Apply != nil {
			r.Apply(report)
		}
	}()
	return id
}

// Wait blocks until all in-flight computations have completed (delivered
// or dropped). Mostly useful in tests and on shutdown.
func (r *Refresher) Wait() { r.wg.Wait() }
