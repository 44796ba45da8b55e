package gallery

import "golang.org/x/sync/semaphore"

// inflight holds one single-slot semaphore per op.
type inflight struct {
	slots map[Op]*semaphore.Weighted
}

func newInflight() *inflight {
	g := &inflight{slots: make(map[Op]*semaphore.Weighted)}
	for _, op := range []Op{OpLoad, OpUpload, OpEdit, OpDelete, OpReorder} {
		g.slots[op] = semaphore.NewWeighted(1)
	}
	return g
}

// acquire claims the slot for op without blocking. The returned release func
// must be called once the operation is done.
func (g *inflight) acquire(op Op) (release func(), ok bool) {
	slot := g.slots[op]
	if !slot.TryAcquire(1) {
		return nil, false
	}
	return func() { slot.Release(1) }, true
}
