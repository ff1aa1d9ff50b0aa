package surface

import (
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phanxgames/strata/internal/logging"
)

// trackedSurface mirrors the lifecycle of one surface. It holds no reference
// to the surface itself so the surface can be collected.
type trackedSurface struct {
	state State
	w, h  int
}

// Tracker audits surface lifecycles. Surfaces that are garbage collected while
// still live (neither destroyed nor marked will-leak) are reported at error
// level and counted by Dropped.
//
// The tracker is the one type in this module used from more than one
// goroutine: GC cleanups run on their own goroutine.
type Tracker struct {
	mu       sync.Mutex
	surfaces map[uuid.UUID]*trackedSurface
	dropped  int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{surfaces: make(map[uuid.UUID]*trackedSurface)}
}

func (t *Tracker) register(s *ImageSurface) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.surfaces[s.id] = &trackedSurface{state: StateLive, w: s.w, h: s.h}
	t.mu.Unlock()
	runtime.AddCleanup(s, t.collected, s.id)
}

func (t *Tracker) setState(id uuid.UUID, st State) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ts, ok := t.surfaces[id]; ok {
		ts.state = st
	}
}

// collected runs after the surface with the given id became unreachable.
func (t *Tracker) collected(id uuid.UUID) {
	t.mu.Lock()
	ts, ok := t.surfaces[id]
	delete(t.surfaces, id)
	if ok && ts.state == StateLive {
		t.dropped++
	}
	t.mu.Unlock()

	if ok && ts.state == StateLive {
		logging.Logger().Error("surface: dropped without destroy or leak mark",
			"id", id, "width", ts.w, "height", ts.h)
	}
}

// Count returns how many tracked surfaces are in the given state. Collected
// surfaces are no longer tracked.
func (t *Tracker) Count(st State) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, ts := range t.surfaces {
		if ts.state == st {
			n++
		}
	}
	return n
}

// Outstanding returns the ids of surfaces that are still live: they must be
// destroyed or marked will-leak before being dropped. The ids are sorted.
func (t *Tracker) Outstanding() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []uuid.UUID
	for id, ts := range t.surfaces {
		if ts.state == StateLive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Dropped returns how many surfaces were collected while still live.
func (t *Tracker) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}
