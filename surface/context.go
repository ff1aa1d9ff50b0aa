package surface

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/phanxgames/strata/internal/logging"
)

// PaintContext is the graphics context surfaces are allocated from and
// released under. Each paint worker owns one; its Index is what a layer
// buffer's render index refers to, so buffers can be routed back to the
// context that must recycle them.
type PaintContext struct {
	index   uint
	pool    imagePool
	tracker *Tracker
}

// NewPaintContext creates a context with the given routing index. A nil
// tracker gets a fresh one.
func NewPaintContext(index uint, tracker *Tracker) *PaintContext {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &PaintContext{index: index, tracker: tracker}
}

// Index returns the context's routing index.
func (c *PaintContext) Index() uint {
	return c.index
}

// Tracker returns the lifecycle tracker surfaces from this context report to.
func (c *PaintContext) Tracker() *Tracker {
	return c.tracker
}

// Pooled returns the number of released images awaiting reuse.
func (c *PaintContext) Pooled() int {
	return c.pool.pooled
}

// NewSurface allocates a live surface of w x h pixels.
// Panics if either dimension is not positive.
func (c *PaintContext) NewSurface(w, h int) *ImageSurface {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("surface: invalid size %dx%d", w, h))
	}
	s := &ImageSurface{
		id:      uuid.New(),
		image:   c.pool.acquire(w, h),
		w:       w,
		h:       h,
		tracker: c.tracker,
		owner:   c,
	}
	c.tracker.register(s)
	logging.Logger().Debug("surface: allocated", "id", s.id, "context", c.index,
		"width", w, "height", h)
	return s
}

// Purge deallocates every pooled image. Surfaces still in use are unaffected.
func (c *PaintContext) Purge() {
	c.pool.purge()
}
