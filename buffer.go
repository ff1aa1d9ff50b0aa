package strata

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/phanxgames/strata/geom"
	"github.com/phanxgames/strata/internal/logging"
	"github.com/phanxgames/strata/quadtree"
	"github.com/phanxgames/strata/surface"
)

// resolutionEpsilon is how far a tile's resolution may drift from the display
// scale and still count as rendered at that scale.
const resolutionEpsilon = 1e-6

// Tile is a rendered, surface-backed tile the caches can hold. Destroy is the
// only sanctioned way to release the tile's native surface.
type Tile interface {
	quadtree.Tile
	// MarkWontLeak records that the tile's surface is owned locally again.
	MarkWontLeak()
	// Destroy releases the tile's surface under ctx.
	Destroy(ctx *surface.PaintContext)
}

// BufferRequest asks the paint stage to render a tile: the screen pixels to
// draw and the page area they represent.
type BufferRequest struct {
	ScreenRect geom.Rect[uint]
	PageRect   geom.Rect[float32]
}

// NewBufferRequest pairs a screen rect with the page rect it maps to.
func NewBufferRequest(screen geom.Rect[uint], page geom.Rect[float32]) BufferRequest {
	return BufferRequest{ScreenRect: screen, PageRect: page}
}

// LayerBuffer is one rendered tile.
type LayerBuffer struct {
	// NativeSurface holds the pixels. It can be shared between goroutines or
	// processes, which is why its release is explicit.
	NativeSurface surface.NativeSurface
	// Rect is the page area this tile represents.
	Rect geom.Rect[float32]
	// ScreenPos is the pixel rect the tile is drawn into.
	ScreenPos geom.Rect[uint]
	// Resolution is the scale the tile was rendered at.
	Resolution float32
	// Stride is the row length in pixels.
	Stride uint
	// RenderIdx routes the buffer back to the paint context that recycles it.
	RenderIdx uint
}

var _ Tile = (*LayerBuffer)(nil)

// MemoryFootprint returns the tile's pixel area. This is a heuristic, not a
// byte count.
func (b *LayerBuffer) MemoryFootprint() uint {
	return b.ScreenPos.Size.Area()
}

// IsValid reports whether the tile was rendered at scale. There is no
// nearest-scale fallback.
func (b *LayerBuffer) IsValid(scale float32) bool {
	return math32.Abs(b.Resolution-scale) < resolutionEpsilon
}

// Size returns the tile's pixel dimensions.
func (b *LayerBuffer) Size() geom.Size[uint] {
	return b.ScreenPos.Size
}

// MarkWontLeak implements Tile.
func (b *LayerBuffer) MarkWontLeak() {
	b.NativeSurface.MarkWontLeak()
}

// Destroy implements Tile.
func (b *LayerBuffer) Destroy(ctx *surface.PaintContext) {
	b.NativeSurface.Destroy(ctx)
}

func (b *LayerBuffer) String() string {
	return fmt.Sprintf("LayerBuffer(page=%v screen=%v res=%g ctx=%d)",
		b.Rect, b.ScreenPos, b.Resolution, b.RenderIdx)
}

// LayerBufferSet is an ordered set of buffers, the atomic unit swapped
// between front and back buffers. The set owns its buffers: each must be
// destroyed or marked as leaking before the set is dropped.
type LayerBufferSet struct {
	Buffers []*LayerBuffer
}

// NewLayerBufferSet returns a set holding buffers.
func NewLayerBufferSet(buffers ...*LayerBuffer) *LayerBufferSet {
	return &LayerBufferSet{Buffers: buffers}
}

// Len returns the number of buffers. A nil set is empty.
func (s *LayerBufferSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Buffers)
}

// Append adds buffers to the end of the set.
func (s *LayerBufferSet) Append(buffers ...*LayerBuffer) {
	s.Buffers = append(s.Buffers, buffers...)
}

// MarkWillLeak notes that every buffer's surface may be dropped without
// Destroy, for hand-offs the lifecycle tracker cannot observe.
func (s *LayerBufferSet) MarkWillLeak() {
	if s == nil {
		return
	}
	for _, b := range s.Buffers {
		b.NativeSurface.MarkWillLeak()
	}
}

// MarkWontLeak reverses MarkWillLeak once the buffers are owned locally again.
func (s *LayerBufferSet) MarkWontLeak() {
	if s == nil {
		return
	}
	for _, b := range s.Buffers {
		b.MarkWontLeak()
	}
}

// Destroy releases every buffer under ctx and empties the set.
func (s *LayerBufferSet) Destroy(ctx *surface.PaintContext) {
	if s == nil {
		return
	}
	for i, b := range s.Buffers {
		b.Destroy(ctx)
		s.Buffers[i] = nil
	}
	s.Buffers = s.Buffers[:0]
}

// DestroyRouted releases every buffer under the paint context its RenderIdx
// names, and empties the set. A buffer whose index has no context is
// destroyed without one.
func (s *LayerBufferSet) DestroyRouted(contexts []*surface.PaintContext) {
	if s == nil {
		return
	}
	for i, b := range s.Buffers {
		var ctx *surface.PaintContext
		if b.RenderIdx < uint(len(contexts)) {
			ctx = contexts[b.RenderIdx]
		} else {
			logging.Logger().Warn("strata: no paint context for buffer", "render_idx", b.RenderIdx)
		}
		b.Destroy(ctx)
		s.Buffers[i] = nil
	}
	s.Buffers = s.Buffers[:0]
}
