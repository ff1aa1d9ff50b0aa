package strata

import (
	"fmt"
	"iter"

	"github.com/chewxy/math32"

	"github.com/phanxgames/strata/geom"
	"github.com/phanxgames/strata/internal/logging"
)

// DefaultTileSize is the tile edge, in pixels, used when none is configured.
const DefaultTileSize = 512

// LayerID identifies a compositor layer within the compositor. The zero
// value is the null id; every id built with NewLayerID is non-null,
// including NewLayerID(0, 0).
type LayerID struct {
	a, b  uint
	valid bool
}

// NewLayerID returns the id (a, b).
func NewLayerID(a, b uint) LayerID {
	return LayerID{a: a, b: b, valid: true}
}

// IsNull reports whether id is the null id.
func (id LayerID) IsNull() bool { return !id.valid }

// Parts returns the two halves of the id.
func (id LayerID) Parts() (uint, uint) { return id.a, id.b }

func (id LayerID) String() string {
	if !id.valid {
		return "Layer(null)"
	}
	return fmt.Sprintf("Layer(%d, %d)", id.a, id.b)
}

// ScrollPolicy decides whether a layer moves when an ancestor scrolls.
type ScrollPolicy uint8

const (
	Scrollable    ScrollPolicy = iota // moves with its scrolling ancestor
	FixedPosition                     // stays put when its ancestor scrolls
)

// WantsScrollEventsFlag decides whether a layer consumes scroll events itself.
type WantsScrollEventsFlag uint8

const (
	DoesntWantScrollEvents WantsScrollEventsFlag = iota // forwards scrolls to its children
	WantsScrollEvents                                   // applies scrolls to its own offset
)

// Epoch versions a layer's layout. Buffers rendered for an older epoch are
// stale and are turned away.
type Epoch uint64

// CompositorLayerOptions configures NewCompositorLayer.
type CompositorLayerOptions struct {
	PipelineID uint
	ID         LayerID
	// PageSize is the page size if layout has already produced it.
	PageSize *geom.Size[float32]
	// TileSize is the tile edge in pixels; zero selects DefaultTileSize.
	TileSize uint
	// MaxMemory bounds the tile cache footprint; zero means unbounded.
	MaxMemory         uint
	ScrollPolicy      ScrollPolicy
	CPUPainting       bool
	WantsScrollEvents WantsScrollEventsFlag
	UnrenderedColor   geom.Color
}

// CompositorLayer is a container for a region of a page with its own scroll
// or animation behavior (iframes, fixed or absolutely positioned content). It
// owns the rendered tiles for that region.
//
// The layer is drawn only when it is not hidden and its page size is known.
// The two conditions are tracked separately: receiving a page size does not
// unhide a layer that was hidden explicitly.
type CompositorLayer struct {
	ContainerLayer

	PipelineID        uint
	ID                LayerID
	ScrollPolicy      ScrollPolicy
	CPUPainting       bool
	WantsScrollEvents WantsScrollEventsFlag
	// UnrenderedColor fills page areas that have no tile yet.
	UnrenderedColor geom.Color

	quadtree     MaybeQuadtree
	pageSize     geom.Size[float32]
	hasPageSize  bool
	scrollOffset geom.Point[float32]
	viewport     geom.Size[float32]
	hidden       bool
	epoch        Epoch

	scrollTween *scrollAnim
	sink        EventSink
}

// NewCompositorLayer creates a detached compositor layer. Without a page
// size the tile cache stays pending until SetPageSize.
func NewCompositorLayer(opts CompositorLayerOptions) *CompositorLayer {
	tileSize := opts.TileSize
	if tileSize == 0 {
		tileSize = DefaultTileSize
	}
	c := &CompositorLayer{
		PipelineID:        opts.PipelineID,
		ID:                opts.ID,
		ScrollPolicy:      opts.ScrollPolicy,
		CPUPainting:       opts.CPUPainting,
		WantsScrollEvents: opts.WantsScrollEvents,
		UnrenderedColor:   opts.UnrenderedColor,
		quadtree:          NewMaybeQuadtree(tileSize, opts.MaxMemory),
	}
	c.init(c)
	if opts.PageSize != nil {
		c.SetPageSize(*opts.PageSize)
	}
	return c
}

// Kind implements Layer.
func (c *CompositorLayer) Kind() LayerKind { return LayerKindCompositor }

func (c *CompositorLayer) String() string {
	return fmt.Sprintf("CompositorLayer(%v pipeline=%d epoch=%d)", c.ID, c.PipelineID, c.epoch)
}

// Quadtree returns the layer's tile cache wrapper.
func (c *CompositorLayer) Quadtree() *MaybeQuadtree {
	return &c.quadtree
}

// --- Visibility ---

// Hidden reports whether the layer was hidden explicitly.
func (c *CompositorLayer) Hidden() bool { return c.hidden }

// SetHidden hides or shows the layer, independent of its page size.
func (c *CompositorLayer) SetHidden(hidden bool) { c.hidden = hidden }

// PageSize returns the page size, if layout has produced one.
func (c *CompositorLayer) PageSize() (geom.Size[float32], bool) {
	return c.pageSize, c.hasPageSize
}

// Visible reports whether ancestors should draw this layer: it is not hidden
// and its page size is known.
func (c *CompositorLayer) Visible() bool {
	return !c.hidden && c.hasPageSize
}

// SetPageSize records the page size. The first call builds the tile cache;
// later calls resize it. Tiles that fall outside the new page are returned
// for the caller to destroy. The hidden flag is left untouched.
func (c *CompositorLayer) SetPageSize(size geom.Size[float32]) *LayerBufferSet {
	if size.Width < 0 || size.Height < 0 {
		panic(fmt.Sprintf("strata: negative page size %v", size))
	}
	c.pageSize = size
	c.hasPageSize = true
	clip := geom.Sz(uint(math32.Ceil(size.Width)), uint(math32.Ceil(size.Height)))

	released := NewLayerBufferSet()
	if !c.quadtree.Built() {
		c.quadtree.Build(clip)
		logging.Logger().Debug("strata: tile cache built", "layer", c.ID.String(),
			"tile_size", c.quadtree.TileSize(), "width", clip.Width, "height", clip.Height)
	} else {
		released.Append(c.quadtree.Tree().Resize(clip)...)
	}
	c.scrollOffset = c.clampOffset(c.scrollOffset)
	return released
}

// --- Epochs and buffers ---

// Epoch returns the current layout epoch.
func (c *CompositorLayer) Epoch() Epoch { return c.epoch }

// AdvanceEpoch starts a new layout epoch and returns it. Buffers rendered for
// earlier epochs will be rejected by AddBuffers.
func (c *CompositorLayer) AdvanceEpoch() Epoch {
	c.epoch++
	return c.epoch
}

// AddBuffers hands set's buffers to the tile cache. If epoch is not the
// current epoch, or the cache is not built yet, the buffers are stale: ok is
// false and set is returned unchanged. Otherwise the cache takes ownership
// of every buffer, set is emptied, and unused holds the buffers the cache
// released (replaced or evicted). The caller owns and must destroy whatever
// is returned.
func (c *CompositorLayer) AddBuffers(set *LayerBufferSet, epoch Epoch) (unused *LayerBufferSet, ok bool) {
	if epoch != c.epoch {
		logging.Logger().Debug("strata: rejecting buffers from stale epoch",
			"layer", c.ID.String(), "epoch", epoch, "current", c.epoch, "buffers", set.Len())
		return set, false
	}
	tree := c.quadtree.Tree()
	if tree == nil {
		logging.Logger().Debug("strata: rejecting buffers before page size is known",
			"layer", c.ID.String(), "buffers", set.Len())
		return set, false
	}

	unused = NewLayerBufferSet()
	for _, b := range set.Buffers {
		unused.Append(tree.AddTile(b.Rect, b.Resolution, b)...)
	}
	set.Buffers = nil
	return unused, true
}

// VisibleRect returns the page area shown through a viewport of the given
// screen size at scale.
func (c *CompositorLayer) VisibleRect(viewport geom.Size[float32], scale float32) geom.Rect[float32] {
	return geom.Rect[float32]{
		Origin: c.scrollOffset,
		Size:   geom.Sz(viewport.Width/scale, viewport.Height/scale),
	}
}

// BufferRequests returns the tiles the paint stage must render so window
// (page coordinates) is covered at scale, and the cached tiles that are no
// longer valid at scale. Invisible layers request nothing.
func (c *CompositorLayer) BufferRequests(window geom.Rect[float32], scale float32) ([]BufferRequest, *LayerBufferSet) {
	unused := NewLayerBufferSet()
	tree := c.quadtree.Tree()
	if !c.Visible() || tree == nil {
		return nil, unused
	}
	reqs, stale := tree.Requests(window, scale)
	unused.Append(stale...)

	out := make([]BufferRequest, len(reqs))
	for i, r := range reqs {
		out[i] = NewBufferRequest(r.Screen, r.Page)
	}
	return out, unused
}

// Buffers yields the cached tiles.
func (c *CompositorLayer) Buffers() iter.Seq[*LayerBuffer] {
	return func(yield func(*LayerBuffer) bool) {
		if tree := c.quadtree.Tree(); tree != nil {
			for b := range tree.All() {
				if !yield(b) {
					return
				}
			}
		}
	}
}

// CollectBuffers empties the tile cache and returns its buffers.
func (c *CompositorLayer) CollectBuffers() *LayerBufferSet {
	set := NewLayerBufferSet()
	if tree := c.quadtree.Tree(); tree != nil {
		set.Append(tree.Collect()...)
	}
	return set
}

// MemoryUsage returns the tile cache footprint.
func (c *CompositorLayer) MemoryUsage() uint {
	if tree := c.quadtree.Tree(); tree != nil {
		return tree.Memory()
	}
	return 0
}
