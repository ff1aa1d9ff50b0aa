// Package quadtree is a spatial cache of rendered tiles for one page.
//
// The tree covers the page with a square whose side is a power-of-two
// multiple of the maximum tile size. A tile rendered at scale s lives at the
// shallowest node whose page extent, multiplied by s, fits within the maximum
// tile size; zooming in therefore stores tiles deeper in the tree. When a
// memory budget is set, the least recently used tiles are evicted.
//
// The cache never destroys tiles. Every tile it stops holding (replaced,
// evicted, invalidated or collected) is handed back to the caller, which owns
// its release.
package quadtree

import (
	"container/list"
	"fmt"
	"iter"

	"github.com/phanxgames/strata/geom"
	"github.com/phanxgames/strata/internal/logging"
)

// Tile is what the cache needs to know about a stored tile.
type Tile interface {
	// MemoryFootprint estimates the memory the tile holds.
	MemoryFootprint() uint
	// IsValid reports whether the tile can be displayed at scale.
	IsValid(scale float32) bool
	// Size returns the tile's pixel dimensions.
	Size() geom.Size[uint]
}

// Request describes a tile that must be (re)rendered: the screen pixels to
// draw and the page area they represent.
type Request struct {
	Screen geom.Rect[uint]
	Page   geom.Rect[float32]
}

// maxDepth bounds subdivision for extreme scales.
const maxDepth = 24

type node[T Tile] struct {
	origin   geom.Point[float32]
	size     float32
	tile     T
	hasTile  bool
	mem      uint
	elem     *list.Element
	children [4]*node[T]
}

func (n *node[T]) rect() geom.Rect[float32] {
	return geom.Rect[float32]{Origin: n.origin, Size: geom.Sz(n.size, n.size)}
}

func (n *node[T]) child(i int) *node[T] {
	if n.children[i] == nil {
		half := n.size / 2
		n.children[i] = &node[T]{
			origin: geom.Pt(n.origin.X+half*float32(i&1), n.origin.Y+half*float32(i>>1)),
			size:   half,
		}
	}
	return n.children[i]
}

func (n *node[T]) childIndex(p geom.Point[float32]) int {
	half := n.size / 2
	i := 0
	if p.X >= n.origin.X+half {
		i |= 1
	}
	if p.Y >= n.origin.Y+half {
		i |= 2
	}
	return i
}

// Quadtree caches tiles of type T for a page of a given clip size.
// It is not safe for concurrent use.
type Quadtree[T Tile] struct {
	root        *node[T]
	clip        geom.Size[uint]
	maxTileSize uint
	maxMemory   uint
	memory      uint
	lru         *list.List // of *node[T]; front is most recently used
}

// New creates an empty cache for a page of clip size. maxMemory bounds the
// summed tile footprints; zero means unbounded. Panics if maxTileSize is zero.
func New[T Tile](clip geom.Size[uint], maxTileSize, maxMemory uint) *Quadtree[T] {
	if maxTileSize == 0 {
		panic("quadtree: max tile size must be positive")
	}
	q := &Quadtree[T]{
		clip:        clip,
		maxTileSize: maxTileSize,
		maxMemory:   maxMemory,
		lru:         list.New(),
	}
	q.root = &node[T]{size: float32(rootSize(clip, maxTileSize))}
	return q
}

// rootSize returns the smallest tileSize*2^k covering both clip dimensions.
func rootSize(clip geom.Size[uint], tileSize uint) uint {
	size := tileSize
	for size < clip.Width || size < clip.Height {
		size *= 2
	}
	return size
}

// MaxTileSize returns the largest tile edge, in pixels, the cache stores.
func (q *Quadtree[T]) MaxTileSize() uint { return q.maxTileSize }

// MaxMemory returns the memory budget (zero when unbounded).
func (q *Quadtree[T]) MaxMemory() uint { return q.maxMemory }

// Clip returns the page size the cache covers.
func (q *Quadtree[T]) Clip() geom.Size[uint] { return q.clip }

// Len returns the number of stored tiles.
func (q *Quadtree[T]) Len() int { return q.lru.Len() }

// Memory returns the summed footprint of stored tiles.
func (q *Quadtree[T]) Memory() uint { return q.memory }

func (q *Quadtree[T]) clipRect() geom.Rect[float32] {
	return geom.R(0, 0, float32(q.clip.Width), float32(q.clip.Height))
}

func (q *Quadtree[T]) isLeaf(n *node[T], scale float32, depth int) bool {
	return n.size*scale <= float32(q.maxTileSize) || depth >= maxDepth
}

// AddTile stores tile, rendered at scale, for the page area page. It returns
// every tile the cache released as a result: the tile previously at that
// position, finer tiles it covers, and tiles evicted to honor the memory
// budget. A tile whose page area lies outside the page is returned as-is.
func (q *Quadtree[T]) AddTile(page geom.Rect[float32], scale float32, tile T) []T {
	center := geom.Pt(page.MinX()+page.Size.Width/2, page.MinY()+page.Size.Height/2)
	if scale <= 0 || !q.clipRect().Contains(center) {
		logging.Logger().Debug("quadtree: tile outside page", "page", fmt.Sprint(page), "scale", scale)
		return []T{tile}
	}

	n := q.root
	for depth := 0; !q.isLeaf(n, scale, depth); depth++ {
		n = n.child(n.childIndex(center))
	}

	var released []T
	if n.hasTile {
		released = append(released, q.take(n))
	}
	released = q.prune(n, released)

	n.tile = tile
	n.hasTile = true
	n.mem = tile.MemoryFootprint()
	n.elem = q.lru.PushFront(n)
	q.memory += n.mem

	return q.evict(released)
}

// evict drops least recently used tiles until the budget holds. The most
// recent tile is never evicted.
func (q *Quadtree[T]) evict(released []T) []T {
	if q.maxMemory == 0 {
		return released
	}
	for q.memory > q.maxMemory && q.lru.Len() > 1 {
		n := q.lru.Back().Value.(*node[T])
		released = append(released, q.take(n))
	}
	return released
}

// take removes and returns n's tile.
func (q *Quadtree[T]) take(n *node[T]) T {
	t := n.tile
	q.lru.Remove(n.elem)
	q.memory -= n.mem
	var zero T
	n.tile, n.hasTile, n.mem, n.elem = zero, false, 0, nil
	return t
}

// prune removes all of n's descendants, collecting their tiles.
func (q *Quadtree[T]) prune(n *node[T], released []T) []T {
	for i, c := range n.children {
		if c == nil {
			continue
		}
		if c.hasTile {
			released = append(released, q.take(c))
		}
		released = q.prune(c, released)
		n.children[i] = nil
	}
	return released
}

// Requests walks the part of the page visible through window (page
// coordinates) and returns the tiles that must be rendered at scale, plus the
// stored tiles that are no longer valid at scale and have been removed.
// Valid tiles that are visible are marked as recently used.
func (q *Quadtree[T]) Requests(window geom.Rect[float32], scale float32) ([]Request, []T) {
	if scale <= 0 {
		return nil, nil
	}
	visible, ok := window.Intersection(q.clipRect())
	if !ok {
		return nil, nil
	}
	var reqs []Request
	var unused []T
	q.requests(q.root, 0, visible, scale, &reqs, &unused)
	return reqs, unused
}

func (q *Quadtree[T]) requests(n *node[T], depth int, window geom.Rect[float32], scale float32, reqs *[]Request, unused *[]T) {
	if !n.rect().Intersects(window) {
		return
	}
	if n.hasTile && !n.tile.IsValid(scale) {
		*unused = append(*unused, q.take(n))
	}
	if !q.isLeaf(n, scale, depth) {
		for i := range n.children {
			q.requests(n.child(i), depth+1, window, scale, reqs, unused)
		}
		return
	}

	*unused = q.prune(n, *unused)
	if n.hasTile {
		q.lru.MoveToFront(n.elem)
		return
	}
	page, _ := n.rect().Intersection(q.clipRect())
	*reqs = append(*reqs, Request{Screen: geom.PixelRect(page, scale), Page: page})
}

// Resize changes the page size. Tiles that no longer overlap the page are
// returned. When the covering square changes size, every tile is returned
// and the tree is rebuilt.
func (q *Quadtree[T]) Resize(clip geom.Size[uint]) []T {
	q.clip = clip
	size := rootSize(clip, q.maxTileSize)
	if float32(size) != q.root.size {
		released := q.Collect()
		q.root = &node[T]{size: float32(size)}
		return released
	}
	return q.dropOutside(q.root, q.clipRect(), nil)
}

func (q *Quadtree[T]) dropOutside(n *node[T], clip geom.Rect[float32], released []T) []T {
	if !n.rect().Intersects(clip) {
		if n.hasTile {
			released = append(released, q.take(n))
		}
		return q.prune(n, released)
	}
	for _, c := range n.children {
		if c != nil {
			released = q.dropOutside(c, clip, released)
		}
	}
	return released
}

// Collect removes and returns every stored tile.
func (q *Quadtree[T]) Collect() []T {
	var released []T
	if q.root.hasTile {
		released = append(released, q.take(q.root))
	}
	return q.prune(q.root, released)
}

// All yields the stored tiles in tree order without modifying the cache.
func (q *Quadtree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		walk(q.root, yield)
	}
}

func walk[T Tile](n *node[T], yield func(T) bool) bool {
	if n.hasTile && !yield(n.tile) {
		return false
	}
	for _, c := range n.children {
		if c != nil && !walk(c, yield) {
			return false
		}
	}
	return true
}
