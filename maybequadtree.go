package strata

import (
	"github.com/phanxgames/strata/geom"
	"github.com/phanxgames/strata/quadtree"
)

// MaybeQuadtree is a compositor layer's tile cache, or the configuration to
// build it once the page size is known.
type MaybeQuadtree struct {
	tree      *quadtree.Quadtree[*LayerBuffer]
	tileSize  uint
	maxMemory uint
}

// NewMaybeQuadtree returns a pending cache. maxMemory zero means unbounded.
func NewMaybeQuadtree(tileSize, maxMemory uint) MaybeQuadtree {
	return MaybeQuadtree{tileSize: tileSize, maxMemory: maxMemory}
}

// TileSize returns the configured tile size, before and after Build.
func (m *MaybeQuadtree) TileSize() uint {
	if m.tree != nil {
		return m.tree.MaxTileSize()
	}
	return m.tileSize
}

// MaxMemory returns the configured memory budget.
func (m *MaybeQuadtree) MaxMemory() uint {
	return m.maxMemory
}

// Built reports whether the cache exists.
func (m *MaybeQuadtree) Built() bool {
	return m.tree != nil
}

// Tree returns the cache, or nil while pending.
func (m *MaybeQuadtree) Tree() *quadtree.Quadtree[*LayerBuffer] {
	return m.tree
}

// Build creates the cache for a page of clip size. It may be called once.
func (m *MaybeQuadtree) Build(clip geom.Size[uint]) *quadtree.Quadtree[*LayerBuffer] {
	if m.tree != nil {
		panic("strata: quadtree already built")
	}
	m.tree = quadtree.New[*LayerBuffer](clip, m.tileSize, m.maxMemory)
	return m.tree
}
