package strata

import (
	"iter"

	"github.com/phanxgames/strata/geom"
)

// ContainerLayer holds an ordered list of child layers as a doubly linked
// list threaded through the children's headers, and an optional clip rect.
//
// Tree operations panic on contract violations: attaching a node that is not
// fully detached, removing a node from a container that does not hold it,
// and attaching a node beneath itself.
type ContainerLayer struct {
	layerHeader

	// owner is the handle children store as their Parent: the container
	// itself, or the compositor layer embedding it.
	owner Layer

	firstChild  Layer
	lastChild   Layer
	numChildren int

	scissor    geom.Rect[float32]
	hasScissor bool
}

// NewContainerLayer creates a detached, empty container.
func NewContainerLayer() *ContainerLayer {
	c := &ContainerLayer{}
	c.init(c)
	return c
}

func (c *ContainerLayer) init(owner Layer) {
	c.common = newCommonLayer()
	c.owner = owner
}

// Kind implements Layer.
func (c *ContainerLayer) Kind() LayerKind { return LayerKindContainer }

// FirstChild returns the head of the child list, or nil.
func (c *ContainerLayer) FirstChild() Layer { return c.firstChild }

// LastChild returns the tail of the child list, or nil.
func (c *ContainerLayer) LastChild() Layer { return c.lastChild }

// NumChildren returns the number of attached children.
func (c *ContainerLayer) NumChildren() int { return c.numChildren }

// Scissor returns the clip rectangle, if one is set.
func (c *ContainerLayer) Scissor() (geom.Rect[float32], bool) {
	return c.scissor, c.hasScissor
}

// SetScissor sets the clip rectangle applied to the children.
func (c *ContainerLayer) SetScissor(r geom.Rect[float32]) {
	c.scissor = r
	c.hasScissor = true
}

// ClearScissor removes the clip rectangle.
func (c *ContainerLayer) ClearScissor() {
	c.scissor = geom.Rect[float32]{}
	c.hasScissor = false
}

// --- Tree manipulation ---

// AddChildStart makes child the first child of c.
// Panics if child is nil, is not fully detached, or is an ancestor of c.
func (c *ContainerLayer) AddChildStart(child Layer) {
	c.checkAttachable(child, "AddChildStart")

	child.WithCommon(func(cc *CommonLayer) {
		if !cc.detached() {
			panic("strata: AddChildStart on a layer that is still attached")
		}
		cc.Parent = c.owner

		if first := c.firstChild; first != nil {
			first.WithCommon(func(fc *CommonLayer) {
				if fc.PrevSibling != nil {
					panic("strata: first child has a previous sibling")
				}
				fc.PrevSibling = child
			})
			cc.NextSibling = first
		}

		c.firstChild = child
		if c.lastChild == nil {
			c.lastChild = child
		}
	})
	c.numChildren++
	c.debugCheckAttach(child)
}

// AddChildEnd makes child the last child of c.
// Panics if child is nil, is not fully detached, or is an ancestor of c.
func (c *ContainerLayer) AddChildEnd(child Layer) {
	c.checkAttachable(child, "AddChildEnd")

	child.WithCommon(func(cc *CommonLayer) {
		if !cc.detached() {
			panic("strata: AddChildEnd on a layer that is still attached")
		}
		cc.Parent = c.owner

		if last := c.lastChild; last != nil {
			last.WithCommon(func(lc *CommonLayer) {
				if lc.NextSibling != nil {
					panic("strata: last child has a next sibling")
				}
				lc.NextSibling = child
			})
			cc.PrevSibling = last
		}

		c.lastChild = child
		if c.firstChild == nil {
			c.firstChild = child
		}
	})
	c.numChildren++
	c.debugCheckAttach(child)
}

// RemoveChild unlinks child from c. The removed child's parent and sibling
// links are cleared, so it can be attached again.
// Panics if child's parent is not c.
func (c *ContainerLayer) RemoveChild(child Layer) {
	if child == nil {
		panic("strata: cannot remove nil child")
	}
	child.WithCommon(func(cc *CommonLayer) {
		if cc.Parent == nil {
			panic("strata: RemoveChild on a detached layer")
		}
		if !sameLayer(cc.Parent, c.owner) {
			panic("strata: child's parent is not this layer")
		}

		if next := cc.NextSibling; next != nil {
			next.WithCommon(func(nc *CommonLayer) { nc.PrevSibling = cc.PrevSibling })
		} else {
			c.lastChild = cc.PrevSibling
		}
		if prev := cc.PrevSibling; prev != nil {
			prev.WithCommon(func(pc *CommonLayer) { pc.NextSibling = cc.NextSibling })
		} else {
			c.firstChild = cc.NextSibling
		}

		cc.unlink()
	})
	c.numChildren--
}

// RemoveAllChildren empties the child list and clears each former child's
// links. Grandchildren stay attached to their own parents.
func (c *ContainerLayer) RemoveAllChildren() {
	for child := c.firstChild; child != nil; {
		var next Layer
		child.WithCommon(func(cc *CommonLayer) {
			next = cc.NextSibling
			cc.unlink()
		})
		child = next
	}
	c.firstChild = nil
	c.lastChild = nil
	c.numChildren = 0
}

// Children yields the children in first-to-last order. Each call starts a
// fresh traversal at the current first child. Mutating the list while
// iterating is not supported.
func (c *ContainerLayer) Children() iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		for child := c.firstChild; child != nil; {
			next := NextSiblingOf(child)
			if !yield(child) {
				return
			}
			child = next
		}
	}
}

// --- Helpers ---

func (c *ContainerLayer) checkAttachable(child Layer, op string) {
	if child == nil {
		panic("strata: " + op + " with nil child")
	}
	if isAncestor(child, c.owner) {
		panic("strata: adding child would create a cycle")
	}
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node Layer) bool {
	for p := node; p != nil; p = ParentOf(p) {
		if sameLayer(p, candidate) {
			return true
		}
	}
	return false
}
