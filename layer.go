package strata

import (
	"fmt"

	"github.com/phanxgames/strata/geom"
)

// LayerKind distinguishes the three layer variants.
type LayerKind uint8

const (
	LayerKindContainer  LayerKind = iota // group of child layers, optionally clipped
	LayerKindTexture                     // leaf wrapping a single GPU texture
	LayerKindCompositor                  // scrollable content region backed by tiles
)

func (k LayerKind) String() string {
	switch k {
	case LayerKindContainer:
		return "container"
	case LayerKindTexture:
		return "texture"
	case LayerKindCompositor:
		return "compositor"
	default:
		return fmt.Sprintf("LayerKind(%d)", uint8(k))
	}
}

// Layer is a handle to one node of the layer tree. The only implementations
// are *ContainerLayer, *TextureLayer and *CompositorLayer. Copying a Layer
// shares the node; node identity is pointer identity.
type Layer interface {
	// Kind reports which variant the handle holds.
	Kind() LayerKind
	// WithCommon calls f with the node's tree header. It panics if the
	// header is already borrowed by an enclosing WithCommon on the same node.
	WithCommon(f func(*CommonLayer))

	header() *layerHeader
}

// CommonLayer is the header every layer variant carries: its links into the
// tree and its transform.
type CommonLayer struct {
	// Parent is the layer whose child list holds this node. It does not own
	// the node; the tree is owned top-down.
	Parent Layer
	// PrevSibling and NextSibling link the parent's child list. Both are nil
	// at the list ends.
	PrevSibling Layer
	NextSibling Layer
	// Transform positions the layer relative to its parent.
	Transform geom.Matrix4
}

func newCommonLayer() CommonLayer {
	return CommonLayer{Transform: geom.Identity()}
}

// detached reports whether the node has no tree links.
func (c *CommonLayer) detached() bool {
	return c.Parent == nil && c.PrevSibling == nil && c.NextSibling == nil
}

func (c *CommonLayer) unlink() {
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// layerHeader guards a CommonLayer with a run-time borrow flag. A second,
// overlapping borrow of the same node is a usage error.
type layerHeader struct {
	common   CommonLayer
	borrowed bool
}

func (h *layerHeader) header() *layerHeader { return h }

func (h *layerHeader) WithCommon(f func(*CommonLayer)) {
	if h.borrowed {
		panic("strata: layer already borrowed")
	}
	h.borrowed = true
	defer func() { h.borrowed = false }()
	f(&h.common)
}

// ReadCommon calls f with l's header and returns its result.
func ReadCommon[T any](l Layer, f func(*CommonLayer) T) T {
	var v T
	l.WithCommon(func(c *CommonLayer) { v = f(c) })
	return v
}

// ParentOf returns the layer holding l, or nil when l is detached.
func ParentOf(l Layer) Layer {
	return ReadCommon(l, func(c *CommonLayer) Layer { return c.Parent })
}

// NextSiblingOf returns the layer after l in its parent's child list.
func NextSiblingOf(l Layer) Layer {
	return ReadCommon(l, func(c *CommonLayer) Layer { return c.NextSibling })
}

// PrevSiblingOf returns the layer before l in its parent's child list.
func PrevSiblingOf(l Layer) Layer {
	return ReadCommon(l, func(c *CommonLayer) Layer { return c.PrevSibling })
}

// TransformOf returns l's transform.
func TransformOf(l Layer) geom.Matrix4 {
	return ReadCommon(l, func(c *CommonLayer) geom.Matrix4 { return c.Transform })
}

// SetTransform replaces l's transform.
func SetTransform(l Layer, m geom.Matrix4) {
	l.WithCommon(func(c *CommonLayer) { c.Transform = m })
}

// IsAttached reports whether l currently has a parent.
func IsAttached(l Layer) bool {
	return ParentOf(l) != nil
}

// containerOf returns the child list owned by l, or nil for leaf layers.
func containerOf(l Layer) *ContainerLayer {
	switch v := l.(type) {
	case *ContainerLayer:
		return v
	case *CompositorLayer:
		return &v.ContainerLayer
	default:
		return nil
	}
}

// sameLayer compares two handles by node identity.
func sameLayer(a, b Layer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.header() == b.header()
}
