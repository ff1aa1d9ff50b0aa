package strata

import (
	"github.com/chewxy/math32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/strata/geom"
)

// ScrollEvent reports that a compositor layer's scroll offset changed.
type ScrollEvent struct {
	LayerID    LayerID
	PipelineID uint
	Offset     geom.Point[float32]
	Delta      geom.Point[float32]
}

// EventSink receives scroll events, e.g. to forward them to the paint stage
// or an ECS world.
type EventSink interface {
	EmitScroll(event ScrollEvent)
}

// scrollAnim holds active scroll-to tweens for the X and Y offsets.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// SetEventSink sets where this layer and its descendants without a sink of
// their own report scrolls. Nil disables reporting.
func (c *CompositorLayer) SetEventSink(sink EventSink) {
	c.sink = sink
}

// ScrollOffset returns the page-space offset of the top-left visible point.
func (c *CompositorLayer) ScrollOffset() geom.Point[float32] {
	return c.scrollOffset
}

// SetScrollOffset moves the layer to offset immediately, clamped to the page.
// Any running scroll animation is cancelled.
func (c *CompositorLayer) SetScrollOffset(offset geom.Point[float32]) {
	c.scrollTween = nil
	c.moveTo(offset, c.sink)
}

// Scroll applies delta for a viewport of the given size. A layer that wants
// scroll events moves itself; otherwise the delta is forwarded to its
// scrollable compositor children. Fixed-position children never move.
// Reports whether any offset changed. Hidden layers ignore scrolls.
func (c *CompositorLayer) Scroll(delta geom.Point[float32], viewport geom.Size[float32]) bool {
	return c.scroll(delta, viewport, c.sink)
}

func (c *CompositorLayer) scroll(delta geom.Point[float32], viewport geom.Size[float32], sink EventSink) bool {
	if c.sink != nil {
		sink = c.sink
	}
	c.viewport = viewport
	if !c.Visible() {
		return false
	}
	if c.WantsScrollEvents == WantsScrollEvents {
		c.scrollTween = nil
		return c.moveTo(c.scrollOffset.Add(delta), sink)
	}

	moved := false
	eachCompositor(&c.ContainerLayer, func(cl *CompositorLayer) {
		if cl.ScrollPolicy == FixedPosition {
			return
		}
		if cl.scroll(delta, viewport, sink) {
			moved = true
		}
	})
	return moved
}

// ScrollTo animates the scroll offset to (x, y) over duration seconds.
// Advance the animation with Update.
func (c *CompositorLayer) ScrollTo(x, y float32, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(c.scrollOffset.X, x, duration, easeFn),
		tweenY: gween.New(c.scrollOffset.Y, y, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *CompositorLayer) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances scroll animations on this layer and every compositor
// layer beneath it by dt seconds.
func (c *CompositorLayer) Update(dt float32) {
	c.update(dt, c.sink)
}

func (c *CompositorLayer) update(dt float32, sink EventSink) {
	if c.sink != nil {
		sink = c.sink
	}
	if c.scrollTween != nil {
		target := c.scrollOffset
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			target.X = val
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			target.Y = val
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
		c.moveTo(target, sink)
	}
	eachCompositor(&c.ContainerLayer, func(cl *CompositorLayer) {
		cl.update(dt, sink)
	})
}

// eachCompositor calls fn for the nearest compositor layers under c, looking
// through plain containers.
func eachCompositor(c *ContainerLayer, fn func(*CompositorLayer)) {
	for child := range c.Children() {
		switch v := child.(type) {
		case *CompositorLayer:
			fn(v)
		case *ContainerLayer:
			eachCompositor(v, fn)
		}
	}
}

// moveTo sets the clamped offset and reports a change to sink.
func (c *CompositorLayer) moveTo(offset geom.Point[float32], sink EventSink) bool {
	old := c.scrollOffset
	c.scrollOffset = c.clampOffset(offset)
	if c.scrollOffset == old {
		return false
	}
	if sink != nil {
		sink.EmitScroll(ScrollEvent{
			LayerID:    c.ID,
			PipelineID: c.PipelineID,
			Offset:     c.scrollOffset,
			Delta:      c.scrollOffset.Sub(old),
		})
	}
	return true
}

// clampOffset keeps the viewport within the page. Before a page size is
// known the offset is pinned to the origin.
func (c *CompositorLayer) clampOffset(p geom.Point[float32]) geom.Point[float32] {
	if !c.hasPageSize {
		return geom.Point[float32]{}
	}
	maxX := math32.Max(0, c.pageSize.Width-c.viewport.Width)
	maxY := math32.Max(0, c.pageSize.Height-c.viewport.Height)
	return geom.Pt(
		math32.Min(maxX, math32.Max(0, p.X)),
		math32.Min(maxY, math32.Max(0, p.Y)),
	)
}
