// Package strata is the layer tree of a compositor: a retained tree of
// container, texture and compositor layers, plus the tile caches that hold
// rendered page content for the compositor layers.
//
// # Layer tree
//
// Every node is a [Layer]. The concrete variants are [ContainerLayer],
// [TextureLayer] and [CompositorLayer]. Containers hold an ordered child list;
// a compositor layer is a container that also owns a tile cache and a scroll
// offset.
//
//	root := strata.NewContainerLayer()
//	page := strata.NewCompositorLayer(strata.CompositorLayerOptions{
//		ID:       strata.NewLayerID(1, 0),
//		PageSize: &geom.Size[float32]{Width: 800, Height: 4000},
//	})
//	root.AddChildEnd(page)
//
// A layer may sit in at most one child list. Attaching a layer that is still
// attached, or removing a layer from a container that does not hold it,
// panics. [ContainerLayer.RemoveChild] clears the removed layer's links, so
// it can be attached again.
//
// The per-node header ([CommonLayer]) is reached through
// [Layer.WithCommon]. Borrowing the same node's header again from inside the
// callback panics.
//
// # Tiles
//
// Rendered content is delivered as a [LayerBufferSet]. Each [LayerBuffer]
// wraps a native surface (see package surface) that must be destroyed
// explicitly. Buffers are added to a compositor layer with
// [CompositorLayer.AddBuffers], tagged with the layout [Epoch] they were
// rendered for. Buffers from a stale epoch are handed back untouched.
//
//	reqs, stale := page.BufferRequests(window, scale)
//	stale.Destroy(ctx)
//	set := paint(reqs) // caller's renderer
//	unused, ok := page.AddBuffers(set, page.Epoch())
//	if !ok {
//		set.Destroy(ctx)
//	}
//	unused.Destroy(ctx)
//
// # Scrolling
//
// [CompositorLayer.Scroll] moves layers that want scroll events and forwards
// the delta to scrollable descendants otherwise. [CompositorLayer.ScrollTo]
// animates the offset with [gween]; call [CompositorLayer.Update] each frame.
// Offset changes are reported to an [EventSink]; the strata/ecs module
// provides one that publishes into a [Donburi] world.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package strata
