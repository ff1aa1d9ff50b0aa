// Package surface provides the native pixel surfaces that back rendered
// tiles, and the paint context they are allocated from and released under.
//
// Surfaces are not garbage-collected resources. Every [NativeSurface] must be
// destroyed exactly once with [NativeSurface.Destroy], or marked with
// [NativeSurface.MarkWillLeak] when its ownership leaves in a way this process
// cannot observe. A [Tracker] audits that rule:
//
//	ctx := surface.NewPaintContext(0, nil)
//	s := ctx.NewSurface(256, 256)
//	// ... paint into s.Image() ...
//	s.Destroy(ctx)
//	fmt.Println(ctx.Tracker().Outstanding()) // []
//
// The [ImageSurface] backend draws into Ebitengine images. Released images go
// back to the context's power-of-two pool and are reused by later surfaces.
package surface
