package strata

import (
	"testing"

	"github.com/phanxgames/strata/geom"
	"github.com/phanxgames/strata/surface"
)

func newBuffer(ctx *surface.PaintContext, page geom.Rect[float32], res float32) *LayerBuffer {
	screen := geom.PixelRect(page, res)
	return &LayerBuffer{
		NativeSurface: ctx.NewSurface(int(screen.Size.Width), int(screen.Size.Height)),
		Rect:          page,
		ScreenPos:     screen,
		Resolution:    res,
		Stride:        screen.Size.Width,
		RenderIdx:     ctx.Index(),
	}
}

func stateOf(b *LayerBuffer) surface.State {
	return b.NativeSurface.(*surface.ImageSurface).State()
}

// --- LayerBuffer ---

func TestLayerBufferIsValid(t *testing.T) {
	b := &LayerBuffer{Resolution: 1}
	tests := []struct {
		scale float32
		want  bool
	}{
		{1, true},
		{1 + 0.5e-6, true},
		{1 - 0.5e-6, true},
		{1 + 0.99e-6, true},
		{1 + 1.1e-6, false},
		{1 + 2e-6, false},
		{2, false},
		{0.5, false},
	}
	for _, tt := range tests {
		if got := b.IsValid(tt.scale); got != tt.want {
			t.Errorf("IsValid(%v) = %v, want %v", tt.scale, got, tt.want)
		}
	}
}

func TestLayerBufferFootprint(t *testing.T) {
	b := &LayerBuffer{ScreenPos: geom.R[uint](10, 20, 256, 128)}
	if got := b.MemoryFootprint(); got != 256*128 {
		t.Errorf("MemoryFootprint = %d, want %d", got, 256*128)
	}
	if got := b.Size(); got != geom.Sz[uint](256, 128) {
		t.Errorf("Size = %v, want 256x128", got)
	}
}

// --- LayerBufferSet ---

func TestLayerBufferSetDestroy(t *testing.T) {
	ctx := surface.NewPaintContext(0, nil)
	bufs := []*LayerBuffer{
		newBuffer(ctx, geom.R[float32](0, 0, 64, 64), 1),
		newBuffer(ctx, geom.R[float32](64, 0, 64, 64), 1),
	}
	set := NewLayerBufferSet(bufs...)
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
	set.Destroy(ctx)
	if set.Len() != 0 {
		t.Errorf("Len after Destroy = %d, want 0", set.Len())
	}
	for i, b := range bufs {
		if got := stateOf(b); got != surface.StateDestroyed {
			t.Errorf("buffer %d state = %v, want destroyed", i, got)
		}
	}
	if got := ctx.Pooled(); got != 2 {
		t.Errorf("pooled images = %d, want 2", got)
	}
}

func TestLayerBufferSetNil(t *testing.T) {
	var set *LayerBufferSet
	if set.Len() != 0 {
		t.Error("nil set should be empty")
	}
	set.Destroy(nil)
	set.DestroyRouted(nil)
}

func TestLayerBufferSetWillLeakThenDestroyTwice(t *testing.T) {
	ctx := surface.NewPaintContext(0, nil)
	bufs := []*LayerBuffer{
		newBuffer(ctx, geom.R[float32](0, 0, 32, 32), 1),
		newBuffer(ctx, geom.R[float32](32, 0, 32, 32), 1),
	}
	set := NewLayerBufferSet(bufs...)

	set.MarkWillLeak()
	for i, b := range bufs {
		if got := stateOf(b); got != surface.StateWillLeak {
			t.Errorf("buffer %d state = %v, want will-leak", i, got)
		}
	}
	// leaked surfaces tolerate repeated destroys
	for _, b := range bufs {
		b.Destroy(ctx)
		b.Destroy(ctx)
	}
}

func TestLayerBufferSetNilMarks(t *testing.T) {
	var set *LayerBufferSet
	set.MarkWillLeak()
	set.MarkWontLeak()
}

func TestLayerBufferSetMarkWontLeak(t *testing.T) {
	ctx := surface.NewPaintContext(0, nil)
	b := newBuffer(ctx, geom.R[float32](0, 0, 32, 32), 1)
	set := NewLayerBufferSet(b)

	set.MarkWillLeak()
	set.MarkWontLeak()
	if got := stateOf(b); got != surface.StateLive {
		t.Fatalf("state = %v, want live", got)
	}
	b.Destroy(ctx)
	expectPanic(t, "double destroy", func() { b.Destroy(ctx) })
}

func TestLayerBufferSetDestroyRouted(t *testing.T) {
	tracker := surface.NewTracker()
	ctxs := []*surface.PaintContext{
		surface.NewPaintContext(0, tracker),
		surface.NewPaintContext(1, tracker),
	}
	bufs := []*LayerBuffer{
		newBuffer(ctxs[0], geom.R[float32](0, 0, 16, 16), 1),
		newBuffer(ctxs[1], geom.R[float32](16, 0, 16, 16), 1),
		newBuffer(ctxs[1], geom.R[float32](32, 0, 16, 16), 1),
		newBuffer(ctxs[0], geom.R[float32](48, 0, 16, 16), 1),
	}
	bufs[3].RenderIdx = 7
	set := NewLayerBufferSet(bufs...)

	set.DestroyRouted(ctxs)
	if set.Len() != 0 {
		t.Errorf("Len after DestroyRouted = %d, want 0", set.Len())
	}
	if ctxs[0].Pooled() != 1 || ctxs[1].Pooled() != 2 {
		t.Errorf("pooled = (%d, %d), want (1, 2)", ctxs[0].Pooled(), ctxs[1].Pooled())
	}
	for i, b := range bufs {
		if got := stateOf(b); got != surface.StateDestroyed {
			t.Errorf("buffer %d state = %v, want destroyed", i, got)
		}
	}
}
