package surface

import (
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		input, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{127, 128},
		{128, 128},
		{129, 256},
		{1000, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPowerOfTwo(tt.input), "nextPowerOfTwo(%d)", tt.input)
	}
}

func TestNewSurfaceIsLive(t *testing.T) {
	ctx := NewPaintContext(3, nil)
	s := ctx.NewSurface(100, 50)

	assert.Equal(t, uint(3), ctx.Index())
	assert.Equal(t, StateLive, s.State())
	assert.Equal(t, 100, s.Bounds().Dx())
	assert.Equal(t, 50, s.Bounds().Dy())
	assert.Equal(t, 100, s.Image().Bounds().Dx(), "image should be clipped to surface bounds")
	assert.Equal(t, []uuid.UUID{s.ID()}, ctx.Tracker().Outstanding())

	s.Destroy(ctx)
}

func TestNewSurfaceInvalidSizePanics(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	assert.Panics(t, func() { ctx.NewSurface(0, 10) })
}

func TestDestroyReturnsImageToPool(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	a := ctx.NewSurface(64, 64)
	img := a.image

	a.Destroy(ctx)
	assert.Equal(t, StateDestroyed, a.State())
	assert.Equal(t, 1, ctx.Pooled())
	assert.Empty(t, ctx.Tracker().Outstanding())

	b := ctx.NewSurface(60, 60)
	assert.Same(t, img, b.image, "pool should hand back the released image")
	assert.Equal(t, 0, ctx.Pooled())
	b.Destroy(ctx)
}

func TestDestroyWithoutContextDeallocates(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	s := ctx.NewSurface(8, 8)
	s.Destroy(nil)
	assert.Equal(t, StateDestroyed, s.State())
	assert.Equal(t, 0, ctx.Pooled())
}

func TestDoubleDestroyPanics(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	s := ctx.NewSurface(8, 8)
	s.Destroy(ctx)
	assert.PanicsWithValue(t, "surface: double destroy of surface "+s.ID().String(), func() {
		s.Destroy(ctx)
	})
}

func TestLeakedSurfaceExemptFromDoubleDestroy(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	s := ctx.NewSurface(8, 8)
	s.MarkWillLeak()
	assert.Equal(t, StateWillLeak, s.State())
	assert.Empty(t, ctx.Tracker().Outstanding(), "leaking surfaces are not outstanding")

	assert.NotPanics(t, func() {
		s.Destroy(ctx)
		s.Destroy(ctx)
	})
}

func TestMarkWontLeakRestoresLive(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	s := ctx.NewSurface(8, 8)
	s.MarkWillLeak()
	s.MarkWontLeak()
	assert.Equal(t, StateLive, s.State())
	assert.Equal(t, 1, ctx.Tracker().Count(StateLive))
	s.Destroy(ctx)
	assert.Equal(t, 1, ctx.Tracker().Count(StateDestroyed))
	runtime.KeepAlive(s)
}

func TestDestroyUnderForeignContextReturnsToOwner(t *testing.T) {
	owner := NewPaintContext(0, nil)
	other := NewPaintContext(1, owner.Tracker())
	s := owner.NewSurface(16, 16)

	s.Destroy(other)
	assert.Equal(t, StateDestroyed, s.State())
	assert.Equal(t, 1, owner.Pooled(), "image goes back to the allocating context")
	assert.Equal(t, 0, other.Pooled())
}

func TestImageOnDestroyedSurfacePanics(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	s := ctx.NewSurface(8, 8)
	s.Destroy(ctx)
	assert.Panics(t, func() { s.Image() })
}

func TestTrackerCollectedCountsOnlyLive(t *testing.T) {
	tr := NewTracker()
	ctx := NewPaintContext(0, tr)

	live := ctx.NewSurface(4, 4)
	leaked := ctx.NewSurface(4, 4)
	leaked.MarkWillLeak()
	done := ctx.NewSurface(4, 4)
	done.Destroy(ctx)

	// Simulate the GC cleanups directly; runtime timing is not deterministic.
	tr.collected(live.ID())
	tr.collected(leaked.ID())
	tr.collected(done.ID())

	require.Equal(t, 1, tr.Dropped())
	assert.Empty(t, tr.Outstanding())
	assert.Equal(t, 0, tr.Count(StateWillLeak))
}

func TestPurgeEmptiesPool(t *testing.T) {
	ctx := NewPaintContext(0, nil)
	ctx.NewSurface(16, 16).Destroy(ctx)
	ctx.NewSurface(32, 32).Destroy(ctx)
	require.Equal(t, 2, ctx.Pooled())
	ctx.Purge()
	assert.Equal(t, 0, ctx.Pooled())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "live", StateLive.String())
	assert.Equal(t, "will-leak", StateWillLeak.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
