package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectEdges(t *testing.T) {
	r := R[uint](10, 20, 30, 40)
	assert.Equal(t, uint(10), r.MinX())
	assert.Equal(t, uint(20), r.MinY())
	assert.Equal(t, uint(40), r.MaxX())
	assert.Equal(t, uint(60), r.MaxY())
	assert.Equal(t, uint(1200), r.Area())
	assert.False(t, r.IsEmpty())
	assert.True(t, R[uint](1, 1, 0, 5).IsEmpty())
}

func TestRectContains(t *testing.T) {
	r := R[float32](0, 0, 10, 10)
	assert.True(t, r.Contains(Pt[float32](0, 0)))
	assert.True(t, r.Contains(Pt[float32](9.9, 9.9)))
	assert.False(t, r.Contains(Pt[float32](10, 5)))
	assert.False(t, r.Contains(Pt[float32](-1, 5)))
}

func TestRectIntersection(t *testing.T) {
	a := R[float32](0, 0, 10, 10)
	b := R[float32](5, 5, 10, 10)

	got, ok := a.Intersection(b)
	require.True(t, ok)
	assert.Equal(t, R[float32](5, 5, 5, 5), got)

	_, ok = a.Intersection(R[float32](10, 0, 5, 5))
	assert.False(t, ok, "edge-adjacent rects should not intersect")
}

func TestRectTranslate(t *testing.T) {
	r := R[float32](1, 2, 3, 4).Translate(Pt[float32](10, 20))
	assert.Equal(t, R[float32](11, 22, 3, 4), r)
}

func TestPixelRectCoversPage(t *testing.T) {
	tests := []struct {
		page  Rect[float32]
		scale float32
		want  Rect[uint]
	}{
		{R[float32](0, 0, 256, 256), 1, R[uint](0, 0, 256, 256)},
		{R[float32](0, 0, 256, 256), 2, R[uint](0, 0, 512, 512)},
		{R[float32](10.5, 0, 10, 10), 1, R[uint](10, 0, 11, 10)},
		{R[float32](-5, -5, 10, 10), 1, R[uint](0, 0, 5, 5)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PixelRect(tt.page, tt.scale), "page %v @ %v", tt.page, tt.scale)
	}
}

func TestPageRectRoundTrip(t *testing.T) {
	px := R[uint](512, 256, 256, 256)
	assert.Equal(t, R[float32](256, 128, 128, 128), PageRect(px, 2))
	assert.Equal(t, px, PixelRect(PageRect(px, 2), 2))
}

func TestColorRGBA8(t *testing.T) {
	r, g, b, a := Color{1, 0, 0.5, 2}.RGBA8()
	assert.Equal(t, []uint8{255, 0, 128, 255}, []uint8{r, g, b, a})
}

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	assert.True(t, m.IsIdentity())
	p := m.TransformPoint(Pt[float32](3, 4))
	assert.Equal(t, Pt[float32](3, 4), p)
}

func TestMatrixMulOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translation(10, 0, 0).Mul(Scaling(2, 2, 1))
	assert.Equal(t, Pt[float32](12, 2), m.TransformPoint(Pt[float32](1, 1)))

	// Translate first, then scale.
	m = Scaling(2, 2, 1).Mul(Translation(10, 0, 0))
	assert.Equal(t, Pt[float32](22, 2), m.TransformPoint(Pt[float32](1, 1)))
	assert.False(t, m.IsIdentity())
}
