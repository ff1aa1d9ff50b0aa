package surface

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// imagePool manages reusable offscreen ebiten.Images keyed by power-of-two
// dimensions. After warmup, acquire/release are zero-alloc.
type imagePool struct {
	buckets map[uint64][]*ebiten.Image
	pooled  int
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// acquire returns a cleared image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *imagePool) acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			stack[len(stack)-1] = nil
			p.buckets[key] = stack[:len(stack)-1]
			p.pooled--
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// release returns an image to the pool. The image is cleared on the next
// acquire, not here.
func (p *imagePool) release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
	p.pooled++
}

// purge deallocates every pooled image.
func (p *imagePool) purge() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
	p.pooled = 0
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
