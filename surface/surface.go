package surface

import (
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/strata/internal/logging"
)

// NativeSurface is a platform pixel buffer whose lifetime is managed by hand.
// It is never reclaimed implicitly: every surface must be destroyed exactly
// once, or marked as an intentional leak when ownership leaves the process or
// goroutine in a way the tracker cannot observe.
type NativeSurface interface {
	// MarkWillLeak records that the surface is being handed off and may be
	// dropped without Destroy.
	MarkWillLeak()
	// MarkWontLeak undoes MarkWillLeak once the surface is owned locally again.
	MarkWontLeak()
	// Destroy releases the surface under the given paint context.
	Destroy(ctx *PaintContext)
}

// State is the lifecycle state of a surface.
type State uint8

const (
	StateLive      State = iota // owned, must be destroyed
	StateWillLeak                // handed off; may be dropped
	StateDestroyed               // released
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateWillLeak:
		return "will-leak"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ImageSurface is a NativeSurface backed by an ebiten.Image. The image may be
// larger than the surface (pooled images are power-of-two sized); Image
// returns a sub-image of the requested bounds.
type ImageSurface struct {
	id      uuid.UUID
	image   *ebiten.Image
	w, h    int
	leaking bool
	freed   bool
	tracker *Tracker
	owner   *PaintContext
}

var _ NativeSurface = (*ImageSurface)(nil)

// ID returns the surface's unique identity.
func (s *ImageSurface) ID() uuid.UUID {
	return s.id
}

// Image returns the drawable image, sized to the surface bounds.
// Panics if the surface has been destroyed.
func (s *ImageSurface) Image() *ebiten.Image {
	if s.freed {
		panic(fmt.Sprintf("surface: Image on destroyed surface %s", s.id))
	}
	b := s.image.Bounds()
	if b.Dx() == s.w && b.Dy() == s.h {
		return s.image
	}
	return s.image.SubImage(image.Rect(0, 0, s.w, s.h)).(*ebiten.Image)
}

// Bounds returns the surface size in pixels.
func (s *ImageSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.w, s.h)
}

// State reports the current lifecycle state.
func (s *ImageSurface) State() State {
	switch {
	case s.freed:
		return StateDestroyed
	case s.leaking:
		return StateWillLeak
	default:
		return StateLive
	}
}

// MarkWillLeak implements NativeSurface.
func (s *ImageSurface) MarkWillLeak() {
	if s.freed {
		return
	}
	s.leaking = true
	s.tracker.setState(s.id, StateWillLeak)
}

// MarkWontLeak implements NativeSurface.
func (s *ImageSurface) MarkWontLeak() {
	if s.freed {
		return
	}
	s.leaking = false
	s.tracker.setState(s.id, StateLive)
}

// Destroy returns the image to the pool of the context that allocated it, or
// deallocates it when ctx is nil. A ctx other than the allocating one is
// logged and the image still goes back to its own pool.
// Destroying a live surface twice panics. Surfaces marked will-leak are
// exempt: repeated destroys are ignored.
func (s *ImageSurface) Destroy(ctx *PaintContext) {
	if s.freed {
		if s.leaking {
			logging.Logger().Debug("surface: ignoring repeated destroy of leaked surface",
				"id", s.id)
			return
		}
		panic(fmt.Sprintf("surface: double destroy of surface %s", s.id))
	}
	s.freed = true
	if ctx != nil {
		if ctx != s.owner {
			logging.Logger().Warn("surface: destroyed under a foreign paint context",
				"id", s.id, "context", ctx.index, "owner", s.owner.index)
		}
		s.owner.pool.release(s.image)
	} else {
		s.image.Deallocate()
	}
	s.image = nil
	s.tracker.setState(s.id, StateDestroyed)
}
