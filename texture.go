package strata

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/strata/geom"
)

// Flip selects how a texture is oriented when drawn.
type Flip uint8

const (
	NoFlip       Flip = iota // drawn as stored
	VerticalFlip             // drawn upside down, for bottom-up GPU readbacks
)

// TextureLayer is a leaf layer that displays a single GPU texture.
type TextureLayer struct {
	layerHeader

	// Texture is the GPU texture handle.
	Texture *ebiten.Image
	// Flip tells the compositor whether the texture is stored upside down.
	Flip Flip

	size geom.Size[uint]
}

// NewTextureLayer creates a detached texture layer. A zero size is taken from
// the texture's bounds.
func NewTextureLayer(texture *ebiten.Image, size geom.Size[uint], flip Flip) *TextureLayer {
	if size == (geom.Size[uint]{}) && texture != nil {
		b := texture.Bounds()
		size = geom.Sz(uint(b.Dx()), uint(b.Dy()))
	}
	t := &TextureLayer{Texture: texture, Flip: flip, size: size}
	t.common = newCommonLayer()
	return t
}

// Kind implements Layer.
func (t *TextureLayer) Kind() LayerKind { return LayerKindTexture }

// Size returns the texture size in pixels.
func (t *TextureLayer) Size() geom.Size[uint] { return t.size }
