package strata

import "fmt"

// Format is the pixel layout of a rendered buffer.
type Format uint8

const (
	ARGB32Format Format = iota // 32 bits per pixel, stored B, G, R, X in memory
	RGB24Format                // 24 bits per pixel, stored R, G, B in memory
)

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int {
	switch f {
	case ARGB32Format:
		return 4
	case RGB24Format:
		return 3
	default:
		panic(fmt.Sprintf("strata: unknown format %d", uint8(f)))
	}
}

func (f Format) String() string {
	switch f {
	case ARGB32Format:
		return "ARGB32"
	case RGB24Format:
		return "RGB24"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ConvertRGB32ToRGB24 repacks a 32-bit BGRX pixel buffer as tightly packed
// RGB bytes, dropping the unused channel. A trailing partial pixel is
// ignored.
func ConvertRGB32ToRGB24(buf []byte) []byte {
	n := len(buf) / 4
	out := make([]byte, 0, n*3)
	for i := 0; i+4 <= len(buf); i += 4 {
		out = append(out, buf[i+2], buf[i+1], buf[i])
	}
	return out
}
