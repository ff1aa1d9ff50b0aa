package strata

import (
	"bytes"
	"testing"
)

func TestFormatBytesPerPixel(t *testing.T) {
	if got := ARGB32Format.BytesPerPixel(); got != 4 {
		t.Errorf("ARGB32 = %d, want 4", got)
	}
	if got := RGB24Format.BytesPerPixel(); got != 3 {
		t.Errorf("RGB24 = %d, want 3", got)
	}
	expectPanic(t, "unknown format", func() { Format(9).BytesPerPixel() })
}

func TestConvertRGB32ToRGB24(t *testing.T) {
	// two pixels stored B, G, R, X
	in := []byte{
		0x10, 0x20, 0x30, 0xff,
		0x01, 0x02, 0x03, 0x00,
	}
	want := []byte{0x30, 0x20, 0x10, 0x03, 0x02, 0x01}
	if got := ConvertRGB32ToRGB24(in); !bytes.Equal(got, want) {
		t.Errorf("ConvertRGB32ToRGB24 = %x, want %x", got, want)
	}
}

func TestConvertRGB32ToRGB24Partial(t *testing.T) {
	got := ConvertRGB32ToRGB24([]byte{1, 2, 3, 4, 5, 6})
	if !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("trailing partial pixel should be ignored, got %x", got)
	}
	if got := ConvertRGB32ToRGB24(nil); len(got) != 0 {
		t.Errorf("empty input gave %x", got)
	}
}
