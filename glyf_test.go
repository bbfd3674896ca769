package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestPackTripletExample(t *testing.T) {
	// spec's worked example: dx=0, dy=10, onCurve=true encodes to flag
	// code 1 with a single glyph byte of 10.
	flagStream := newBinaryWriter(nil)
	glyphStream := newBinaryWriter(nil)
	packTriplet(flagStream, glyphStream, 0, 10, true)
	test.T(t, flagStream.Bytes(), []byte{1})
	test.T(t, glyphStream.Bytes(), []byte{10})
}

func TestTripletRoundTrip(t *testing.T) {
	var points = []struct{ dx, dy int32 }{
		{0, 10}, {0, -10}, {0, 1279}, {0, -1279},
		{10, 0}, {-10, 0}, {1279, 0}, {-1279, 0},
		{1, 1}, {-1, -1}, {64, 64}, {-64, -64},
		{100, 200}, {-100, -200}, {768, 768}, {-768, -768},
		{2000, 3000}, {-2000, -3000}, {4095, 4095}, {-4095, -4095},
		{20000, -30000}, {-32000, 32000},
	}
	for _, onCurve := range []bool{true, false} {
		for _, p := range points {
			flagStream := newBinaryWriter(nil)
			glyphStream := newBinaryWriter(nil)
			packTriplet(flagStream, glyphStream, p.dx, p.dy, onCurve)

			cursor := &tripletCursor{
				flags: newBinaryReader(flagStream.Bytes()),
				g:     newBinaryReader(glyphStream.Bytes()),
			}
			dx, dy, got, err := cursor.next()
			test.Error(t, err)
			test.T(t, dx, p.dx)
			test.T(t, dy, p.dy)
			test.T(t, got, onCurve)
		}
	}
}

func TestBBoxBitmapSize(t *testing.T) {
	// numGlyphs=9 needs 2 bytes of bits, rounded up to a 4-byte boundary.
	test.T(t, (9+31)>>5<<2, 4)
	test.T(t, (32+31)>>5<<2, 4)
	test.T(t, (33+31)>>5<<2, 8)
}

func TestNeedsExplicitBBox(t *testing.T) {
	g := &glyph{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	c := &contour{XCoordinates: []int16{0, 10, 5}, YCoordinates: []int16{0, 10, 3}}
	test.T(t, needsExplicitBBox(g, c), false)

	g2 := &glyph{XMin: -5, YMin: 0, XMax: 10, YMax: 10}
	test.T(t, needsExplicitBBox(g2, c), true)
}
