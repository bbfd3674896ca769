package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func makeHhea(numberOfHMetrics uint16) []byte {
	data := make([]byte, 36)
	data[34] = byte(numberOfHMetrics >> 8)
	data[35] = byte(numberOfHMetrics)
	return data
}

func TestDecodeHhea(t *testing.T) {
	h, err := decodeHhea(makeHhea(5))
	test.Error(t, err)
	test.T(t, h.NumberOfHMetrics, uint16(5))
}

func TestHmtxCompileRoundTrip(t *testing.T) {
	src := &hmtx{
		HMetrics:         []hmtxLongHorMetric{{AdvanceWidth: 500, Lsb: 10}, {AdvanceWidth: 600, Lsb: -5}},
		LeftSideBearings: []int16{3, -7},
	}
	data := src.compile()
	h := &hhea{NumberOfHMetrics: 2}
	got, err := decodeHmtx(data, h, 4)
	test.Error(t, err)
	test.T(t, got.HMetrics, src.HMetrics)
	test.T(t, got.LeftSideBearings, src.LeftSideBearings)
}

func newTestFontWithHmtx(lsbMatchesXMin bool) *Font {
	glyphs := []glyph{
		{NumberOfContours: 0, XMin: 10},
		{NumberOfContours: 0, XMin: 20},
		{NumberOfContours: 0, XMin: 30},
	}
	f := &Font{
		SfntVersion: sfntVersionTrueType,
		Maxp:        &maxp{NumGlyphs: 3},
		Glyf:        &glyfTable{Glyphs: glyphs},
	}
	hh := &hhea{NumberOfHMetrics: 3}
	lsb := []int16{10, 20, 30}
	if !lsbMatchesXMin {
		lsb = []int16{11, 21, 31}
	}
	t := &hmtx{
		HMetrics: []hmtxLongHorMetric{
			{AdvanceWidth: 100, Lsb: lsb[0]},
			{AdvanceWidth: 200, Lsb: lsb[1]},
			{AdvanceWidth: 300, Lsb: lsb[2]},
		},
	}
	f.Tables = map[string][]byte{
		"hhea": makeHhea(hh.NumberOfHMetrics),
		"hmtx": t.compile(),
	}
	return f
}

func TestTransformHmtxOmitsWhenDerivable(t *testing.T) {
	f := newTestFontWithHmtx(true)
	payload, ok, err := transformHmtx(f)
	test.Error(t, err)
	test.T(t, ok, true)
	test.T(t, payload[0], byte(hmtxFlagProportionalLsbOmitted))

	reconstructed, err := reconstructHmtx(payload, 3, 3, f.Glyf)
	test.Error(t, err)
	test.T(t, reconstructed, f.Tables["hmtx"])
}

func TestTransformHmtxSkipsWhenNotDerivable(t *testing.T) {
	f := newTestFontWithHmtx(false)
	_, ok, err := transformHmtx(f)
	test.Error(t, err)
	test.T(t, ok, false)
}

func TestReconstructHmtxRejectsReservedBits(t *testing.T) {
	payload := []byte{0xFC}
	_, err := reconstructHmtx(payload, 0, 0, nil)
	if err == nil {
		test.Fail(t, "expected error")
	}
}

func TestReconstructHmtxRejectsNeitherOmitted(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x64, 0x00, 0x0A}
	_, err := reconstructHmtx(payload, 1, 1, nil)
	if err == nil {
		test.Fail(t, "expected error")
	}
}
