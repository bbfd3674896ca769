package font

import "fmt"

// hhea is the minimal decoded view of the `hhea` table this package
// needs: numberOfHMetrics, the hinge between the proportional and
// monospaced halves of `hmtx` (spec 4.9, widened per SPEC_FULL 4.10).
type hhea struct {
	NumberOfHMetrics uint16
}

// hheaNumberOfHMetricsOffset is the byte offset of numberOfHMetrics
// within the hhea table, fixed by the SFNT spec regardless of version.
const hheaNumberOfHMetricsOffset = 34

func decodeHhea(data []byte) (*hhea, error) {
	if len(data) < hheaNumberOfHMetricsOffset+2 {
		return nil, fmt.Errorf("hhea: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	r.Seek(hheaNumberOfHMetricsOffset)
	return &hhea{NumberOfHMetrics: r.ReadUint16()}, nil
}

// hmtxLongHorMetric is one (advanceWidth, lsb) pair for a glyph with
// its own metric entry; glyphs beyond NumberOfHMetrics share the last
// entry's advance width and carry only their own lsb.
type hmtxLongHorMetric struct {
	AdvanceWidth uint16
	Lsb          int16
}

type hmtx struct {
	HMetrics         []hmtxLongHorMetric
	LeftSideBearings []int16
}

func decodeHmtx(data []byte, h *hhea, numGlyphs uint16) (*hmtx, error) {
	if h.NumberOfHMetrics == 0 || numGlyphs < h.NumberOfHMetrics {
		return nil, fmt.Errorf("hmtx: %w", ErrInvalidFontData)
	}
	want := 4*uint32(h.NumberOfHMetrics) + 2*uint32(numGlyphs-h.NumberOfHMetrics)
	if uint32(len(data)) != want {
		return nil, fmt.Errorf("hmtx: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	t := &hmtx{
		HMetrics:         make([]hmtxLongHorMetric, h.NumberOfHMetrics),
		LeftSideBearings: make([]int16, numGlyphs-h.NumberOfHMetrics),
	}
	for i := range t.HMetrics {
		t.HMetrics[i].AdvanceWidth = r.ReadUint16()
		t.HMetrics[i].Lsb = r.ReadInt16()
	}
	for i := range t.LeftSideBearings {
		t.LeftSideBearings[i] = r.ReadInt16()
	}
	return t, nil
}

func (t *hmtx) compile() []byte {
	w := newBinaryWriter(make([]byte, 0, 4*len(t.HMetrics)+2*len(t.LeftSideBearings)))
	for _, m := range t.HMetrics {
		w.WriteUint16(m.AdvanceWidth)
		w.WriteInt16(m.Lsb)
	}
	for _, lsb := range t.LeftSideBearings {
		w.WriteInt16(lsb)
	}
	return w.Bytes()
}

// hmtxTransformFlags (spec 4.10): bit 0 set means the proportional
// (HMetrics) lsb values were omitted because they equal glyf's xMin
// via loca; bit 1 set means the same for the monospaced tail.
const (
	hmtxFlagProportionalLsbOmitted = 0x01
	hmtxFlagMonospacedLsbOmitted   = 0x02
)

// transformHmtx builds the version-1 `hmtx` transform payload (spec
// 4.10): a flags byte followed by the advance widths (and any
// non-omitted lsb values), omitting an lsb half entirely when every
// entry in it equals the corresponding glyph's glyf xMin. Returns
// ok=false when the table carries no omittable half at all, in which
// case the caller should store `hmtx` untransformed.
func transformHmtx(f *Font) (payload []byte, ok bool, err error) {
	if f.Glyf == nil {
		return nil, false, nil
	}
	t, err := decodeHmtxFromFont(f)
	if err != nil {
		return nil, false, err
	}

	omitProportional := true
	for i := range t.HMetrics {
		if t.HMetrics[i].Lsb != glyfXMin(f, i) {
			omitProportional = false
			break
		}
	}
	omitMonospaced := len(t.LeftSideBearings) > 0
	for i := range t.LeftSideBearings {
		if t.LeftSideBearings[i] != glyfXMin(f, len(t.HMetrics)+i) {
			omitMonospaced = false
			break
		}
	}
	if !omitProportional && !omitMonospaced {
		return nil, false, nil
	}

	var flags byte
	if omitProportional {
		flags |= hmtxFlagProportionalLsbOmitted
	}
	if omitMonospaced {
		flags |= hmtxFlagMonospacedLsbOmitted
	}
	w := newBinaryWriter(nil)
	w.WriteByte(flags)
	for _, m := range t.HMetrics {
		w.WriteUint16(m.AdvanceWidth)
		if !omitProportional {
			w.WriteInt16(m.Lsb)
		}
	}
	if !omitMonospaced {
		for _, lsb := range t.LeftSideBearings {
			w.WriteInt16(lsb)
		}
	}
	return w.Bytes(), true, nil
}

func decodeHmtxFromFont(f *Font) (*hmtx, error) {
	h, err := decodeHhea(f.Tables["hhea"])
	if err != nil {
		return nil, err
	}
	return decodeHmtx(f.Tables["hmtx"], h, f.NumGlyphs())
}

func glyfXMin(f *Font, glyphID int) int16 {
	if f.Glyf == nil || glyphID >= len(f.Glyf.Glyphs) {
		return 0
	}
	return f.Glyf.Glyphs[glyphID].XMin
}

// reconstructHmtx reverses transformHmtx: given the flags byte and
// remaining payload, plus the already-decoded `hhea`/`glyf` data
// needed to recover any omitted lsb values, rebuilds the full `hmtx`
// table bytes.
func reconstructHmtx(payload []byte, numberOfHMetrics, numGlyphs uint16, glyfTable *glyfTable) ([]byte, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("hmtx transform: %w", ErrTruncated)
	}
	r := newBinaryReader(payload)
	flags := r.ReadByte()
	omitProportional := flags&hmtxFlagProportionalLsbOmitted != 0
	omitMonospaced := flags&hmtxFlagMonospacedLsbOmitted != 0
	if flags&0xFC != 0 {
		return nil, fmt.Errorf("hmtx: %w", ErrReservedBitsSet)
	} else if !omitProportional && !omitMonospaced {
		return nil, fmt.Errorf("hmtx: must reconstruct at least one left side bearing array: %w", ErrInvalidFontData)
	}

	t := &hmtx{
		HMetrics:         make([]hmtxLongHorMetric, numberOfHMetrics),
		LeftSideBearings: make([]int16, numGlyphs-numberOfHMetrics),
	}
	for i := range t.HMetrics {
		t.HMetrics[i].AdvanceWidth = r.ReadUint16()
		if omitProportional {
			t.HMetrics[i].Lsb = glyfTableXMin(glyfTable, i)
		} else {
			t.HMetrics[i].Lsb = r.ReadInt16()
		}
	}
	for i := range t.LeftSideBearings {
		if omitMonospaced {
			t.LeftSideBearings[i] = glyfTableXMin(glyfTable, len(t.HMetrics)+i)
		} else {
			t.LeftSideBearings[i] = r.ReadInt16()
		}
	}
	if r.EOF() {
		return nil, fmt.Errorf("hmtx transform: %w", ErrTruncated)
	}
	return t.compile(), nil
}

func glyfTableXMin(g *glyfTable, glyphID int) int16 {
	if g == nil || glyphID >= len(g.Glyphs) {
		return 0
	}
	return g.Glyphs[glyphID].XMin
}
