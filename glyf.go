package font

import "fmt"

// loca holds the `loca` table's index: one offset per glyph into
// `glyf`, plus a final sentinel at position len(Offsets)-1 (spec 3,
// GLOSSARY). Format 0 is the short (u16, halved) encoding, Format 1
// is the long (u32) encoding (spec 4.8.5).
type loca struct {
	Format  int
	Offsets []uint32
}

func (l *loca) NumGlyphs() uint16 {
	if len(l.Offsets) == 0 {
		return 0
	}
	return uint16(len(l.Offsets) - 1)
}

// decompileLoca parses a raw `loca` table payload given the index
// format and the number of glyphs declared by `maxp`.
func decompileLoca(data []byte, format int, numGlyphs uint16) (*loca, error) {
	entrySize := 2
	if format != 0 {
		entrySize = 4
	}
	want := (int(numGlyphs) + 1) * entrySize
	if len(data) != want {
		return nil, fmt.Errorf("loca: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	offsets := make([]uint32, numGlyphs+1)
	for i := range offsets {
		if format == 0 {
			offsets[i] = uint32(r.ReadUint16()) * 2
		} else {
			offsets[i] = r.ReadUint32()
		}
	}
	return &loca{Format: format, Offsets: offsets}, nil
}

// compile serializes the loca index back to bytes. Fails with
// ErrInvalidIndexFormat if a short-format offset is odd or exceeds the
// representable range (spec 4.8.5).
func (l *loca) compile() ([]byte, error) {
	entrySize := uint32(2)
	if l.Format != 0 {
		entrySize = 4
	}
	w := newBinaryWriter(make([]byte, 0, int(entrySize)*len(l.Offsets)))
	for _, off := range l.Offsets {
		if l.Format == 0 {
			if off&1 != 0 || off > 2*0xFFFF {
				return nil, fmt.Errorf("loca: %w", ErrInvalidIndexFormat)
			}
			w.WriteUint16(uint16(off / 2))
		} else {
			w.WriteUint32(off)
		}
	}
	return w.Bytes(), nil
}

// contour is the decoded point data of a simple glyph (spec 4.8.1).
// Coordinates are absolute: decompile accumulates the on-disk SFNT
// deltas and compile writes deltas back; the WOFF2 transform likewise
// derives relative deltas from these when it encodes (spec 4.8.3).
type contour struct {
	XMin, YMin, XMax, YMax int16
	EndPoints              []uint16
	Instructions           []byte
	OnCurve                []bool
	OverlapSimple          []bool
	XCoordinates           []int16
	YCoordinates           []int16
}

// glyph is one decoded entry of the `glyf` table (spec 4.8.1). Exactly
// one of (Contour == nil && NumberOfContours == 0), (Contour != nil),
// or (Composite != nil) holds.
type glyph struct {
	NumberOfContours       int16
	XMin, YMin, XMax, YMax int16
	Contour                *contour // simple glyph, NumberOfContours > 0
	Composite              []byte   // composite component records, byte-identical to SFNT (spec 4.8.2), NumberOfContours < 0
	CompositeInstructions  []byte
}

func (g *glyph) IsEmpty() bool {
	return g.NumberOfContours == 0
}

func (g *glyph) IsComposite() bool {
	return g.NumberOfContours < 0
}

// glyfTable is the decoded `glyf` table: one glyph record per glyph ID.
type glyfTable struct {
	Glyphs []glyph
}

// decompileGlyf splits a raw `glyf` payload into per-glyph records
// using loca's offsets (spec 4.9 `decompile`).
func decompileGlyf(data []byte, l *loca) (*glyfTable, error) {
	numGlyphs := l.NumGlyphs()
	glyphs := make([]glyph, numGlyphs)
	for i := uint16(0); i < numGlyphs; i++ {
		start, end := l.Offsets[i], l.Offsets[i+1]
		if end < start || uint32(len(data)) < end {
			return nil, fmt.Errorf("glyf: %w", ErrInvalidFontData)
		}
		g, err := decompileOneGlyph(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("glyf: glyph %d: %w", i, err)
		}
		glyphs[i] = *g
	}
	return &glyfTable{Glyphs: glyphs}, nil
}

func decompileOneGlyph(b []byte) (*glyph, error) {
	if len(b) == 0 {
		return &glyph{}, nil
	}
	r := newBinaryReader(b)
	if r.Len() < 10 {
		return nil, ErrTruncated
	}
	numberOfContours := r.ReadInt16()
	xMin := r.ReadInt16()
	yMin := r.ReadInt16()
	xMax := r.ReadInt16()
	yMax := r.ReadInt16()

	g := &glyph{NumberOfContours: numberOfContours, XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
	if 0 <= numberOfContours {
		c, err := decompileSimpleContour(r, numberOfContours, xMin, yMin, xMax, yMax)
		if err != nil {
			return nil, err
		}
		g.Contour = c
		return g, nil
	}

	// composite glyph: keep the component stream byte-identical and
	// pull the trailing instruction block out separately, as the
	// WOFF2 transform stores them in different streams (spec 4.8.2).
	start := r.Len()
	_ = start
	bodyStart := uint32(10)
	hasInstructions := false
	for {
		if r.Len() < 4 {
			return nil, ErrTruncated
		}
		flags := r.ReadUint16()
		_ = r.ReadUint16() // glyphIndex
		n, more := glyfCompositeLength(flags)
		if r.Len() < n-4 {
			return nil, ErrTruncated
		}
		_ = r.ReadBytes(n - 4)
		if flags&0x0100 != 0 {
			hasInstructions = true
		}
		if !more {
			break
		}
	}
	bodyEnd := uint32(len(b)) - r.Len()
	g.Composite = b[bodyStart:bodyEnd:bodyEnd]
	if hasInstructions {
		instrLen := r.ReadUint16()
		g.CompositeInstructions = r.ReadBytes(uint32(instrLen))
		if r.EOF() {
			return nil, ErrTruncated
		}
	}
	return g, nil
}

func decompileSimpleContour(r *binaryReader, numberOfContours int16, xMin, yMin, xMax, yMax int16) (*contour, error) {
	c := &contour{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
	if numberOfContours == 0 {
		return c, nil
	}
	c.EndPoints = make([]uint16, numberOfContours)
	for i := range c.EndPoints {
		c.EndPoints[i] = r.ReadUint16()
	}
	instructionLength := r.ReadUint16()
	c.Instructions = r.ReadBytes(uint32(instructionLength))
	if r.EOF() {
		return nil, ErrTruncated
	}

	numPoints := int(c.EndPoints[len(c.EndPoints)-1]) + 1
	flags := make([]byte, numPoints)
	c.OnCurve = make([]bool, numPoints)
	c.OverlapSimple = make([]bool, numPoints)
	for i := 0; i < numPoints; i++ {
		flags[i] = r.ReadByte()
		c.OnCurve[i] = flags[i]&0x01 != 0
		c.OverlapSimple[i] = flags[i]&0x40 != 0
		if flags[i]&0x08 != 0 { // REPEAT_FLAG
			repeats := int(r.ReadByte())
			for j := 1; j <= repeats && i+j < numPoints; j++ {
				flags[i+j] = flags[i]
				c.OnCurve[i+j] = c.OnCurve[i]
				c.OverlapSimple[i+j] = c.OverlapSimple[i]
			}
			i += repeats
		}
	}
	if r.EOF() {
		return nil, ErrTruncated
	}

	var x int16
	c.XCoordinates = make([]int16, numPoints)
	for i := 0; i < numPoints; i++ {
		shortVector := flags[i]&0x02 != 0
		sameOrPositive := flags[i]&0x10 != 0
		if shortVector {
			if sameOrPositive {
				x += int16(r.ReadByte())
			} else {
				x -= int16(r.ReadByte())
			}
		} else if !sameOrPositive {
			x += r.ReadInt16()
		}
		c.XCoordinates[i] = x
	}

	var y int16
	c.YCoordinates = make([]int16, numPoints)
	for i := 0; i < numPoints; i++ {
		shortVector := flags[i]&0x04 != 0
		sameOrPositive := flags[i]&0x20 != 0
		if shortVector {
			if sameOrPositive {
				y += int16(r.ReadByte())
			} else {
				y -= int16(r.ReadByte())
			}
		} else if !sameOrPositive {
			y += r.ReadInt16()
		}
		c.YCoordinates[i] = y
	}
	if r.EOF() {
		return nil, ErrTruncated
	}
	return c, nil
}

// glyfCompositeLength returns the byte length of one composite
// component record (including its 4-byte flags+glyphIndex header) and
// whether another component follows.
func glyfCompositeLength(flags uint16) (length uint32, more bool) {
	length = 4 + 2
	if flags&0x0001 != 0 { // ARG_1_AND_2_ARE_WORDS
		length += 2
	}
	if flags&0x0008 != 0 { // WE_HAVE_A_SCALE
		length += 2
	} else if flags&0x0040 != 0 { // WE_HAVE_AN_X_AND_Y_SCALE
		length += 4
	} else if flags&0x0080 != 0 { // WE_HAVE_A_TWO_BY_TWO
		length += 8
	}
	more = flags&0x0020 != 0 // MORE_COMPONENTS
	return
}

// compile concatenates glyph records back into a `glyf` payload,
// padding each to a 4-byte boundary, and refreshes the companion loca
// index in place (spec 4.9 `compile`).
func (g *glyfTable) compile(l *loca) ([]byte, error) {
	w := newBinaryWriter(nil)
	offsets := make([]uint32, len(g.Glyphs)+1)
	for i := range g.Glyphs {
		offsets[i] = w.Len()
		if err := writeOneGlyph(w, &g.Glyphs[i]); err != nil {
			return nil, fmt.Errorf("glyf: glyph %d: %w", i, err)
		}
		for w.Len()%4 != 0 {
			w.WriteByte(0)
		}
	}
	offsets[len(g.Glyphs)] = w.Len()
	l.Offsets = offsets
	return w.Bytes(), nil
}

func writeOneGlyph(w *binaryWriter, g *glyph) error {
	if g.IsEmpty() {
		return nil
	}
	w.WriteInt16(g.NumberOfContours)
	w.WriteInt16(g.XMin)
	w.WriteInt16(g.YMin)
	w.WriteInt16(g.XMax)
	w.WriteInt16(g.YMax)
	if g.Contour != nil {
		c := g.Contour
		for _, ep := range c.EndPoints {
			w.WriteUint16(ep)
		}
		w.WriteUint16(uint16(len(c.Instructions)))
		w.WriteBytes(c.Instructions)
		for i := range c.XCoordinates {
			var flag byte
			if c.OnCurve[i] {
				flag |= 0x01
			}
			if c.OverlapSimple[i] {
				flag |= 0x40
			}
			w.WriteByte(flag)
		}
		var px, py int16
		for _, x := range c.XCoordinates {
			w.WriteInt16(x - px)
			px = x
		}
		for _, y := range c.YCoordinates {
			w.WriteInt16(y - py)
			py = y
		}
		return nil
	}
	w.WriteBytes(g.Composite)
	if g.CompositeInstructions != nil {
		w.WriteUint16(uint16(len(g.CompositeInstructions)))
		w.WriteBytes(g.CompositeInstructions)
	}
	return nil
}
