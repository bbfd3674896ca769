package font

import "fmt"

// transformedGlyfHeaderSize is the fixed 36-byte header preceding the
// seven glyf/loca transform substreams (spec 4.8.2).
const transformedGlyfHeaderSize = 36

// withSign applies the sign carried in bit 0 (or, for the y
// coordinate, bit 1) of a triplet flag code: set means positive,
// clear means negative (spec 4.8.3).
func withSign(signBit bool, magnitude int32) int32 {
	if signBit {
		return magnitude
	}
	return -magnitude
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// packTriplet appends one point's flag byte and 1-4 glyphStream bytes
// for the relative delta (dx, dy), choosing the shortest row whose
// condition holds (spec 4.8.3).
func packTriplet(flagStream, glyphStream *binaryWriter, dx, dy int32, onCurve bool) {
	absX, absY := abs32(dx), abs32(dy)
	xSign := byte(0)
	if dx >= 0 {
		xSign = 1
	}
	ySign := byte(0)
	if dy >= 0 {
		ySign = 1
	}

	var code byte
	switch {
	case dx == 0 && absY < 1280:
		high := byte(absY >> 8)
		code = high<<1 | ySign
		glyphStream.WriteByte(byte(absY))
	case dy == 0 && absX < 1280:
		high := byte(absX >> 8)
		code = 10 + high<<1 + xSign
		glyphStream.WriteByte(byte(absX))
	case absX < 65 && absY < 65:
		xm1, ym1 := absX-1, absY-1
		b0 := byte(xm1>>4&0x3)<<4 | byte(ym1>>4&0x3)<<2
		b1 := byte(xm1&0xF)<<4 | byte(ym1&0xF)
		code = 20 + b0 + 2*ySign + xSign
		glyphStream.WriteByte(b1)
	case absX < 769 && absY < 769:
		xm1, ym1 := absX-1, absY-1
		hiX, loX := byte(xm1>>8), byte(xm1)
		hiY, loY := byte(ym1>>8), byte(ym1)
		b0 := hiX*12 + hiY*4
		code = 84 + b0 + 2*ySign + xSign
		glyphStream.WriteByte(loX)
		glyphStream.WriteByte(loY)
	case absX < 4096 && absY < 4096:
		byte0 := byte(absX >> 4)
		nibHigh := byte(absX & 0xF)
		nibLow := byte(absY >> 8)
		byte2 := byte(absY)
		code = 120 + 2*ySign + xSign
		glyphStream.WriteByte(byte0)
		glyphStream.WriteByte(nibHigh<<4 | nibLow)
		glyphStream.WriteByte(byte2)
	default:
		code = 124 + 2*ySign + xSign
		glyphStream.WriteByte(byte(absX >> 8))
		glyphStream.WriteByte(byte(absX))
		glyphStream.WriteByte(byte(absY >> 8))
		glyphStream.WriteByte(byte(absY))
	}

	flag := code
	if !onCurve {
		flag |= 0x80
	}
	flagStream.WriteByte(flag)
}

// tripletCursor walks the shared flagStream/glyphStream pair across
// every glyph's points in sequence; per-glyph instructionLength
// values live interleaved in the same glyphStream reader (spec
// 4.8.2), so callers read those directly off cursor.g between calls
// to next().
type tripletCursor struct {
	flags *binaryReader
	g     *binaryReader // shared glyphStream cursor
}

func (t *tripletCursor) next() (dx, dy int32, onCurve bool, err error) {
	if t.flags.EOF() || t.flags.Len() == 0 {
		return 0, 0, false, fmt.Errorf("glyf: %w", ErrShortFlagStream)
	}
	raw := t.flags.ReadByte()
	onCurve = raw&0x80 == 0
	flag := raw & 0x7F

	need := uint32(1)
	switch {
	case flag < 84:
		need = 1
	case flag < 120:
		need = 2
	case flag < 124:
		need = 3
	default:
		need = 4
	}
	if t.g.Len() < need {
		return 0, 0, false, fmt.Errorf("glyf: %w", ErrTransformedGlyfSizeMismatch)
	}
	b := t.g.ReadBytes(need)
	xSign := flag&1 != 0
	ySign := flag>>1&1 != 0

	switch {
	case flag < 10:
		dx = 0
		dy = withSign(xSign, int32(flag&14)<<7+int32(b[0]))
	case flag < 20:
		dx = withSign(xSign, int32((flag-10)&14)<<7+int32(b[0]))
		dy = 0
	case flag < 84:
		b0 := int32(flag - 20)
		dx = withSign(xSign, 1+(b0&0x30)+int32(b[0]>>4))
		dy = withSign(ySign, 1+((b0&0x0c)<<2)+int32(b[0]&0x0f))
	case flag < 120:
		b0 := int32(flag - 84)
		dx = withSign(xSign, 1+(b0/12)<<8+int32(b[0]))
		dy = withSign(ySign, 1+((b0%12)>>2)<<8+int32(b[1]))
	case flag < 124:
		dx = withSign(xSign, int32(b[0])<<4+int32(b[1]>>4))
		dy = withSign(ySign, int32(b[1]&0x0f)<<8+int32(b[2]))
	default:
		dx = withSign(xSign, int32(b[0])<<8+int32(b[1]))
		dy = withSign(ySign, int32(b[2])<<8+int32(b[3]))
	}
	return dx, dy, onCurve, nil
}

// transformGlyf builds the transformed `glyf` table payload (spec
// 4.8.2) from f.Glyf, for WOFF2 encoding. f.Head supplies indexFormat.
func transformGlyf(f *Font) ([]byte, error) {
	if f.Glyf == nil || f.Head == nil {
		return nil, fmt.Errorf("glyf transform: %w", ErrInvalidFontData)
	}
	numGlyphs := uint16(len(f.Glyf.Glyphs))
	indexFormat := uint16(f.Head.IndexToLocFormat)

	nContourStream := newBinaryWriter(nil)
	nPointsStream := newBinaryWriter(nil)
	flagStream := newBinaryWriter(nil)
	glyphStream := newBinaryWriter(nil)
	compositeStream := newBinaryWriter(nil)
	instructionStream := newBinaryWriter(nil)
	bboxData := newBinaryWriter(nil)

	bitmapSize := (int(numGlyphs) + 31) >> 5 << 2
	bitmap := make([]byte, bitmapSize)
	bw := newBitmapWriter(bitmap)

	for i := range f.Glyf.Glyphs {
		g := &f.Glyf.Glyphs[i]
		nContourStream.WriteInt16(g.NumberOfContours)

		switch {
		case g.IsEmpty():
			bw.Write(false)
		case g.IsComposite():
			compositeStream.WriteBytes(g.Composite)
			bw.Write(true)
			bboxData.WriteInt16(g.XMin)
			bboxData.WriteInt16(g.YMin)
			bboxData.WriteInt16(g.XMax)
			bboxData.WriteInt16(g.YMax)
			if g.CompositeInstructions != nil {
				glyphStream.WriteBytes(pack255Uint16(uint16(len(g.CompositeInstructions))))
				instructionStream.WriteBytes(g.CompositeInstructions)
			}
		default:
			c := g.Contour
			prevEnd := -1
			var px, py int32
			explicitBBox := needsExplicitBBox(g, c)
			bw.Write(explicitBBox)
			if explicitBBox {
				bboxData.WriteInt16(g.XMin)
				bboxData.WriteInt16(g.YMin)
				bboxData.WriteInt16(g.XMax)
				bboxData.WriteInt16(g.YMax)
			}
			for _, end := range c.EndPoints {
				count := int(end) - prevEnd
				nPointsStream.WriteBytes(pack255Uint16(uint16(count)))
				prevEnd = int(end)
			}
			for i := range c.XCoordinates {
				x, y := int32(c.XCoordinates[i]), int32(c.YCoordinates[i])
				packTriplet(flagStream, glyphStream, x-px, y-py, c.OnCurve[i])
				px, py = x, y
			}
			glyphStream.WriteBytes(pack255Uint16(uint16(len(c.Instructions))))
			instructionStream.WriteBytes(c.Instructions)
		}
	}

	bboxStream := newBinaryWriter(nil)
	bboxStream.WriteBytes(bitmap)
	bboxStream.WriteBytes(bboxData.Bytes())

	w := newBinaryWriter(make([]byte, 0, transformedGlyfHeaderSize))
	w.WriteUint32(0) // version
	w.WriteUint16(numGlyphs)
	w.WriteUint16(indexFormat)
	w.WriteUint32(nContourStream.Len())
	w.WriteUint32(nPointsStream.Len())
	w.WriteUint32(flagStream.Len())
	w.WriteUint32(glyphStream.Len())
	w.WriteUint32(compositeStream.Len())
	w.WriteUint32(bboxStream.Len())
	w.WriteUint32(instructionStream.Len())
	w.WriteBytes(nContourStream.Bytes())
	w.WriteBytes(nPointsStream.Bytes())
	w.WriteBytes(flagStream.Bytes())
	w.WriteBytes(glyphStream.Bytes())
	w.WriteBytes(compositeStream.Bytes())
	w.WriteBytes(bboxStream.Bytes())
	w.WriteBytes(instructionStream.Bytes())
	return w.Bytes(), nil
}

// needsExplicitBBox implements the bbox policy of spec 4.8.4: the
// bitmap bit is set only when the stored bbox differs from the bbox
// recomputed from absolute coordinates.
func needsExplicitBBox(g *glyph, c *contour) bool {
	if len(c.XCoordinates) == 0 {
		return g.XMin != 0 || g.YMin != 0 || g.XMax != 0 || g.YMax != 0
	}
	xMin, yMin := c.XCoordinates[0], c.YCoordinates[0]
	xMax, yMax := xMin, yMin
	for i := 1; i < len(c.XCoordinates); i++ {
		if c.XCoordinates[i] < xMin {
			xMin = c.XCoordinates[i]
		}
		if c.XCoordinates[i] > xMax {
			xMax = c.XCoordinates[i]
		}
		if c.YCoordinates[i] < yMin {
			yMin = c.YCoordinates[i]
		}
		if c.YCoordinates[i] > yMax {
			yMax = c.YCoordinates[i]
		}
	}
	return xMin != g.XMin || yMin != g.YMin || xMax != g.XMax || yMax != g.YMax
}

// reconstructGlyfLoca parses a transformed `glyf` table (spec 4.8.2,
// 4.8.5) and returns the rebuilt, padded `glyf` and `loca` table
// bytes. origLocaLength is the directory entry's origLength for the
// companion `loca` table (spec 4.8.5's round-trip check).
func reconstructGlyfLoca(transformed []byte, origLocaLength uint32) (glyfBytes, locaBytes []byte, numGlyphs uint16, indexFormat int, err error) {
	if len(transformed) < transformedGlyfHeaderSize {
		return nil, nil, 0, 0, fmt.Errorf("glyf transform header: %w", ErrTruncated)
	}
	r := newBinaryReader(transformed)
	_ = r.ReadUint32() // version
	numGlyphs = r.ReadUint16()
	indexFormatU16 := r.ReadUint16()
	indexFormat = int(indexFormatU16)
	sizes := make([]uint32, 7)
	for i := range sizes {
		sizes[i] = r.ReadUint32()
	}
	var total uint32 = transformedGlyfHeaderSize
	for _, s := range sizes {
		total += s
	}
	if total != uint32(len(transformed)) {
		return nil, nil, 0, 0, fmt.Errorf("glyf transform: %w", ErrTransformedGlyfSizeMismatch)
	}

	nContourStream := newBinaryReader(r.ReadBytes(sizes[0]))
	nPointsStream := newBinaryReader(r.ReadBytes(sizes[1]))
	flagStream := newBinaryReader(r.ReadBytes(sizes[2]))
	glyphStreamBytes := r.ReadBytes(sizes[3])
	compositeStream := newBinaryReader(r.ReadBytes(sizes[4]))
	bboxStreamBytes := r.ReadBytes(sizes[5])
	instructionStream := newBinaryReader(r.ReadBytes(sizes[6]))
	if r.EOF() {
		return nil, nil, 0, 0, fmt.Errorf("glyf transform: %w", ErrTruncated)
	}

	bitmapSize := (int(numGlyphs) + 31) >> 5 << 2
	if len(bboxStreamBytes) < bitmapSize {
		return nil, nil, 0, 0, fmt.Errorf("glyf transform: %w", ErrMissingCompositeBBox)
	}
	bitReader := newBitmapReader(bboxStreamBytes[:bitmapSize])
	bboxData := newBinaryReader(bboxStreamBytes[bitmapSize:])

	glyphStreamReader := newBinaryReader(glyphStreamBytes)
	cursor := &tripletCursor{flags: flagStream, g: glyphStreamReader}

	glyphs := make([]glyph, numGlyphs)
	for i := range glyphs {
		numberOfContours := nContourStream.ReadInt16()
		hasBBox := bitReader.Read()
		g := glyph{NumberOfContours: numberOfContours}

		switch {
		case numberOfContours == 0:
			// empty; bitmap bit must be clear per spec 4.8.4.
		case numberOfContours < 0:
			if !hasBBox {
				return nil, nil, 0, 0, fmt.Errorf("glyf: glyph %d: %w", i, ErrMissingCompositeBBox)
			}
			g.XMin = bboxData.ReadInt16()
			g.YMin = bboxData.ReadInt16()
			g.XMax = bboxData.ReadInt16()
			g.YMax = bboxData.ReadInt16()
			start := uint32(len(compositeStream.b)) - compositeStream.Len()
			hasInstructions := false
			for {
				if compositeStream.Len() < 4 {
					return nil, nil, 0, 0, fmt.Errorf("glyf: glyph %d: %w", i, ErrTruncated)
				}
				flags := compositeStream.ReadUint16()
				_ = compositeStream.ReadUint16() // glyphIndex
				n, more := glyfCompositeLength(flags)
				if compositeStream.Len() < n-4 {
					return nil, nil, 0, 0, fmt.Errorf("glyf: glyph %d: %w", i, ErrTruncated)
				}
				compositeStream.ReadBytes(n - 4)
				if flags&0x0100 != 0 {
					hasInstructions = true
				}
				if !more {
					break
				}
			}
			end := uint32(len(compositeStream.b)) - compositeStream.Len()
			g.Composite = compositeStream.b[start:end:end]
			if hasInstructions {
				instrLen := read255Uint16(glyphStreamReader)
				g.CompositeInstructions = instructionStream.ReadBytes(uint32(instrLen))
			}
		default:
			c := &contour{}
			total := 0
			c.EndPoints = make([]uint16, numberOfContours)
			for j := range c.EndPoints {
				count := read255Uint16(nPointsStream)
				total += int(count)
				c.EndPoints[j] = uint16(total - 1)
			}
			c.OnCurve = make([]bool, total)
			c.OverlapSimple = make([]bool, total)
			c.XCoordinates = make([]int16, total)
			c.YCoordinates = make([]int16, total)
			var px, py int32
			for j := 0; j < total; j++ {
				dx, dy, onCurve, err := cursor.next()
				if err != nil {
					return nil, nil, 0, 0, err
				}
				px += dx
				py += dy
				c.XCoordinates[j] = int16(px)
				c.YCoordinates[j] = int16(py)
				c.OnCurve[j] = onCurve
			}
			if hasBBox {
				g.XMin = bboxData.ReadInt16()
				g.YMin = bboxData.ReadInt16()
				g.XMax = bboxData.ReadInt16()
				g.YMax = bboxData.ReadInt16()
			} else if total > 0 {
				xMin, yMin := c.XCoordinates[0], c.YCoordinates[0]
				xMax, yMax := xMin, yMin
				for _, x := range c.XCoordinates[1:] {
					if x < xMin {
						xMin = x
					}
					if x > xMax {
						xMax = x
					}
				}
				for _, y := range c.YCoordinates[1:] {
					if y < yMin {
						yMin = y
					}
					if y > yMax {
						yMax = y
					}
				}
				g.XMin, g.YMin, g.XMax, g.YMax = xMin, yMin, xMax, yMax
			}
			instrLen := read255Uint16(glyphStreamReader)
			c.Instructions = instructionStream.ReadBytes(uint32(instrLen))
			g.Contour = c
		}
		glyphs[i] = g
	}

	gt := &glyfTable{Glyphs: glyphs}
	l := &loca{Format: indexFormat, Offsets: make([]uint32, numGlyphs+1)}
	glyfBytes, err = gt.compile(l)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	locaBytes, err = l.compile()
	if err != nil {
		return nil, nil, 0, 0, err
	}
	if uint32(len(locaBytes)) != origLocaLength {
		return nil, nil, 0, 0, fmt.Errorf("glyf transform: %w", ErrLocaSizeMismatch)
	}
	return glyfBytes, locaBytes, numGlyphs, indexFormat, nil
}
