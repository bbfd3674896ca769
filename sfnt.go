package font

import "fmt"

// decodeSFNT parses a single (non-collection) SFNT offset table
// starting at byte 0 of data (spec 4.4, 4.5). Table payloads are
// slices into data (caller-owned once returned, per spec 3's
// Lifecycle note — callers that want independence should copy).
func decodeSFNT(data []byte, opts *DecodeOptions) (*Font, error) {
	if len(data) < sfntHeaderSize {
		return nil, fmt.Errorf("sfnt header: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	version := r.ReadString(4)
	if !isValidSfntVersion(version) {
		return nil, fmt.Errorf("sfnt: %w", ErrBadSfntVersion)
	}
	numTables := r.ReadUint16()
	_ = r.ReadUint16() // searchRange
	_ = r.ReadUint16() // entrySelector
	_ = r.ReadUint16() // rangeShift
	if r.EOF() || r.Len() < sfntDirEntrySize*uint32(numTables) {
		return nil, fmt.Errorf("sfnt directory: %w", ErrTruncated)
	}

	tables := make(map[string][]byte, numTables)
	order := make([]string, 0, numTables)
	for i := 0; i < int(numTables); i++ {
		e := readSfntDirEntry(r)
		if uint32(len(data)) < e.Offset || uint32(len(data))-e.Offset < e.Length {
			return nil, fmt.Errorf("%s: %w", e.Tag, ErrInvalidFontData)
		}
		payload := data[e.Offset : e.Offset+e.Length : e.Offset+e.Length]
		if opts.ChecksumPolicy != ChecksumOff {
			sum, err := calcTableChecksum(e.Tag, padTo4(payload))
			if err == nil && sum != e.CheckSum {
				if opts.ChecksumPolicy == ChecksumFatal {
					return nil, fmt.Errorf("%s: %w", e.Tag, ErrChecksumMismatch)
				}
			}
		}
		tables[e.Tag] = payload
		order = append(order, e.Tag)
	}

	return newFontFromTables(version, tables, order, opts)
}

// padTo4 returns b if its length is already a multiple of 4, otherwise
// a zero-padded copy (the on-disk table itself is stored padded, but
// slices taken by offset/length stop at the logical length).
func padTo4(b []byte) []byte {
	if len(b)%4 == 0 {
		return b
	}
	padded := make([]byte, (len(b)+3)&^3)
	copy(padded, b)
	return padded
}

// newFontFromTables builds a *Font from a tag->bytes map shared by the
// SFNT, WOFF and WOFF2 readers, decoding head/maxp/loca/glyf.
func newFontFromTables(version string, tables map[string][]byte, order []string, opts *DecodeOptions) (*Font, error) {
	f := &Font{SfntVersion: version, Tables: tables, tagOrder: order}
	if headData, ok := tables["head"]; ok {
		h, err := decodeHead(headData)
		if err != nil {
			return nil, err
		}
		if opts != nil && opts.NormalizeRoundTrip && h.Flags&headBit11LosslessTransform != 0 {
			h.Flags &^= headBit11LosslessTransform
			patched := append([]byte(nil), headData...)
			patched[16], patched[17] = byte(h.Flags>>8), byte(h.Flags)
			tables["head"] = patched
		}
		f.Head = h
	}
	if maxpData, ok := tables["maxp"]; ok {
		m, err := decodeMaxp(maxpData)
		if err != nil {
			return nil, err
		}
		f.Maxp = m
	}
	if f.IsTrueType() {
		if err := f.decodeTrueTypeOutlines(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// EncodeSFNT serializes f as a raw SFNT container (spec 4.6). Table
// order in the directory is alphabetical by tag, matching the
// teacher's convention; table data itself is emitted in directory
// order too, each padded to a 4-byte boundary. If `head` is present,
// checkSumAdjustment is (re)computed and patched in place in the
// output (the caller's Font.Tables is never mutated).
func EncodeSFNT(f *Font) ([]byte, error) {
	tags := f.tagsSorted()
	numTables := uint16(len(tags))
	searchRange, entrySelector, rangeShift := sfntSearchParams(numTables)

	w := newBinaryWriter(make([]byte, 0, sfntHeaderSize+sfntDirEntrySize*int(numTables)))
	w.WriteString(f.SfntVersion)
	w.WriteUint16(numTables)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)

	type placed struct {
		tag    string
		data   []byte
		offset uint32
	}
	entries := make([]placed, len(tags))
	offset := uint32(sfntHeaderSize) + uint32(sfntDirEntrySize)*uint32(numTables)
	for i, tag := range tags {
		data := f.Tables[tag]
		entries[i] = placed{tag: tag, data: data, offset: offset}
		offset += uint32(len(padTo4(data)))
	}

	headEntryIndex := -1
	for i, e := range entries {
		padded := padTo4(e.data)
		sum, err := calcTableChecksum(e.tag, padded)
		if err != nil {
			return nil, err
		}
		sfntDirEntry{Tag: e.tag, CheckSum: sum, Offset: e.offset, Length: uint32(len(e.data))}.writeTo(w)
		if e.tag == "head" {
			headEntryIndex = i
		}
	}

	bodyStart := w.Len()
	var headOffsetInBody uint32
	for _, e := range entries {
		if e.tag == "head" {
			headOffsetInBody = w.Len() - bodyStart
		}
		w.WriteBytes(padTo4(e.data))
	}

	buf := w.Bytes()
	if headEntryIndex >= 0 {
		headStart := bodyStart + headOffsetInBody
		buf[headStart+8], buf[headStart+9], buf[headStart+10], buf[headStart+11] = 0, 0, 0, 0
		whole := calcChecksum(buf)
		if err := patchChecksumAdjustment(buf[headStart:], whole); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// computeAdjustedHead returns a copy of f.Tables["head"] with
// checkSumAdjustment patched to the value EncodeSFNT would embed for
// the would-be padded SFNT layout (spec 4.2, 4.6's "identical to SFNT
// logic for the padded original layout used only for the checksum").
// WOFF and WOFF2 encoding both need this value even though their
// actual on-disk table layout differs from SFNT's. Returns (nil, nil)
// if f carries no `head` table.
func computeAdjustedHead(f *Font) ([]byte, error) {
	if _, ok := f.Tables["head"]; !ok {
		return nil, nil
	}
	sfntBytes, err := EncodeSFNT(f)
	if err != nil {
		return nil, err
	}
	tags := f.tagsSorted()
	r := newBinaryReader(sfntBytes)
	r.Seek(sfntHeaderSize)
	for i := 0; i < len(tags); i++ {
		e := readSfntDirEntry(r)
		if e.Tag == "head" {
			return sfntBytes[e.Offset : e.Offset+e.Length : e.Offset+e.Length], nil
		}
	}
	return nil, fmt.Errorf("head: %w", ErrInvalidFontData)
}
