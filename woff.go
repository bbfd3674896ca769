package font

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// decodeWOFF parses a WOFF 1.0 container (spec 4.4, 4.5) into a Font.
// Grounded on the only WOFF1 reader in the pack (tdewolff-canvas's
// ParseWOFF), adapted to return a *Font with per-table bytes instead
// of a re-serialized SFNT blob.
func decodeWOFF(data []byte, opts *DecodeOptions) (*Font, error) {
	if len(data) < woffHeaderSize {
		return nil, fmt.Errorf("woff header: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	signature := r.ReadString(4)
	if signature != "wOFF" {
		return nil, fmt.Errorf("woff: %w", ErrBadSignature)
	}
	version := r.ReadString(4)
	if version == "ttcf" {
		return nil, fmt.Errorf("woff: collections are unsupported: %w", ErrInvalidFontData)
	}
	if !isValidSfntVersion(version) {
		return nil, fmt.Errorf("woff: %w", ErrBadSfntVersion)
	}
	length := r.ReadUint32()
	numTables := r.ReadUint16()
	reserved := r.ReadUint16()
	_ = r.ReadUint32() // totalSfntSize
	majorVersion := r.ReadUint16()
	minorVersion := r.ReadUint16()
	metaOffset := r.ReadUint32()
	metaLength := r.ReadUint32()
	metaOrigLength := r.ReadUint32()
	privOffset := r.ReadUint32()
	privLength := r.ReadUint32()
	if r.EOF() {
		return nil, fmt.Errorf("woff header: %w", ErrTruncated)
	}
	if length != uint32(len(data)) {
		return nil, fmt.Errorf("woff: %w", ErrBadFileSize)
	}
	if numTables == 0 || reserved != 0 {
		return nil, fmt.Errorf("woff: %w", ErrInvalidFontData)
	}
	if (metaOffset == 0) != (metaLength == 0) || (metaOffset == 0) != (metaOrigLength == 0) {
		return nil, fmt.Errorf("woff: %w", ErrInvalidFontData)
	}
	if (privOffset == 0) != (privLength == 0) {
		return nil, fmt.Errorf("woff: %w", ErrInvalidFontData)
	}

	tags := make([]string, 0, numTables)
	entries := make(map[string]woffDirEntry, numTables)
	for i := 0; i < int(numTables); i++ {
		e := readWoffDirEntry(r)
		if r.EOF() {
			return nil, fmt.Errorf("woff directory: %w", ErrTruncated)
		}
		if uint32(len(data))-e.Length < e.Offset || e.OrigLength < e.Length {
			return nil, fmt.Errorf("%s: %w", e.Tag, ErrInvalidFontData)
		}
		if _, dup := entries[e.Tag]; dup {
			return nil, fmt.Errorf("%s: table defined more than once: %w", e.Tag, ErrInvalidFontData)
		}
		tags = append(tags, e.Tag)
		entries[e.Tag] = e
	}

	tables := make(map[string][]byte, numTables)
	for _, tag := range tags {
		e := entries[tag]
		raw := data[e.Offset : e.Offset+e.Length : e.Offset+e.Length]
		var payload []byte
		if e.isCompressed() {
			decompressed, err := zlibDecompress(raw, e.OrigLength)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			}
			payload = decompressed
		} else {
			if uint32(len(raw)) != e.OrigLength {
				return nil, fmt.Errorf("%s: %w", tag, ErrInvalidFontData)
			}
			payload = raw
		}
		if opts.ChecksumPolicy != ChecksumOff {
			sum, err := calcTableChecksum(tag, padTo4(payload))
			if err == nil && sum != e.CheckSum {
				if opts.ChecksumPolicy == ChecksumFatal {
					return nil, fmt.Errorf("%s: %w", tag, ErrChecksumMismatch)
				}
			}
		}
		tables[tag] = payload
	}

	f, err := newFontFromTables(version, tables, tags, opts)
	if err != nil {
		return nil, err
	}

	var meta []byte
	if metaLength != 0 {
		compressed := data[metaOffset : metaOffset+metaLength]
		m, err := decompressMeta(compressed, metaOrigLength, false)
		if err != nil {
			return nil, err
		}
		meta = m
	}
	var privData []byte
	if privLength != 0 {
		privData = data[privOffset : privOffset+privLength]
	}
	if len(meta) != 0 || len(privData) != 0 {
		f.FlavorData = &FlavorData{MajorVersion: majorVersion, MinorVersion: minorVersion, MetaData: meta, PrivData: privData}
	}
	return f, nil
}

func zlibDecompress(compressed []byte, origLength uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	defer zr.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	if uint32(buf.Len()) != origLength {
		return nil, fmt.Errorf("%w", ErrDecompressionFailure)
	}
	return buf.Bytes(), nil
}

// EncodeWOFF serializes f as a WOFF 1.0 container (spec 4.3, 4.6).
// Each table is zlib-compressed when that's smaller than the raw
// payload (head is never compressed, matching the common encoder
// convention the WOFF spec's reference impl follows); otherwise it is
// stored raw with length == origLength, which is how the decoder
// tells the two cases apart (spec 4.3).
func EncodeWOFF(f *Font, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultEncodeOptions()
	}
	tags := f.tagsSorted()
	numTables := uint16(len(tags))

	adjustedHead, err := computeAdjustedHead(f)
	if err != nil {
		return nil, err
	}

	type compiled struct {
		tag        string
		stored     []byte
		origLength uint32
		checkSum   uint32
	}
	entries := make([]compiled, len(tags))
	for i, tag := range tags {
		raw := f.Tables[tag]
		if tag == "head" && adjustedHead != nil {
			raw = adjustedHead
		}
		padded := padTo4(raw)
		sum, err := calcTableChecksum(tag, padded)
		if err != nil {
			return nil, err
		}
		stored := raw
		if tag != "head" {
			zbuf, err := compressZlib(raw, opts.zlibLevel())
			if err != nil {
				return nil, err
			}
			if len(zbuf) < len(raw) {
				stored = zbuf
			}
		}
		entries[i] = compiled{tag: tag, stored: stored, origLength: uint32(len(raw)), checkSum: sum}
	}

	// totalSfntSize: size of the uncompressed SFNT equivalent (spec 4.6).
	var totalSfntSize uint32 = sfntHeaderSize + sfntDirEntrySize*uint32(numTables)
	for _, e := range entries {
		totalSfntSize += uint32(len(padTo4(make([]byte, e.origLength))))
	}

	flavor := opts.FlavorData
	if flavor == nil {
		flavor = f.FlavorData
	}
	var metaCompressed []byte
	var metaOrigLength uint32
	var privData []byte
	if flavor != nil {
		if len(flavor.MetaData) > 0 {
			c, err := compressMeta(flavor.MetaData, false, opts)
			if err != nil {
				return nil, err
			}
			metaCompressed = c
			metaOrigLength = uint32(len(flavor.MetaData))
		}
		privData = flavor.PrivData
	}

	headerLen := uint32(woffHeaderSize) + woffDirEntrySize*uint32(numTables)
	w := newBinaryWriter(make([]byte, 0, headerLen))
	w.WriteString("wOFF")
	w.WriteString(f.SfntVersion)
	w.WriteUint32(0) // length, patched below
	w.WriteUint16(numTables)
	w.WriteUint16(0) // reserved
	w.WriteUint32(totalSfntSize)
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteUint32(0) // metaOffset, patched below
	w.WriteUint32(uint32(len(metaCompressed)))
	w.WriteUint32(metaOrigLength)
	w.WriteUint32(0) // privOffset, patched below
	w.WriteUint32(uint32(len(privData)))

	offset := headerLen
	type placed struct {
		compiled
		offset uint32
	}
	placedEntries := make([]placed, len(entries))
	for i, e := range entries {
		placedEntries[i] = placed{compiled: e, offset: offset}
		offset += uint32(len(e.stored))
		offset += (4 - offset&3) & 3 // 4-byte pad between table bodies
	}
	for _, e := range placedEntries {
		woffDirEntry{Tag: e.tag, Offset: e.offset, Length: uint32(len(e.stored)), OrigLength: e.origLength, CheckSum: e.checkSum}.writeTo(w)
	}
	for _, e := range placedEntries {
		w.WriteBytes(e.stored)
		for w.Len()%4 != 0 {
			w.WriteByte(0)
		}
	}

	var metaOffset, privOffset uint32
	if len(metaCompressed) > 0 {
		metaOffset = w.Len()
		w.WriteBytes(metaCompressed)
		for w.Len()%4 != 0 {
			w.WriteByte(0)
		}
	}
	if len(privData) > 0 {
		privOffset = w.Len()
		w.WriteBytes(privData)
	}

	buf := w.Bytes()
	putUint32(buf, 4+4, uint32(len(buf)))  // length
	putUint32(buf, 4+4+4+2+2+4+2+2, metaOffset)
	putUint32(buf, 4+4+4+2+2+4+2+2+4+4+4, privOffset)
	return buf, nil
}

func compressZlib(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func putUint32(buf []byte, offset int, v uint32) {
	buf[offset] = byte(v >> 24)
	buf[offset+1] = byte(v >> 16)
	buf[offset+2] = byte(v >> 8)
	buf[offset+3] = byte(v)
}
