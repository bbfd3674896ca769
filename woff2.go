package font

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// decodeWOFF2 parses a WOFF 2.0 container (spec 4.4, 4.5) into a Font,
// reconstructing the `glyf`/`loca` (and, if present, `hmtx`) transform.
func decodeWOFF2(data []byte, opts *DecodeOptions) (*Font, error) {
	if len(data) < woff2HeaderSize {
		return nil, fmt.Errorf("woff2 header: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	signature := r.ReadString(4)
	if signature != "wOF2" {
		return nil, fmt.Errorf("woff2: %w", ErrBadSignature)
	}
	version := r.ReadString(4)
	if !isValidSfntVersion(version) {
		return nil, fmt.Errorf("woff2: %w", ErrBadSfntVersion)
	}
	length := r.ReadUint32()
	numTables := r.ReadUint16()
	reserved := r.ReadUint16()
	_ = r.ReadUint32() // totalSfntSize
	totalCompressedSize := r.ReadUint32()
	majorVersion := r.ReadUint16()
	minorVersion := r.ReadUint16()
	metaOffset := r.ReadUint32()
	metaLength := r.ReadUint32()
	metaOrigLength := r.ReadUint32()
	privOffset := r.ReadUint32()
	privLength := r.ReadUint32()
	if r.EOF() {
		return nil, fmt.Errorf("woff2 header: %w", ErrTruncated)
	}
	if length != uint32(len(data)) {
		return nil, fmt.Errorf("woff2: %w", ErrBadFileSize)
	}
	if numTables == 0 || reserved != 0 {
		return nil, fmt.Errorf("woff2: %w", ErrInvalidFontData)
	}

	type dirEnt struct {
		woff2DirEntry
		offset uint32
	}
	entries := make([]dirEnt, numTables)
	var runningOffset uint32
	for i := range entries {
		e, err := readWoff2DirEntry(r)
		if err != nil {
			return nil, err
		}
		entries[i] = dirEnt{woff2DirEntry: e, offset: runningOffset}
		runningOffset += e.Length
	}
	if r.EOF() {
		return nil, fmt.Errorf("woff2 directory: %w", ErrTruncated)
	}
	totalUncompressed := runningOffset
	if maxMem := opts.maxMemory(); maxMem < totalUncompressed {
		return nil, fmt.Errorf("woff2: %w", ErrExceedsMemory)
	}

	compressedStart := r.Len()
	if compressedStart < totalCompressedSize {
		return nil, fmt.Errorf("woff2: %w", ErrTruncated)
	}
	compressed := r.ReadBytes(totalCompressedSize)
	decompressed, err := brotliDecompress(compressed, totalUncompressed)
	if err != nil {
		return nil, err
	}

	tables := make(map[string][]byte, numTables)
	var glyfEntry, locaEntry *dirEnt
	for i := range entries {
		e := &entries[i]
		if uint32(len(decompressed))-e.Length < e.offset {
			return nil, fmt.Errorf("%s: %w", e.Tag, ErrInvalidFontData)
		}
		raw := decompressed[e.offset : e.offset+e.Length : e.offset+e.Length]
		switch e.Tag {
		case "glyf":
			glyfEntry = e
			tables[e.Tag] = raw // placeholder; replaced below once loca's origLength is known
		case "loca":
			locaEntry = e
			tables[e.Tag] = raw
		case "hmtx":
			if e.TransformVersion == woff2TransformHmtxOmit {
				tables[e.Tag] = raw // placeholder; reconstructed after head/maxp/glyf are known
			} else {
				tables[e.Tag] = raw
			}
		default:
			tables[e.Tag] = raw
		}
	}

	if glyfEntry != nil && glyfEntry.TransformVersion == woff2TransformNone {
		if locaEntry == nil {
			return nil, fmt.Errorf("glyf: %w", ErrWrongTableCount)
		}
		glyfBytes, locaBytes, _, _, err := reconstructGlyfLoca(tables["glyf"], locaEntry.OrigLength)
		if err != nil {
			return nil, err
		}
		tables["glyf"] = glyfBytes
		tables["loca"] = locaBytes
	}

	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.Tag
	}
	f, err := newFontFromTables(version, tables, order, opts)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		e := &entries[i]
		if e.Tag == "hmtx" && e.TransformVersion == woff2TransformHmtxOmit {
			h, err := decodeHhea(f.Tables["hhea"])
			if err != nil {
				return nil, err
			}
			hmtxBytes, err := reconstructHmtx(tables["hmtx"], h.NumberOfHMetrics, f.NumGlyphs(), f.Glyf)
			if err != nil {
				return nil, err
			}
			f.Tables["hmtx"] = hmtxBytes
		}
	}

	var meta []byte
	if metaLength != 0 {
		m, err := decompressMeta(data[metaOffset:metaOffset+metaLength], metaOrigLength, true)
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

func brotliDecompress(compressed []byte, wantLength uint32) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, brotli.NewReader(bytes.NewReader(compressed))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	if uint32(buf.Len()) != wantLength {
		return nil, fmt.Errorf("%w", ErrDecompressionFailure)
	}
	return buf.Bytes(), nil
}

// EncodeWOFF2 serializes f as a WOFF 2.0 container (spec 4.3, 4.6).
// Tables are sorted per opts.WOFF2TableOrder (alphabetical by
// default, the normative order per spec 9); `glyf`/`loca` are always
// run through the GlyfTransform, and `hmtx` through its own transform
// whenever that shrinks it (spec 4.10).
func EncodeWOFF2(f *Font, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultEncodeOptions()
	}
	adjustedHead, err := computeAdjustedHead(f)
	if err != nil {
		return nil, err
	}

	tags := f.tagsSorted()
	if opts.WOFF2TableOrder == TableOrderInsertion {
		tags = f.tagsInsertionOrder()
	}
	numTables := uint16(len(tags))

	type compiled struct {
		tag              string
		data             []byte // stored (possibly transformed) bytes
		origLength       uint32 // untransformed size
		transformVersion woff2TransformVersion
		hasTransform     bool
	}
	entries := make([]compiled, 0, len(tags))

	hmtxTransformed, hmtxOK, err := transformHmtx(f)
	if err != nil {
		return nil, err
	}

	for _, tag := range tags {
		raw := f.Tables[tag]
		if tag == "head" && adjustedHead != nil {
			raw = adjustedHead
		}
		switch tag {
		case "glyf":
			transformed, err := transformGlyf(f)
			if err != nil {
				return nil, err
			}
			entries = append(entries, compiled{tag: tag, data: transformed, origLength: uint32(len(raw)), transformVersion: woff2TransformNone, hasTransform: true})
		case "loca":
			entries = append(entries, compiled{tag: tag, data: nil, origLength: uint32(len(raw)), transformVersion: woff2TransformNone, hasTransform: true})
		case "hmtx":
			if hmtxOK {
				entries = append(entries, compiled{tag: tag, data: hmtxTransformed, origLength: uint32(len(raw)), transformVersion: woff2TransformHmtxOmit, hasTransform: true})
			} else {
				entries = append(entries, compiled{tag: tag, data: raw, origLength: uint32(len(raw))})
			}
		default:
			entries = append(entries, compiled{tag: tag, data: raw, origLength: uint32(len(raw))})
		}
	}

	var concatenated bytes.Buffer
	dirBuf := newBinaryWriter(nil)
	for _, e := range entries {
		concatenated.Write(e.data)
		woff2DirEntry{
			Tag:              e.tag,
			TransformVersion: e.transformVersion,
			OrigLength:       e.origLength,
			TransformLength:  uint32(len(e.data)),
			HasTransform:     e.hasTransform,
		}.writeTo(dirBuf)
	}

	compressed, err := brotliCompress(concatenated.Bytes(), opts)
	if err != nil {
		return nil, err
	}

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
			c, err := compressMeta(flavor.MetaData, true, opts)
			if err != nil {
				return nil, err
			}
			metaCompressed = c
			metaOrigLength = uint32(len(flavor.MetaData))
		}
		privData = flavor.PrivData
	}

	headerLen := uint32(woff2HeaderSize) + uint32(dirBuf.Len())
	w := newBinaryWriter(make([]byte, 0, headerLen))
	w.WriteString("wOF2")
	w.WriteString(f.SfntVersion)
	w.WriteUint32(0) // length, patched below
	w.WriteUint16(numTables)
	w.WriteUint16(0) // reserved
	w.WriteUint32(totalSfntSize)
	w.WriteUint32(uint32(len(compressed)))
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteUint32(0) // metaOffset, patched below
	w.WriteUint32(uint32(len(metaCompressed)))
	w.WriteUint32(metaOrigLength)
	w.WriteUint32(0) // privOffset, patched below
	w.WriteUint32(uint32(len(privData)))
	w.WriteBytes(dirBuf.Bytes())
	w.WriteBytes(compressed)
	for w.Len()%4 != 0 {
		w.WriteByte(0)
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
	putUint32(buf, 4+4, uint32(len(buf)))
	putUint32(buf, 4+4+4+2+2+4+4+2+2, metaOffset)
	putUint32(buf, 4+4+4+2+2+4+4+2+2+4+4+4, privOffset)
	return buf, nil
}

func brotliCompress(data []byte, opts *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	bw := brotli.NewWriterOptions(&buf, brotli.WriterOptions{Quality: opts.brotliQuality()})
	if _, err := bw.Write(data); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
