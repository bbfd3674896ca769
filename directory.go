package font

import "fmt"

// sfntDirEntry is the SFNT directory entry variant (spec 3 DirectoryEntry).
type sfntDirEntry struct {
	Tag      string
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

func readSfntDirEntry(r *binaryReader) sfntDirEntry {
	return sfntDirEntry{
		Tag:      r.ReadString(4),
		CheckSum: r.ReadUint32(),
		Offset:   r.ReadUint32(),
		Length:   r.ReadUint32(),
	}
}

func (e sfntDirEntry) writeTo(w *binaryWriter) {
	w.WriteString(e.Tag)
	w.WriteUint32(e.CheckSum)
	w.WriteUint32(e.Offset)
	w.WriteUint32(e.Length)
}

// woffDirEntry is the WOFF 1.0 directory entry variant (spec 3
// DirectoryEntry). `Uncompressed` is derived on load by comparing
// Length to OrigLength, not carried as a stored flag (spec 4.3).
type woffDirEntry struct {
	Tag        string
	Offset     uint32
	Length     uint32
	OrigLength uint32
	CheckSum   uint32
}

func readWoffDirEntry(r *binaryReader) woffDirEntry {
	return woffDirEntry{
		Tag:        r.ReadString(4),
		Offset:     r.ReadUint32(),
		Length:     r.ReadUint32(),
		OrigLength: r.ReadUint32(),
		CheckSum:   r.ReadUint32(),
	}
}

func (e woffDirEntry) writeTo(w *binaryWriter) {
	w.WriteString(e.Tag)
	w.WriteUint32(e.Offset)
	w.WriteUint32(e.Length)
	w.WriteUint32(e.OrigLength)
	w.WriteUint32(e.CheckSum)
}

func (e woffDirEntry) isCompressed() bool {
	return e.Length != e.OrigLength
}

// woff2KnownTags is the fixed table of well-known WOFF2 tag
// abbreviations (spec 4.11), indexed by the directory entry flags
// byte's low 6 bits.
var woff2KnownTags = []string{
	"cmap", "head", "hhea", "hmtx",
	"maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca",
	"prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern",
	"LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS",
	"GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL",
	"SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar",
	"fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar",
	"mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat",
	"Gloc", "Feat", "Sill",
}

const woff2TagIndexSentinel = 0x3F

// woff2KnownTagIndex returns the known-tag index for tag, or the
// sentinel (0x3F) if tag isn't one of the 63 well-known tags.
func woff2KnownTagIndex(tag string) int {
	for i, known := range woff2KnownTags {
		if known == tag {
			return i
		}
	}
	return woff2TagIndexSentinel
}

// woff2TransformVersion enumerates the per-table transform applied,
// as carried in the high 2 bits of a WOFF2 directory entry's flags
// byte (spec 3 DirectoryEntry; widened for hmtx per spec 4.10).
type woff2TransformVersion int

const (
	woff2TransformNone      woff2TransformVersion = 0 // glyf/loca: transformed (the common case); other tags, hmtx included: stored as-is
	woff2TransformHmtxOmit  woff2TransformVersion = 1 // hmtx: LSB arrays omitted
	woff2TransformGlyfNone  woff2TransformVersion = 3 // glyf/loca: untransformed, stored as-is
)

// woff2DirEntry is the WOFF2 directory entry variant (spec 3
// DirectoryEntry). Offset is derived by the reader by running a
// length-prefix sum over all entries (spec 4.5), not stored on disk.
type woff2DirEntry struct {
	Tag              string
	TransformVersion woff2TransformVersion
	OrigLength       uint32
	TransformLength  uint32
	HasTransform     bool // true iff this tag/version pair carries a transformLength field
	Offset           uint32
	Length           uint32 // the size actually occupying the decompressed stream
}

func readWoff2DirEntry(r *binaryReader) (woff2DirEntry, error) {
	flags := r.ReadByte()
	if r.EOF() {
		return woff2DirEntry{}, fmt.Errorf("woff2 directory: %w", ErrTruncated)
	}
	tagIndex := int(flags & 0x3F)
	version := woff2TransformVersion(flags >> 6)

	var tag string
	if tagIndex == woff2TagIndexSentinel {
		tag = r.ReadString(4)
	} else {
		tag = woff2KnownTags[tagIndex]
	}

	origLength, err := readUintBase128(r)
	if err != nil {
		return woff2DirEntry{}, err
	}

	e := woff2DirEntry{Tag: tag, TransformVersion: version, OrigLength: origLength, Length: origLength}
	hasTransform := (tag == "glyf" || tag == "loca") && version == woff2TransformNone ||
		tag == "hmtx" && version == woff2TransformHmtxOmit
	if hasTransform {
		tlen, err := readUintBase128(r)
		if err != nil {
			return woff2DirEntry{}, err
		}
		if tag == "loca" && tlen != 0 {
			return woff2DirEntry{}, fmt.Errorf("loca: %w", ErrInvalidFontData)
		}
		e.HasTransform = true
		e.TransformLength = tlen
		e.Length = tlen
	} else if version != woff2TransformNone && !(version == woff2TransformGlyfNone && (tag == "glyf" || tag == "loca")) {
		return woff2DirEntry{}, fmt.Errorf("%s: %w", tag, ErrReservedBitsSet)
	}
	return e, nil
}

func (e woff2DirEntry) writeTo(w *binaryWriter) {
	tagIndex := woff2KnownTagIndex(e.Tag)
	w.WriteUint8(byte(e.TransformVersion)<<6 | byte(tagIndex)&0x3F)
	if tagIndex == woff2TagIndexSentinel {
		w.WriteString(e.Tag)
	}
	writeUintBase128(w, e.OrigLength)
	if e.HasTransform {
		writeUintBase128(w, e.TransformLength)
	}
}
