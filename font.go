package font

import (
	"fmt"
	"sort"
)

// Accepted sfntVersion values (spec 3, Font).
const (
	sfntVersionTrueType = "\x00\x01\x00\x00"
	sfntVersionOTTO     = "OTTO"
	sfntVersionTrueApple = "true"
)

func isValidSfntVersion(v string) bool {
	return v == sfntVersionTrueType || v == sfntVersionOTTO || v == sfntVersionTrueApple
}

// Font is the core's decoded representation of one SFNT-family font
// (spec 3, Font / 4.9 Font facade). Tables holds every table's raw
// bytes, unmodified (except that DecodeOptions.NormalizeRoundTrip
// clears head.flags bit 11 in Tables["head"]) — this is the source of
// truth for lossless SFNT and WOFF re-encoding. Head, Maxp, Loca and Glyf are minimal decoded
// views used by the WOFF2 glyf/loca transform; every other table is
// opaque to this package.
type Font struct {
	SfntVersion string
	Tables      map[string][]byte

	Head *head
	Maxp *maxp
	Loca *loca
	Glyf *glyfTable

	// FlavorData carries the decompressed metadata-XML/private-data
	// blob when the source container was WOFF or WOFF2 and had one
	// (spec 3, 4.7). Nil for SFNT sources or containers without it.
	FlavorData *FlavorData

	// GlyphNames are presentational only (spec 4.9); index i holds
	// "glyph{i}" unless a caller overrides it via SetGlyphOrder.
	glyphNames []string

	// tagOrder records the table order seen on decode (file order in
	// the source container), used by tagsInsertionOrder. Nil for a Font
	// built programmatically rather than decoded.
	tagOrder []string
}

// NumGlyphs returns Maxp.NumGlyphs, or 0 if this font has no glyph
// outline data (e.g. it never had TrueType tables).
func (f *Font) NumGlyphs() uint16 {
	if f.Maxp == nil {
		return 0
	}
	return f.Maxp.NumGlyphs
}

// IsTrueType reports whether this font carries TrueType (`glyf`/`loca`)
// outlines, as opposed to CFF or no outline data at all.
func (f *Font) IsTrueType() bool {
	_, hasGlyf := f.Tables["glyf"]
	_, hasLoca := f.Tables["loca"]
	return hasGlyf && hasLoca
}

// SetGlyphOrder assigns presentational glyph names (spec 4.9). If names
// is shorter than NumGlyphs, the remaining glyphs (and any glyph given
// an empty name) keep the default "glyph{i}" name.
func (f *Font) SetGlyphOrder(names []string) {
	f.glyphNames = names
}

// GlyphName returns the presentational name of glyphID, defaulting to
// "glyph{i}" per spec 4.9.
func (f *Font) GlyphName(glyphID uint16) string {
	if int(glyphID) < len(f.glyphNames) && f.glyphNames[glyphID] != "" {
		return f.glyphNames[glyphID]
	}
	return fmt.Sprintf("glyph%d", glyphID)
}

// decodeTrueTypeOutlines populates Loca and Glyf from the raw `loca`
// and `glyf` table bytes, using Head.IndexToLocFormat and
// Maxp.NumGlyphs. It is a no-op if the font has no TrueType outlines.
func (f *Font) decodeTrueTypeOutlines() error {
	if !f.IsTrueType() {
		return nil
	}
	if f.Head == nil || f.Maxp == nil {
		return fmt.Errorf("glyf: %w", ErrInvalidFontData)
	}
	l, err := decompileLoca(f.Tables["loca"], int(f.Head.IndexToLocFormat), f.Maxp.NumGlyphs)
	if err != nil {
		return err
	}
	g, err := decompileGlyf(f.Tables["glyf"], l)
	if err != nil {
		return err
	}
	f.Loca = l
	f.Glyf = g
	return nil
}

// tagsSorted returns the font's table tags in ascending alphabetical
// order (the WOFF2 normative order, spec 9; also used for SFNT/WOFF
// directories, which the teacher likewise sorts by tag).
func (f *Font) tagsSorted() []string {
	tags := make([]string, 0, len(f.Tables))
	for tag := range f.Tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// tagsInsertionOrder returns the table order recorded at decode time,
// falling back to tagsSorted for a Font with no recorded order (e.g.
// one assembled programmatically rather than decoded).
func (f *Font) tagsInsertionOrder() []string {
	if len(f.tagOrder) == len(f.Tables) {
		return f.tagOrder
	}
	return f.tagsSorted()
}
