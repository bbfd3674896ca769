package font

import "fmt"

// Collection is a sequence of Fonts sharing physical table storage via
// one TTC offset table (spec 3 FontCollection, 4.4 TTC).
type Collection struct {
	Fonts []*Font
}

// decodeCollection parses a TTC ("ttcf") container (spec 4.4, 4.5 TTC
// Reader). fontIndex == -1 decodes every font in the collection;
// otherwise only the font at that index is decoded.
func decodeCollection(data []byte, fontIndex int, opts *DecodeOptions) (*Collection, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("ttc header: %w", ErrTruncated)
	}
	r := newBinaryReader(data)
	signature := r.ReadString(4)
	if signature != "ttcf" {
		return nil, fmt.Errorf("ttc: %w", ErrBadSignature)
	}
	version := r.ReadUint32()
	if version != 0x00010000 && version != 0x00020000 {
		return nil, fmt.Errorf("ttc: bad version: %w", ErrInvalidFontData)
	}
	numFonts := r.ReadUint32()
	if numFonts == 0 || r.Len() < 4*numFonts {
		return nil, fmt.Errorf("ttc: %w", ErrTruncated)
	}
	offsets := make([]uint32, numFonts)
	for i := range offsets {
		offsets[i] = r.ReadUint32()
	}
	// version 2.0's trailing DSIG fields (ulDsigTag, ulDsigLength,
	// ulDsigOffset) are skipped entirely: spec 4.4 states they are
	// ignored on read and never emitted on write.

	if fontIndex != -1 {
		if fontIndex < 0 || uint32(fontIndex) >= numFonts {
			return nil, fmt.Errorf("ttc: bad font index %d: %w", fontIndex, ErrInvalidFontData)
		}
		f, err := decodeSFNTAt(data, offsets[fontIndex], opts)
		if err != nil {
			return nil, err
		}
		return &Collection{Fonts: []*Font{f}}, nil
	}

	fonts := make([]*Font, numFonts)
	for i, off := range offsets {
		f, err := decodeSFNTAt(data, off, opts)
		if err != nil {
			return nil, fmt.Errorf("ttc: font %d: %w", i, err)
		}
		fonts[i] = f
	}
	return &Collection{Fonts: fonts}, nil
}

func decodeSFNTAt(data []byte, offset uint32, opts *DecodeOptions) (*Font, error) {
	if uint32(len(data)) < offset {
		return nil, fmt.Errorf("ttc: %w", ErrInvalidFontData)
	}
	return decodeSFNT(data[offset:], opts)
}
