package font

import (
	"fmt"
	"io"
)

// Decode reads a single font from r (spec 4.5, 6), dispatching on the
// first four bytes to the SFNT, WOFF or WOFF2 reader. TTC input is
// accepted and resolved to the font at opts.FontIndex (the first font
// when FontIndex is negative); use DecodeCollection for access to
// every font in a collection.
func Decode(r io.ReaderAt, size int64, opts *DecodeOptions) (*Font, error) {
	if opts == nil {
		opts = DefaultDecodeOptions()
	}
	data, err := readAll(r, size)
	if err != nil {
		return nil, err
	}
	switch signature(data) {
	case sigWOFF:
		return decodeWOFF(data, opts)
	case sigWOFF2:
		return decodeWOFF2(data, opts)
	case sigTTC:
		fontIndex := opts.FontIndex
		if fontIndex < 0 {
			fontIndex = 0
		}
		c, err := decodeCollection(data, fontIndex, opts)
		if err != nil {
			return nil, err
		}
		return c.Fonts[0], nil
	case sigSFNT:
		return decodeSFNT(data, opts)
	default:
		return nil, fmt.Errorf("font: %w", ErrBadSignature)
	}
}

// DecodeCollection reads every font in a TTC container (spec 4.4, 4.5
// TTC Reader). Non-TTC input is accepted and wrapped as a
// single-font Collection.
func DecodeCollection(r io.ReaderAt, size int64, opts *DecodeOptions) (*Collection, error) {
	if opts == nil {
		opts = DefaultDecodeOptions()
	}
	data, err := readAll(r, size)
	if err != nil {
		return nil, err
	}
	if signature(data) != sigTTC {
		f, err := Decode(r, size, opts)
		if err != nil {
			return nil, err
		}
		return &Collection{Fonts: []*Font{f}}, nil
	}
	return decodeCollection(data, -1, opts)
}

func readAll(r io.ReaderAt, size int64) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("font: %w", ErrInvalidFontData)
	}
	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("font: %w", err)
	}
	return data, nil
}

type containerSignature int

const (
	sigUnknown containerSignature = iota
	sigSFNT
	sigWOFF
	sigWOFF2
	sigTTC
)

// signature inspects the first four bytes of data to identify the
// container type (spec 4.5), without otherwise validating it.
func signature(data []byte) containerSignature {
	if len(data) < 4 {
		return sigUnknown
	}
	switch string(data[:4]) {
	case "wOFF":
		return sigWOFF
	case "wOF2":
		return sigWOFF2
	case "ttcf":
		return sigTTC
	case sfntVersionTrueType, sfntVersionOTTO, sfntVersionTrueApple:
		return sigSFNT
	default:
		return sigUnknown
	}
}
