package font

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// FlavorData is the optional WOFF/WOFF2 metadata-XML and private-data
// blob pair (spec 3, 4.7). MetaData is decompressed on read and
// recompressed on write using the container's own algorithm (zlib for
// WOFF, brotli for WOFF2); PrivData is carried verbatim.
type FlavorData struct {
	MajorVersion, MinorVersion uint16
	MetaData                  []byte
	PrivData                  []byte
}

func decompressMeta(compressed []byte, origLength uint32, woff2 bool) ([]byte, error) {
	var r io.Reader
	if woff2 {
		r = brotli.NewReader(bytes.NewReader(compressed))
	} else {
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("metaData: %w: %v", ErrDecompressionFailure, err)
		}
		defer zr.Close()
		r = zr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("metaData: %w: %v", ErrDecompressionFailure, err)
	}
	if uint32(buf.Len()) != origLength {
		return nil, fmt.Errorf("metaData: %w", ErrDecompressionFailure)
	}
	return buf.Bytes(), nil
}

func compressMeta(data []byte, woff2 bool, opts *EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if woff2 {
		bw := brotli.NewWriterOptions(&buf, brotli.WriterOptions{Quality: opts.brotliQuality()})
		if _, err := bw.Write(data); err != nil {
			return nil, err
		}
		if err := bw.Close(); err != nil {
			return nil, err
		}
	} else {
		zw, err := zlib.NewWriterLevel(&buf, opts.zlibLevel())
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
