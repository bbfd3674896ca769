package font

import "errors"

// Error kinds surfaced at the package boundary. Failures this package
// detects in the data wrap one of these via fmt.Errorf's %w so callers
// can match with errors.Is; errors from the io.ReaderAt or from the
// zlib/brotli writers are passed through without a sentinel.
var (
	ErrBadSignature                = errors.New("bad signature")
	ErrTruncated                   = errors.New("truncated input")
	ErrBadSfntVersion              = errors.New("bad sfnt version")
	ErrBadFileSize                 = errors.New("length in header does not match file size")
	ErrReservedBitsSet             = errors.New("reserved bits set")
	ErrVarIntOverflow               = errors.New("variable-length integer overflow")
	ErrDecompressionFailure        = errors.New("decompression failure")
	ErrChecksumMismatch            = errors.New("checksum mismatch")
	ErrWrongTableCount             = errors.New("wrong table count")
	ErrRewriteForbidden             = errors.New("table already written")
	ErrTransformedGlyfSizeMismatch  = errors.New("transformed glyf size mismatch")
	ErrMissingCompositeBBox        = errors.New("composite glyph missing bbox")
	ErrShortFlagStream              = errors.New("flag stream shorter than point count")
	ErrLocaSizeMismatch             = errors.New("reconstructed loca size mismatch")
	ErrInvalidIndexFormat          = errors.New("invalid loca index format")

	// ErrInvalidFontData is a catch-all for malformed containers that
	// don't fit one of the more specific kinds above.
	ErrInvalidFontData = errors.New("invalid font data")

	// ErrExceedsMemory is returned when a container declares sizes
	// larger than DecodeOptions.MaxMemory.
	ErrExceedsMemory = errors.New("memory limit exceeded")
)
