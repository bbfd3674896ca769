package font

import "compress/zlib"

// ChecksumPolicy controls how a Reader reacts to a per-table checksum
// mismatch (spec 4.5, 7). WOFF2 directories carry no per-table
// checksums, so the policy only affects SFNT, TTC and WOFF input.
type ChecksumPolicy int

const (
	// ChecksumOff skips per-table checksum verification.
	ChecksumOff ChecksumPolicy = iota
	// ChecksumWarn verifies each table's checksum, but a mismatch is
	// not reported: decoding continues exactly as under ChecksumOff.
	ChecksumWarn
	// ChecksumFatal fails decoding with ErrChecksumMismatch on the
	// first table whose checksum does not match.
	ChecksumFatal
)

// TableOrder controls how a Writer orders tables in a WOFF2 directory
// (spec 9's design note). Alphabetical is normative for OTS
// compatibility and is this package's default.
type TableOrder int

const (
	TableOrderAlphabetical TableOrder = iota
	TableOrderInsertion
)

// DecodeOptions configures Decode/DecodeCollection behavior.
type DecodeOptions struct {
	// ChecksumPolicy controls per-table checksum verification.
	// DefaultDecodeOptions, which Decode and DecodeCollection use when
	// opts is nil, sets ChecksumWarn (spec 7: "the default is warn");
	// the zero value is ChecksumOff.
	ChecksumPolicy ChecksumPolicy

	// NormalizeRoundTrip, when true, clears head.flags bit 11 ("font
	// has undergone lossless modifying transform") on SFNT decode, per
	// the resolution of spec 9's open question. Default false: table
	// bytes are left exactly as read.
	NormalizeRoundTrip bool

	// FontIndex selects a font within a TTC; ignored for non-TTC
	// input. -1 (the default) is only meaningful via DecodeCollection.
	FontIndex int

	// MaxMemory caps the uncompressed size a WOFF2 container is allowed
	// to expand to; exceeding it fails with ErrExceedsMemory rather
	// than allocating. Zero value maps to 30 MiB via maxMemory().
	MaxMemory uint32
}

// DefaultDecodeOptions returns the options Decode and DecodeCollection
// use when opts is nil (ChecksumWarn, FontIndex -1, not normalized,
// 30 MiB memory cap).
func DefaultDecodeOptions() *DecodeOptions {
	return &DecodeOptions{ChecksumPolicy: ChecksumWarn, FontIndex: -1, MaxMemory: defaultMaxMemory}
}

// defaultMaxMemory is the memory cap a zero-value DecodeOptions falls
// back to, matching the common WOFF2 decoder default.
const defaultMaxMemory = 30 * 1024 * 1024

func (o *DecodeOptions) maxMemory() uint32 {
	if o == nil || o.MaxMemory == 0 {
		return defaultMaxMemory
	}
	return o.MaxMemory
}

// EncodeOptions configures Encode{SFNT,WOFF,WOFF2} behavior (spec 9's
// "Configurable compression policy" design note).
type EncodeOptions struct {
	// ZlibLevel is the compress/zlib level used for WOFF 1.0 table and
	// metadata compression, 0..9. Zero value (uninitialized struct)
	// maps to zlib.DefaultCompression via zlibLevel().
	ZlibLevel int

	// BrotliQuality is the brotli encoder quality (0..11) used for
	// WOFF2. Zero value maps to 11 (best compression) via
	// brotliQuality(), matching the common WOFF2 encoder default.
	BrotliQuality int

	// WOFF2TableOrder controls directory/stream table ordering.
	// Defaults to TableOrderAlphabetical (spec 9; normative per spec
	// 4.6).
	WOFF2TableOrder TableOrder

	// FlavorData carries an optional metadata/private-data blob to
	// attach to a WOFF or WOFF2 container.
	FlavorData *FlavorData
}

// DefaultEncodeOptions returns zlib level 9, brotli quality 11, and
// alphabetical WOFF2 table order.
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{
		ZlibLevel:       9,
		BrotliQuality:   11,
		WOFF2TableOrder: TableOrderAlphabetical,
	}
}

func (o *EncodeOptions) zlibLevel() int {
	if o == nil || o.ZlibLevel == 0 {
		return zlib.DefaultCompression
	}
	return o.ZlibLevel
}

func (o *EncodeOptions) brotliQuality() int {
	if o == nil || o.BrotliQuality == 0 {
		return 11
	}
	return o.BrotliQuality
}
