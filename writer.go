package font

import "fmt"

// Flavor selects the container format a Writer assembles on Close
// (spec 4.6).
type Flavor int

const (
	FlavorSFNT Flavor = iota
	FlavorWOFF
	FlavorWOFF2
)

// Writer accepts table writes in arbitrary order via Put and produces
// one container on Close (spec 4.6). A Writer is single-use: create a
// fresh one per output. numTables fixes the table count declared up
// front; Close fails with ErrWrongTableCount if fewer or more tables
// were written.
type Writer struct {
	sfntVersion string
	flavor      Flavor
	numTables   int
	opts        *EncodeOptions
	tables      map[string][]byte
	closed      bool
}

// NewWriter returns a Writer that will assemble a container of the
// given flavor for numTables tables, once every tag has been Put.
func NewWriter(sfntVersion string, flavor Flavor, numTables int, opts *EncodeOptions) *Writer {
	return &Writer{
		sfntVersion: sfntVersion,
		flavor:      flavor,
		numTables:   numTables,
		opts:        opts,
		tables:      make(map[string][]byte, numTables),
	}
}

// Put stores data under tag. Writing the same tag twice is an error
// (spec 4.6: "Rejecting a second write for the same tag").
func (w *Writer) Put(tag string, data []byte) error {
	if w.closed {
		return fmt.Errorf("writer: %w", ErrInvalidFontData)
	}
	if _, ok := w.tables[tag]; ok {
		return fmt.Errorf("%s: %w", tag, ErrRewriteForbidden)
	}
	w.tables[tag] = data
	return nil
}

// Close assembles and returns the finished container. It fails with
// ErrWrongTableCount if the number of tables Put does not match the
// count declared to NewWriter.
func (w *Writer) Close() ([]byte, error) {
	if w.closed {
		return nil, fmt.Errorf("writer: %w", ErrInvalidFontData)
	}
	w.closed = true
	if len(w.tables) != w.numTables {
		return nil, fmt.Errorf("writer: have %d tables, want %d: %w", len(w.tables), w.numTables, ErrWrongTableCount)
	}
	f := &Font{SfntVersion: w.sfntVersion, Tables: w.tables}
	if headData, ok := w.tables["head"]; ok {
		h, err := decodeHead(headData)
		if err != nil {
			return nil, err
		}
		f.Head = h
	}
	if maxpData, ok := w.tables["maxp"]; ok {
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

	switch w.flavor {
	case FlavorWOFF:
		return EncodeWOFF(f, w.opts)
	case FlavorWOFF2:
		return EncodeWOFF2(f, w.opts)
	default:
		return EncodeSFNT(f)
	}
}
