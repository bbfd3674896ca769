package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestWoff2KnownTagIndex(t *testing.T) {
	test.T(t, woff2KnownTagIndex("glyf"), 10)
	test.T(t, woff2KnownTagIndex("head"), 1)
	test.T(t, woff2KnownTagIndex("zzzz"), woff2TagIndexSentinel)
}

func TestWoff2DirEntryRoundTripKnownTag(t *testing.T) {
	e := woff2DirEntry{Tag: "glyf", TransformVersion: woff2TransformNone, OrigLength: 1000, HasTransform: true, TransformLength: 800}
	w := newBinaryWriter(nil)
	e.writeTo(w)

	r := newBinaryReader(w.Bytes())
	got, err := readWoff2DirEntry(r)
	test.Error(t, err)
	test.T(t, got.Tag, e.Tag)
	test.T(t, got.TransformVersion, e.TransformVersion)
	test.T(t, got.OrigLength, e.OrigLength)
	test.T(t, got.TransformLength, e.TransformLength)
	test.T(t, got.HasTransform, e.HasTransform)
}

func TestWoff2DirEntryRoundTripUnknownTag(t *testing.T) {
	e := woff2DirEntry{Tag: "Zzzz", TransformVersion: 0, OrigLength: 42}
	w := newBinaryWriter(nil)
	e.writeTo(w)

	r := newBinaryReader(w.Bytes())
	got, err := readWoff2DirEntry(r)
	test.Error(t, err)
	test.T(t, got.Tag, "Zzzz")
	test.T(t, got.OrigLength, uint32(42))
}

func TestWoff2DirEntryRoundTripGlyfUntransformed(t *testing.T) {
	e := woff2DirEntry{Tag: "glyf", TransformVersion: woff2TransformGlyfNone, OrigLength: 500}
	w := newBinaryWriter(nil)
	e.writeTo(w)

	r := newBinaryReader(w.Bytes())
	got, err := readWoff2DirEntry(r)
	test.Error(t, err)
	test.T(t, got.TransformVersion, woff2TransformGlyfNone)
	test.T(t, got.HasTransform, false)
	test.T(t, got.Length, e.OrigLength)
}

func TestWoff2DirEntryRejectsLocaNonZeroTransformLength(t *testing.T) {
	e := woff2DirEntry{Tag: "loca", TransformVersion: woff2TransformNone, OrigLength: 100, HasTransform: true, TransformLength: 50}
	w := newBinaryWriter(nil)
	e.writeTo(w)

	r := newBinaryReader(w.Bytes())
	_, err := readWoff2DirEntry(r)
	if err == nil {
		test.Fail(t, "expected error")
	}
}

func TestWoff2DirEntryRejectsReservedVersionForOtherTags(t *testing.T) {
	e := woff2DirEntry{Tag: "name", TransformVersion: woff2TransformGlyfNone, OrigLength: 10}
	w := newBinaryWriter(nil)
	e.writeTo(w)

	r := newBinaryReader(w.Bytes())
	_, err := readWoff2DirEntry(r)
	if err == nil {
		test.Fail(t, "expected error")
	}
}

func TestWoffDirEntryIsCompressed(t *testing.T) {
	e := woffDirEntry{Length: 10, OrigLength: 20}
	test.T(t, e.isCompressed(), true)
	e.Length = 20
	test.T(t, e.isCompressed(), false)
}

func TestSfntSearchParams(t *testing.T) {
	searchRange, entrySelector, rangeShift := sfntSearchParams(4)
	test.T(t, searchRange, uint16(64))
	test.T(t, entrySelector, uint16(2))
	test.T(t, rangeShift, uint16(0))
}
