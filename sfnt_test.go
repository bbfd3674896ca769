package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func makeTestHead() []byte {
	data := make([]byte, 54)
	data[16], data[17] = 0x00, 0x00 // flags
	data[50], data[51] = 0x00, 0x00 // indexToLocFormat (short)
	return data
}

func newMinimalFont() *Font {
	return &Font{
		SfntVersion: sfntVersionTrueType,
		Tables: map[string][]byte{
			"head": makeTestHead(),
			"maxp": []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x01}, // version + numGlyphs=1
			"name": []byte("hello"),
		},
	}
}

func TestSFNTRoundTrip(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeSFNT(f)
	test.Error(t, err)

	got, err := decodeSFNT(data, DefaultDecodeOptions())
	test.Error(t, err)

	test.T(t, got.SfntVersion, f.SfntVersion)
	test.T(t, got.Tables["name"], f.Tables["name"])
	test.T(t, got.Maxp.NumGlyphs, uint16(1))
}

func TestSFNTChecksumAdjustment(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeSFNT(f)
	test.Error(t, err)

	whole := calcChecksum(data)
	test.T(t, whole, uint32(magicChecksumAdjustment))
}

func TestComputeAdjustedHeadMatchesEncodeSFNT(t *testing.T) {
	f := newMinimalFont()
	sfntBytes, err := EncodeSFNT(f)
	test.Error(t, err)

	adjusted, err := computeAdjustedHead(f)
	test.Error(t, err)

	r := newBinaryReader(sfntBytes)
	r.Seek(sfntHeaderSize)
	tags := f.tagsSorted()
	var found []byte
	for range tags {
		e := readSfntDirEntry(r)
		if e.Tag == "head" {
			found = sfntBytes[e.Offset : e.Offset+e.Length]
		}
	}
	test.T(t, adjusted, found)
}
