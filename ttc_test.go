package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func makeTestTTC(fontData ...[]byte) []byte {
	w := newBinaryWriter(nil)
	w.WriteString("ttcf")
	w.WriteUint32(0x00010000)
	w.WriteUint32(uint32(len(fontData)))
	headerEnd := 12 + 4*len(fontData)
	offset := uint32(headerEnd)
	offsets := make([]uint32, len(fontData))
	for i, d := range fontData {
		offsets[i] = offset
		offset += uint32(len(d))
	}
	for _, off := range offsets {
		w.WriteUint32(off)
	}
	for _, d := range fontData {
		w.WriteBytes(d)
	}
	return w.Bytes()
}

func TestDecodeCollectionSingleFont(t *testing.T) {
	f := newMinimalFont()
	sfntBytes, err := EncodeSFNT(f)
	test.Error(t, err)

	data := makeTestTTC(sfntBytes, sfntBytes)
	c, err := decodeCollection(data, -1, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, len(c.Fonts), 2)
	test.T(t, c.Fonts[0].SfntVersion, f.SfntVersion)
	test.T(t, c.Fonts[1].Tables["name"], f.Tables["name"])
}

func TestDecodeCollectionSingleIndex(t *testing.T) {
	f := newMinimalFont()
	sfntBytes, err := EncodeSFNT(f)
	test.Error(t, err)

	data := makeTestTTC(sfntBytes, sfntBytes)
	c, err := decodeCollection(data, 1, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, len(c.Fonts), 1)
	test.T(t, c.Fonts[0].SfntVersion, f.SfntVersion)
}

func TestDecodeCollectionBadVersion(t *testing.T) {
	data := makeTestTTC([]byte{}) // one (empty) font, so the header passes the length check
	data[4], data[5], data[6], data[7] = 0xFF, 0xFF, 0xFF, 0xFF
	_, err := decodeCollection(data, -1, DefaultDecodeOptions())
	if err == nil {
		test.Fail(t, "expected error")
	}
}
