package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestBinaryReaderEOF(t *testing.T) {
	r := newBinaryReader([]byte{1, 2, 3})
	test.T(t, r.ReadUint16(), uint16(0x0102))
	test.T(t, r.EOF(), false)
	test.T(t, r.ReadUint16(), uint16(0))
	test.T(t, r.EOF(), true)
}

func TestBinaryWriterRoundTrip(t *testing.T) {
	w := newBinaryWriter(nil)
	w.WriteUint32(0xDEADBEEF)
	w.WriteInt16(-1)
	w.WriteString("true")

	r := newBinaryReader(w.Bytes())
	test.T(t, r.ReadUint32(), uint32(0xDEADBEEF))
	test.T(t, r.ReadInt16(), int16(-1))
	test.T(t, r.ReadString(4), "true")
	test.T(t, r.EOF(), false)
}

func TestBitmapRoundTrip(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, false, false, true}
	bitmap := make([]byte, (len(bits)+7)/8)
	bw := newBitmapWriter(bitmap)
	for _, b := range bits {
		bw.Write(b)
	}

	br := newBitmapReader(bitmap)
	for i, want := range bits {
		got := br.Read()
		if got != want {
			test.Fail(t, "bit", i, "got", got, "want", want)
		}
	}
}
