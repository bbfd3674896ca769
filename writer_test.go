package font

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func TestWriterSFNT(t *testing.T) {
	w := NewWriter(sfntVersionTrueType, FlavorSFNT, 3, nil)
	test.Error(t, w.Put("head", makeTestHead()))
	test.Error(t, w.Put("maxp", []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x01}))
	test.Error(t, w.Put("name", []byte("hi")))

	data, err := w.Close()
	test.Error(t, err)
	test.T(t, string(data[:4]), sfntVersionTrueType)
}

func TestWriterRewriteForbidden(t *testing.T) {
	w := NewWriter(sfntVersionTrueType, FlavorSFNT, 1, nil)
	test.Error(t, w.Put("name", []byte("a")))
	err := w.Put("name", []byte("b"))
	if !errors.Is(err, ErrRewriteForbidden) {
		test.Fail(t, "expected ErrRewriteForbidden, got", err)
	}
}

func TestWriterWrongTableCount(t *testing.T) {
	w := NewWriter(sfntVersionTrueType, FlavorSFNT, 2, nil)
	test.Error(t, w.Put("name", []byte("a")))
	_, err := w.Close()
	if !errors.Is(err, ErrWrongTableCount) {
		test.Fail(t, "expected ErrWrongTableCount, got", err)
	}
}
