package font

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func TestWOFF2RoundTrip(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeWOFF2(f, nil)
	test.Error(t, err)
	test.T(t, string(data[:4]), "wOF2")

	got, err := decodeWOFF2(data, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, got.SfntVersion, f.SfntVersion)
	test.T(t, got.Tables["name"], f.Tables["name"])
	// head comes back with checkSumAdjustment patched for the whole font.
	wantHead, err := computeAdjustedHead(f)
	test.Error(t, err)
	test.T(t, got.Tables["head"], wantHead)
}

func TestWOFF2RoundTripWithFlavorData(t *testing.T) {
	f := newMinimalFont()
	f.FlavorData = &FlavorData{MetaData: []byte("<meta>hi</meta>"), PrivData: []byte{9, 9, 9}}

	data, err := EncodeWOFF2(f, nil)
	test.Error(t, err)

	got, err := decodeWOFF2(data, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, got.FlavorData.MetaData, f.FlavorData.MetaData)
	test.T(t, got.FlavorData.PrivData, f.FlavorData.PrivData)
}

func TestWOFF2DecodeRejectsExceedsMemory(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeWOFF2(f, nil)
	test.Error(t, err)

	opts := DefaultDecodeOptions()
	opts.MaxMemory = 1
	_, err = decodeWOFF2(data, opts)
	if !errors.Is(err, ErrExceedsMemory) {
		test.Fail(t, "expected ErrExceedsMemory, got", err)
	}
}

func TestWOFF2TableOrderInsertion(t *testing.T) {
	f := newMinimalFont()
	opts := DefaultEncodeOptions()
	opts.WOFF2TableOrder = TableOrderInsertion
	_, err := EncodeWOFF2(f, opts)
	test.Error(t, err)
}
