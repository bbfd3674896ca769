package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestWOFFRoundTrip(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeWOFF(f, nil)
	test.Error(t, err)
	test.T(t, string(data[:4]), "wOFF")

	got, err := decodeWOFF(data, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, got.SfntVersion, f.SfntVersion)
	test.T(t, got.Tables["name"], f.Tables["name"])
	// head comes back with checkSumAdjustment patched for the whole font.
	wantHead, err := computeAdjustedHead(f)
	test.Error(t, err)
	test.T(t, got.Tables["head"], wantHead)
}

func TestWOFFRoundTripWithFlavorData(t *testing.T) {
	f := newMinimalFont()
	f.FlavorData = &FlavorData{MetaData: []byte("<meta>hi</meta>"), PrivData: []byte{1, 2, 3}}

	data, err := EncodeWOFF(f, nil)
	test.Error(t, err)

	got, err := decodeWOFF(data, DefaultDecodeOptions())
	test.Error(t, err)
	test.T(t, got.FlavorData.MetaData, f.FlavorData.MetaData)
	test.T(t, got.FlavorData.PrivData, f.FlavorData.PrivData)
}

func TestWOFFBadSignature(t *testing.T) {
	_, err := decodeWOFF([]byte("wOFX0000000000000000000000000000000000000000"), DefaultDecodeOptions())
	if err == nil {
		test.Fail(t, "expected error")
	}
}
