package font

import (
	"bytes"
	"testing"

	"github.com/tdewolff/test"
)

func TestSignatureDispatch(t *testing.T) {
	test.T(t, signature([]byte("wOFF0000")), sigWOFF)
	test.T(t, signature([]byte("wOF20000")), sigWOFF2)
	test.T(t, signature([]byte("ttcf0000")), sigTTC)
	test.T(t, signature([]byte(sfntVersionTrueType+"0000")), sigSFNT)
	test.T(t, signature([]byte("OTTO0000")), sigSFNT)
	test.T(t, signature([]byte("huh?0000")), sigUnknown)
	test.T(t, signature([]byte("ab")), sigUnknown)
}

func TestDecodeDispatchesToSFNT(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeSFNT(f)
	test.Error(t, err)

	got, err := Decode(bytes.NewReader(data), int64(len(data)), nil)
	test.Error(t, err)
	test.T(t, got.SfntVersion, f.SfntVersion)
}

func TestDecodeDispatchesToWOFF2(t *testing.T) {
	f := newMinimalFont()
	data, err := EncodeWOFF2(f, nil)
	test.Error(t, err)

	got, err := Decode(bytes.NewReader(data), int64(len(data)), nil)
	test.Error(t, err)
	test.T(t, got.SfntVersion, f.SfntVersion)
}

func TestDecodeBadSignature(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("xxxx")), 4, nil)
	if err == nil {
		test.Fail(t, "expected error")
	}
}
