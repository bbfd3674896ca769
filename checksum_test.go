package font

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestCalcChecksum(t *testing.T) {
	test.T(t, calcChecksum([]byte("abcd")), uint32(1633837924))
	test.T(t, calcChecksum([]byte("abcdxyz")), uint32(3655064932))
}

func TestCalcTableChecksumHeadZeroesAdjustment(t *testing.T) {
	data := make([]byte, 54)
	data[8], data[9], data[10], data[11] = 0xDE, 0xAD, 0xBE, 0xEF
	withAdjustment, err := calcTableChecksum("head", data)
	test.Error(t, err)

	zeroed := make([]byte, 54)
	copy(zeroed, data)
	zeroed[8], zeroed[9], zeroed[10], zeroed[11] = 0, 0, 0, 0
	withoutAdjustment, err := calcTableChecksum("head", zeroed)
	test.Error(t, err)

	test.T(t, withAdjustment, withoutAdjustment)
}

func TestPatchChecksumAdjustment(t *testing.T) {
	head := make([]byte, 54)
	test.Error(t, patchChecksumAdjustment(head, 0))
	test.T(t, head[8], byte(0xB1))
	test.T(t, head[9], byte(0xB0))
	test.T(t, head[10], byte(0xAF))
	test.T(t, head[11], byte(0xBA))
}
