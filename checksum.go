package font

import (
	"encoding/binary"
	"fmt"
)

// magicChecksumAdjustment is the target whole-font checksum per the
// OpenType/TrueType spec: sum(allTables) + checkSumAdjustment ==
// 0xB1B0AFBA (mod 2^32).
const magicChecksumAdjustment = 0xB1B0AFBA

// calcChecksum sums b as big-endian uint32 words, modulo 2^32,
// conceptually zero-padding a trailing partial word. Lengths that are
// not a multiple of 4 are padded in a scratch copy rather than
// mutating the caller's slice.
func calcChecksum(b []byte) uint32 {
	n := len(b) &^ 3
	var sum uint32
	for i := 0; i < n; i += 4 {
		sum += binary.BigEndian.Uint32(b[i : i+4])
	}
	if rem := len(b) - n; rem != 0 {
		var tail [4]byte
		copy(tail[:], b[n:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

// calcTableChecksum is calcChecksum with the head table's
// checkSumAdjustment field (bytes 8:12) treated as zero, as required
// whenever head participates in a checksum (spec 4.2).
func calcTableChecksum(tag string, data []byte) (uint32, error) {
	if tag != "head" {
		return calcChecksum(data), nil
	}
	if len(data) < 12 {
		return 0, fmt.Errorf("head: %w", ErrTruncated)
	}
	head := make([]byte, len(data))
	copy(head, data)
	binary.BigEndian.PutUint32(head[8:], 0)
	return calcChecksum(head), nil
}

// patchChecksumAdjustment writes (0xB1B0AFBA - checksum(whole)) mod
// 2^32 into head's checkSumAdjustment field (offset 8) in place.
func patchChecksumAdjustment(head []byte, whole uint32) error {
	if len(head) < 12 {
		return fmt.Errorf("head: %w", ErrTruncated)
	}
	binary.BigEndian.PutUint32(head[8:], magicChecksumAdjustment-whole)
	return nil
}
