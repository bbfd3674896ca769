package font

import (
	"encoding/binary"
	"fmt"
)

// head is the minimal decoded view of the `head` table the core needs
// (spec 4.9): Flags, IndexToLocFormat and CheckSumAdjustment. The rest
// of the table is left as opaque bytes inside Font.Tables["head"].
type head struct {
	Flags              uint16
	IndexToLocFormat   int16
	CheckSumAdjustment uint32
}

const headBit11LosslessTransform = 0x0800

func decodeHead(data []byte) (*head, error) {
	if len(data) < 54 {
		return nil, fmt.Errorf("head: %w", ErrTruncated)
	}
	return &head{
		CheckSumAdjustment: binary.BigEndian.Uint32(data[8:12]),
		Flags:              binary.BigEndian.Uint16(data[16:18]),
		IndexToLocFormat:   int16(binary.BigEndian.Uint16(data[50:52])),
	}, nil
}

// maxp is the minimal decoded view of `maxp` (spec 4.9): NumGlyphs.
type maxp struct {
	NumGlyphs uint16
}

func decodeMaxp(data []byte) (*maxp, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("maxp: %w", ErrTruncated)
	}
	return &maxp{NumGlyphs: binary.BigEndian.Uint16(data[4:6])}, nil
}
