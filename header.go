package font

// sfntSearchParams computes the binary-search helper fields stored in
// the SFNT offset table (spec 4.4): searchRange = 16 * 2^floor(log2
// numTables), entrySelector = floor(log2 numTables), rangeShift =
// 16*numTables - searchRange.
func sfntSearchParams(numTables uint16) (searchRange, entrySelector, rangeShift uint16) {
	searchRange = 1
	for searchRange*2 <= numTables {
		searchRange *= 2
		entrySelector++
	}
	searchRange *= 16
	rangeShift = numTables*16 - searchRange
	return
}

const (
	sfntDirEntrySize  = 16
	woffDirEntrySize  = 20
	sfntHeaderSize    = 12
	woffHeaderSize    = 44
	woff2HeaderSize   = 48
)
