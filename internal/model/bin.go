package model

// Bin computes the UCSC hierarchical binning index for the 1-based
// inclusive interval [start, end], per Kent et al. 2002 ("The Human
// Genome Browser at UCSC"): a feature is assigned to the smallest bin
// from a fixed set of nested ranges, 8x coarser per level, that fully
// contains it.
func Bin(start, end int64) uint32 {
	if start > 0 {
		start-- // 1-based inclusive -> 0-based half-open
	}
	if end <= start {
		end = start + 1
	}

	binOffsets := [5]int64{512 + 64 + 8 + 1, 64 + 8 + 1, 8 + 1, 1, 0}
	const shiftFirst = uint(17)
	const shiftNext = uint(3)

	startBin, endBin := start, end-1
	startBin >>= shiftFirst
	endBin >>= shiftFirst
	for _, offset := range binOffsets {
		if startBin == endBin {
			return uint32(offset + startBin)
		}
		startBin >>= shiftNext
		endBin >>= shiftNext
	}
	return uint32(binOffsets[len(binOffsets)-1])
}

// OverlappingBins returns every bin number that could hold a feature
// overlapping [start, end], across all five binning levels. A region
// query filters on "bin IN (...)" using this list before the exact
// coordinate comparison, the same two-stage check the UCSC scheme is
// designed for.
func OverlappingBins(start, end int64) []uint32 {
	if start > 0 {
		start-- // 1-based inclusive -> 0-based half-open
	}
	if end <= start {
		end = start + 1
	}

	binOffsets := [5]int64{512 + 64 + 8 + 1, 64 + 8 + 1, 8 + 1, 1, 0}
	const shiftFirst = uint(17)
	const shiftNext = uint(3)

	startBin, endBin := start>>shiftFirst, (end-1)>>shiftFirst

	var bins []uint32
	for _, offset := range binOffsets {
		for b := startBin + offset; b <= endBin+offset; b++ {
			bins = append(bins, uint32(b))
		}
		startBin >>= shiftNext
		endBin >>= shiftNext
	}
	return bins
}
