package model

import "testing"

func TestBinSameSmallIntervalSharesBin(t *testing.T) {
	b1 := Bin(1000, 2000)
	b2 := Bin(1001, 1999)
	if b1 != b2 {
		t.Errorf("nested small intervals should share a bin: %d vs %d", b1, b2)
	}
}

func TestBinWideIntervalGetsCoarserBin(t *testing.T) {
	narrow := Bin(1000, 2000)
	wide := Bin(0, 1<<28)
	if narrow == wide {
		t.Error("a genome-spanning interval should not share a bin with a 1kb interval")
	}
}

func TestBinZeroLengthCoercedToOne(t *testing.T) {
	// end <= start is coerced to a length-1 interval rather than panicking
	// or producing a nonsense bin.
	b := Bin(100, 100)
	if b != Bin(100, 101) {
		t.Error("zero-length interval should bin the same as a 1bp interval")
	}
}

func TestOverlappingBinsIncludesExactBin(t *testing.T) {
	exact := Bin(5000, 6000)
	overlapping := OverlappingBins(5000, 6000)

	found := false
	for _, b := range overlapping {
		if b == exact {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("OverlappingBins(5000,6000) = %v does not include exact bin %d", overlapping, exact)
	}
}

func TestOverlappingBinsNonEmpty(t *testing.T) {
	bins := OverlappingBins(1, 1000000)
	if len(bins) == 0 {
		t.Error("expected a non-empty candidate bin set for a large region")
	}
}
