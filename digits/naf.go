package digits

// MinNAFWidth and MaxNAFWidth bound the window widths ComputeNAF accepts.
// Digits of a width-8 NAF still fit an int8.
const (
	MinNAFWidth = 2
	MaxNAFWidth = 8
)

// ComputeNAF returns the width-w non-adjacent form of k, least significant
// digit first. Every nonzero digit is odd with absolute value below
// 2^(w-1), and any w consecutive digits contain at most one nonzero digit.
// The result has at most BitLen(k)+1 entries and is empty for k = 0.
func ComputeNAF(k Digits, w int) ([]int8, error) {
	if w < MinNAFWidth || w > MaxNAFWidth {
		return nil, ErrNAFWidth
	}
	n := SignificantLen(k)
	if n == 0 {
		return []int8{}, nil
	}

	// one spare digit absorbs the carry from subtracting negative digits
	d := make(Digits, n+1)
	copy(d, k[:n])

	mask := uint64(1)<<uint(w) - 1
	half := int64(1) << uint(w-1)
	full := int64(1) << uint(w)

	naf := make([]int8, 0, BitLen(k)+1)
	for !IsZero(d) {
		var z int64
		if d[0]&1 == 1 {
			z = int64(d[0] & mask)
			if z >= half {
				z -= full
			}
			if z > 0 {
				subWord(d, uint64(z))
			} else {
				addWord(d, uint64(-z))
			}
		}
		naf = append(naf, int8(z))
		ShiftRight(d, d, 1)
	}
	return naf, nil
}
