package money

// Share is one leg of a proportional split.
type Share struct {
	// Weight is the allocation weight in hundredths of a percent
	// (6000 = 60%). Weights need not sum to 10000; the split is
	// normalized over the sum of the given weights.
	Weight int64
	Amount Cents
}

// Split distributes total across the given weights proportionally,
// rounding each share down to whole cents. The leftover cents (at most
// len(shares)-1) go to the largest weight so the legs always sum
// exactly to total. Ties on weight break toward the earlier share.
//
// Returns nil when total <= 0, no shares are given, or the weight sum
// is not positive.
func Split(total Cents, weights []int64) []Share {
	if total <= 0 || len(weights) == 0 {
		return nil
	}
	var sum int64
	for _, w := range weights {
		if w < 0 {
			return nil
		}
		sum += w
	}
	if sum <= 0 {
		return nil
	}

	shares := make([]Share, len(weights))
	var distributed Cents
	largest := 0
	for i, w := range weights {
		amt := Cents(int64(total) * w / sum)
		shares[i] = Share{Weight: w, Amount: amt}
		distributed += amt
		if w > weights[largest] {
			largest = i
		}
	}
	shares[largest].Amount += total - distributed
	return shares
}
