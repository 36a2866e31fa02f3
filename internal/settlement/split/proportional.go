package split

// ProportionalStrategy distributes the tip in proportion to each member's
// share of the total spending. Members who spent nothing receive no tip.
type ProportionalStrategy struct{}

// Mode returns the mode identifier
func (s *ProportionalStrategy) Mode() TipMode {
	return TipModeProportional
}

// Allocate gives each member (memberSpent / totalSpent) * tip. When nobody
// spent anything there is no proportion to apply and all shares are zero; the
// caller treats that as a no-op.
func (s *ProportionalStrategy) Allocate(tip float64, spent []float64) ([]float64, error) {
	if len(spent) == 0 {
		return nil, ErrNoMembers
	}

	var totalSpent float64
	for _, v := range spent {
		totalSpent += v
	}

	shares := make([]float64, len(spent))
	if totalSpent == 0 {
		return shares, nil
	}

	for i, v := range spent {
		shares[i] = (v / totalSpent) * tip
	}
	return shares, nil
}
