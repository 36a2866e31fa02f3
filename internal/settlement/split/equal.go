package split

// EqualStrategy distributes the tip evenly among all members regardless of
// what each member spent.
type EqualStrategy struct{}

// Mode returns the mode identifier
func (s *EqualStrategy) Mode() TipMode {
	return TipModeEqual
}

// Allocate gives every member tip / memberCount.
func (s *EqualStrategy) Allocate(tip float64, spent []float64) ([]float64, error) {
	if len(spent) == 0 {
		return nil, ErrNoMembers
	}

	perMember := tip / float64(len(spent))
	shares := make([]float64, len(spent))
	for i := range shares {
		shares[i] = perMember
	}
	return shares, nil
}
