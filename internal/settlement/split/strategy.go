package split

import (
	"errors"
	"fmt"
	"math"
)

// TipMode defines how a tip is distributed across members
type TipMode string

const (
	TipModeEqual        TipMode = "equal"
	TipModeProportional TipMode = "proportional"
)

// Strategy is the interface all tip-distribution strategies implement.
// Allocate receives the tip amount and each member's pre-computed spending
// (order-aligned with the session member list) and returns the tip share per
// member in the same order.
type Strategy interface {
	// Allocate computes the tip share for every member
	Allocate(tip float64, spent []float64) ([]float64, error)

	// Mode returns the mode identifier for this strategy
	Mode() TipMode
}

// Factory creates tip strategies based on the requested mode
type Factory struct{}

// NewTipStrategyFactory creates a new factory instance
func NewTipStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the mode
func (f *Factory) Create(mode TipMode) (Strategy, error) {
	switch mode {
	case TipModeEqual:
		return &EqualStrategy{}, nil
	case TipModeProportional:
		return &ProportionalStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTipMode, mode)
	}
}

var (
	ErrUnknownTipMode       = errors.New("unknown tip mode")
	ErrNoMembers            = errors.New("at least one member is required")
	ErrMissingPercentage    = errors.New("percentage value required for all members")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrInvalidPercentages   = errors.New("percentages must sum to 100")
)

// ValidatePercentages checks a member-id -> percentage mapping for a custom
// split: every member covered, each value in [0,100], and the sum equal to
// 100 within a 0.01 tolerance for floating point error.
func ValidatePercentages(memberIDs []string, percentages map[string]float64) error {
	if len(memberIDs) == 0 {
		return ErrNoMembers
	}

	var total float64
	for _, id := range memberIDs {
		pct, ok := percentages[id]
		if !ok {
			return fmt.Errorf("%w: member %s", ErrMissingPercentage, id)
		}
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: member %s has %.2f", ErrPercentageOutOfRange, id, pct)
		}
		total += pct
	}

	if math.Abs(total-100) > 0.01 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidPercentages, total)
	}

	return nil
}
