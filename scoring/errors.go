package scoring

import "errors"

var (
	ErrSetInvalid            = errors.New("invalid set")
	ErrMatchDecided          = errors.New("match already decided")
	ErrUnsupportedSport      = errors.New("unsupported sport")
	ErrPenaltyConsecutive    = errors.New("team cannot take two consecutive penalties")
	ErrPenaltyRotation       = errors.New("player already took a penalty in this rotation")
	ErrNoEligibleKickers     = errors.New("team has no eligible penalty takers")
	ErrShootoutDecided       = errors.New("penalty shootout already decided")
	ErrShootoutNotApplicable = errors.New("penalty shootout requires a tied match without winner")
)
