package bot

// Tuning weights the PeggingBot's choices.
type Tuning struct {
	// PointWeight scales the points a play pegs immediately.
	PointWeight float64
	// DangerPenalty is charged for leaving the count where one card makes 15 or 31.
	DangerPenalty float64
	// FiveKeepBonus and PairKeepBonus make fives and paired ranks less likely to be discarded.
	FiveKeepBonus float64
	PairKeepBonus float64
	// FifteenKeepBonus is added per card that makes fifteen with the candidate.
	FifteenKeepBonus float64
}

// DefaultTuning favours pegging now over holding back.
var DefaultTuning = Tuning{
	PointWeight:      10.0,
	DangerPenalty:    3.0,
	FiveKeepBonus:    6.0,
	PairKeepBonus:    4.0,
	FifteenKeepBonus: 2.0,
}
