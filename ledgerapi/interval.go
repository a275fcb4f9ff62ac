package ledgerapi

// BoundKind distinguishes finite interval bounds from the two infinities.
type BoundKind uint8

const (
	// NegInfinity is a lower bound below every time.
	NegInfinity BoundKind = iota
	// Finite is a bound at a specific time, open or closed.
	Finite
	// PosInfinity is an upper bound above every time.
	PosInfinity
)

// Bound is one endpoint of an Interval. Time and Inclusive are only
// meaningful for Finite bounds.
type Bound struct {
	Kind      BoundKind `cbor:"kind" json:"kind"`
	Time      int64     `cbor:"time,omitempty" json:"time,omitempty"`
	Inclusive bool      `cbor:"inclusive,omitempty" json:"inclusive,omitempty"`
}

// Interval is a range on the ledger's time axis. Times are opaque int64
// ordinals (the host's choice of epoch and resolution); the validator only
// compares them.
type Interval struct {
	Lower Bound `cbor:"lower" json:"lower"`
	Upper Bound `cbor:"upper" json:"upper"`
}

// Always is the interval covering all time.
func Always() Interval {
	return Interval{
		Lower: Bound{Kind: NegInfinity},
		Upper: Bound{Kind: PosInfinity},
	}
}

// To returns the interval of all times up to and including t.
func To(t int64) Interval {
	return Interval{
		Lower: Bound{Kind: NegInfinity},
		Upper: Bound{Kind: Finite, Time: t, Inclusive: true},
	}
}

// From returns the interval of all times from t on, t included.
func From(t int64) Interval {
	return Interval{
		Lower: Bound{Kind: Finite, Time: t, Inclusive: true},
		Upper: Bound{Kind: PosInfinity},
	}
}

// Between returns the closed interval [from, to].
func Between(from, to int64) Interval {
	return Interval{
		Lower: Bound{Kind: Finite, Time: from, Inclusive: true},
		Upper: Bound{Kind: Finite, Time: to, Inclusive: true},
	}
}

// Contains reports whether every time in other also lies in i.
func (i Interval) Contains(other Interval) bool {
	return lowerNotAfter(i.Lower, other.Lower) && upperNotAfter(other.Upper, i.Upper)
}

// ContainsTime reports whether t lies in i.
func (i Interval) ContainsTime(t int64) bool {
	point := Bound{Kind: Finite, Time: t, Inclusive: true}
	return lowerNotAfter(i.Lower, point) && upperNotAfter(point, i.Upper)
}

// lowerNotAfter reports whether lower bound a starts at or before lower
// bound b. At equal times a closed bound starts before an open one.
func lowerNotAfter(a, b Bound) bool {
	switch a.Kind {
	case NegInfinity:
		return true
	case PosInfinity:
		return b.Kind == PosInfinity
	}
	switch b.Kind {
	case NegInfinity:
		return false
	case PosInfinity:
		return true
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Inclusive || !b.Inclusive
}

// upperNotAfter reports whether upper bound a ends at or before upper
// bound b. At equal times an open bound ends before a closed one.
func upperNotAfter(a, b Bound) bool {
	switch b.Kind {
	case PosInfinity:
		return true
	case NegInfinity:
		return a.Kind == NegInfinity
	}
	switch a.Kind {
	case NegInfinity:
		return true
	case PosInfinity:
		return false
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return b.Inclusive || !a.Inclusive
}
