// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

// GasMeter tracks cumulative consumption against a limit fixed at construction.
// Consumption is never rolled back, so [used] can end up above [limit] after a
// failed charge.
type GasMeter struct {
	used  uint64
	limit uint64
}

func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit}
}

// Consume adds [amount] to the meter and returns an *OutOfGasError if the
// running total is now above the limit.
func (g *GasMeter) Consume(amount uint64) error {
	g.used += amount
	if g.used > g.limit {
		return &OutOfGasError{Used: g.used, Limit: g.limit}
	}
	return nil
}

func (g *GasMeter) Used() uint64  { return g.used }
func (g *GasMeter) Limit() uint64 { return g.limit }

// Remaining returns limit - used, or 0 once the meter has overshot.
func (g *GasMeter) Remaining() uint64 {
	if g.used >= g.limit {
		return 0
	}
	return g.limit - g.used
}
