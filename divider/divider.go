// Package divider holds the successive-subtraction integer divider.
//
// One subtraction per tick: runtime is proportional to the quotient,
// which is fine for calculator-scale operands.
package divider

type divState int

const (
	stateIdle divState = iota
	stateLoad
	stateCalc
	stateFinish
	stateError
)

// Divider computes the integer quotient of two non-negative operands.
// A divisor of zero raises the DivZero flag instead of a quotient; the
// done pulse fires either way.
type Divider struct {
	state     divState
	remainder int
	divisor   int
	quotient  int

	// Quotient and DivZero are valid together with the one-tick Done pulse.
	Quotient int
	DivZero  bool
	Done     bool
}

// New returns a divider in its reset state.
func New() *Divider {
	d := &Divider{}
	d.Reset()
	return d
}

// Reset aborts any division in progress and clears all registers.
func (d *Divider) Reset() {
	d.state = stateIdle
	d.remainder = 0
	d.divisor = 0
	d.quotient = 0
	d.Quotient = 0
	d.DivZero = false
	d.Done = false
}

// Step advances the divider by one tick. A start pulse is honored only in
// the idle state; dividend and divisor are latched on the start tick.
func (d *Divider) Step(start bool, dividend, divisor int) {
	d.Done = false
	d.DivZero = false

	switch d.state {
	case stateIdle:
		if start {
			d.remainder = dividend
			d.divisor = divisor
			d.quotient = 0
			d.state = stateLoad
		}

	case stateLoad:
		switch {
		case d.divisor == 0:
			d.state = stateError
		case d.remainder < d.divisor:
			d.state = stateFinish
		default:
			d.state = stateCalc
		}

	case stateCalc:
		d.remainder -= d.divisor
		d.quotient++
		if d.remainder < d.divisor {
			d.state = stateFinish
		}

	case stateFinish:
		d.Quotient = d.quotient
		d.Done = true
		d.state = stateIdle

	case stateError:
		d.DivZero = true
		d.Done = true
		d.state = stateIdle
	}
}
