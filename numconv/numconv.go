// Package numconv holds the binary to decimal digit converter.
//
// The conversion runs the shift-add-3 (double dabble) algorithm over a
// 14-bit working register, one algorithm step per tick, so a conversion
// always takes the same number of ticks regardless of the input value.
package numconv

type convState int

const (
	stateIdle convState = iota
	stateLoad
	stateCheckAdd
	stateShift
	stateFinish
)

// iterations is the width of the working register: one check/shift pair
// per binary digit.
const iterations = 14

// digitBase is the high nibble ORed onto a BCD digit to form its
// display character ('0'..'9').
const digitBase = 0x30

// Converter turns a signed integer in [-9999, 9999] into four decimal
// digit characters. The sign is dropped: |n| is converted and the caller
// renders a minus sign separately.
type Converter struct {
	state  convState
	input  int
	binary uint16   // 14-bit binary register
	bcd    [4]uint8 // thousands, hundreds, tens, units

	// Digits carries the four digit characters, thousands first.
	// Valid together with the one-tick Done pulse.
	Digits [4]byte
	Done   bool

	iter int
}

// New returns a converter in its reset state.
func New() *Converter {
	c := &Converter{}
	c.Reset()
	return c
}

// Reset aborts any conversion in progress and clears all registers.
func (c *Converter) Reset() {
	c.state = stateIdle
	c.input = 0
	c.binary = 0
	c.bcd = [4]uint8{}
	c.Digits = [4]byte{}
	c.Done = false
	c.iter = 0
}

// Step advances the converter by one tick. A start pulse is honored only
// in the idle state; value is latched on the start tick.
func (c *Converter) Step(start bool, value int) {
	c.Done = false

	switch c.state {
	case stateIdle:
		if start {
			c.input = value
			c.state = stateLoad
		}

	case stateLoad:
		v := c.input
		if v < 0 {
			v = -v
		}
		// The register is 14 bits wide; anything past that is cut off
		// exactly as the hardware register would cut it.
		c.binary = uint16(v) & 0x3FFF
		c.bcd = [4]uint8{}
		c.iter = 0
		c.state = stateCheckAdd

	case stateCheckAdd:
		for i := range c.bcd {
			if c.bcd[i] > 4 {
				c.bcd[i] += 3
			}
		}
		c.state = stateShift

	case stateShift:
		// One left shift through the whole carry chain:
		// thousands <- hundreds <- tens <- units <- binary top bit.
		top := uint8(c.binary >> (iterations - 1) & 1)
		c.bcd[0] = c.bcd[0]<<1&0xF | c.bcd[1]>>3&1
		c.bcd[1] = c.bcd[1]<<1&0xF | c.bcd[2]>>3&1
		c.bcd[2] = c.bcd[2]<<1&0xF | c.bcd[3]>>3&1
		c.bcd[3] = c.bcd[3]<<1&0xF | top
		c.binary = c.binary << 1 & 0x3FFF
		c.iter++
		if c.iter == iterations {
			c.state = stateFinish
		} else {
			c.state = stateCheckAdd
		}

	case stateFinish:
		for i, d := range c.bcd {
			c.Digits[i] = digitBase | d
		}
		c.Done = true
		c.state = stateIdle
	}
}
