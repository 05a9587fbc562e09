package keydec

// keyState tracks the make/break semantics of the scancode stream.
// Only key presses produce events; the 0xF0 break marker and the
// release code that follows it are swallowed.
type keyState int

const (
	stateIdle keyState = iota
	stateRelease // break marker seen, next scancode is the released key
	stateMake    // make code latched, waiting for a quiet tick to emit
)

// breakCode is the scancode prefix a keyboard sends on key release.
const breakCode = 0xF0

// frameBits is the length of one serial frame:
// start, 8 data bits LSB first, parity, stop.
const frameBits = 11

// Decoder converts the serial keyboard clock and data lines into one-tick
// key events.
//
// The clock line runs through a 3-deep sample synchronizer. A falling edge
// is declared when the 2-tick-old sample was high and the 1-tick-old sample
// is low, so detection lags the physical edge by one tick. The data bit is
// shifted in one tick after the detection, never on it, which keeps the
// sampling point well inside the bit period.
type Decoder struct {
	clk  [3]bool // clk[0] is the newest sample
	data [3]bool

	frame    uint16 // 11-bit shift register
	bitCount int
	scancode byte
	state    keyState

	// an edge was detected last tick; shift the data bit in this tick
	samplePending bool

	// Char and Valid form the key event output, valid for exactly one tick.
	Char  byte
	Valid bool
}

// New returns a decoder in its reset state.
func New() *Decoder {
	d := &Decoder{}
	d.Reset()
	return d
}

// Reset clears the synchronizer, the shift register and the make/break state.
// Both lines idle high.
func (d *Decoder) Reset() {
	d.clk = [3]bool{true, true, true}
	d.data = [3]bool{true, true, true}
	d.frame = 0
	d.bitCount = 0
	d.scancode = 0
	d.state = stateIdle
	d.samplePending = false
	d.Char = 0
	d.Valid = false
}

// Step advances the decoder by one tick with the current line samples.
func (d *Decoder) Step(clkLine, dataLine bool) {
	d.Char = 0
	d.Valid = false

	switch {
	case d.samplePending:
		// One tick past the edge: shift the current data sample in.
		d.samplePending = false
		if d.data[0] {
			d.frame |= 1 << uint(d.bitCount)
		}
		if d.bitCount == frameBits-1 {
			// Frame complete: bits 1..8 carry the scancode, LSB first.
			// Parity and stop bits are not checked.
			d.scancode = byte(d.frame >> 1)
			d.frame = 0
			d.bitCount = 0
			d.advanceKeyState()
		} else {
			d.bitCount++
		}
	case d.clk[1] && !d.clk[0]:
		d.samplePending = true
	case d.state == stateMake:
		if ch := charFor(d.scancode); ch != Unmapped {
			d.Char = ch
			d.Valid = true
		}
		d.state = stateIdle
	}

	d.clk[2], d.clk[1], d.clk[0] = d.clk[1], d.clk[0], clkLine
	d.data[2], d.data[1], d.data[0] = d.data[1], d.data[0], dataLine
}

func (d *Decoder) advanceKeyState() {
	switch d.state {
	case stateIdle:
		if d.scancode == breakCode {
			d.state = stateRelease
		} else {
			d.state = stateMake
		}
	case stateRelease:
		// Release code of the key that went up. Discard, no event.
		d.state = stateIdle
	case stateMake:
		// A second frame arrived before a quiet tick. Keyboards are
		// orders of magnitude slower than the tick, so just follow the
		// newer code.
		if d.scancode == breakCode {
			d.state = stateRelease
		}
	}
}
