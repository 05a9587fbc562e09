package keydec

// Transmitter plays the keyboard side of the serial protocol. Queued
// scancodes are shifted out as 11-bit frames on the Clk and Data lines:
// one start bit, eight data bits LSB first, odd parity, one stop bit.
//
// Each bit occupies one full clock period of 2*halfPeriod ticks. The data
// bit is held stable for the whole period while the clock runs high for the
// first half and low for the second, so the falling edge lands mid-bit.
type Transmitter struct {
	halfPeriod int
	queue      []byte
	bits       [frameBits]bool
	bitIdx     int
	phase      int
	sending    bool
	idleGap    int

	// Line outputs, idle high.
	Clk  bool
	Data bool
}

// NewTransmitter returns an idle transmitter. halfPeriod is the number of
// ticks per half clock period; values below 2 would outrun the decoder's
// synchronizer and are clamped.
func NewTransmitter(halfPeriod int) *Transmitter {
	if halfPeriod < 2 {
		halfPeriod = 2
	}
	t := &Transmitter{halfPeriod: halfPeriod}
	t.Reset()
	return t
}

// Reset drops any queued frames and returns both lines to idle.
func (t *Transmitter) Reset() {
	t.queue = nil
	t.bitIdx = 0
	t.phase = 0
	t.sending = false
	t.idleGap = 0
	t.Clk = true
	t.Data = true
}

// PressKey queues the full make/break sequence for the given character:
// the make code, then 0xF0 plus the make code again. It reports whether
// the character has a scancode assigned.
func (t *Transmitter) PressKey(ch byte) bool {
	code, ok := makeCodes[ch]
	if !ok {
		return false
	}
	t.queue = append(t.queue, code, breakCode, code)
	return true
}

// SendScancode queues a single raw scancode frame.
func (t *Transmitter) SendScancode(code byte) {
	t.queue = append(t.queue, code)
}

// Busy reports whether any frame is queued or in flight.
func (t *Transmitter) Busy() bool {
	return t.sending || t.idleGap > 0 || len(t.queue) > 0
}

// Step advances the transmitter by one tick, updating Clk and Data.
func (t *Transmitter) Step() {
	if !t.sending {
		t.Clk = true
		t.Data = true
		if t.idleGap > 0 {
			t.idleGap--
			return
		}
		if len(t.queue) == 0 {
			return
		}
		t.loadFrame(t.queue[0])
		t.queue = t.queue[1:]
		t.sending = true
	}

	t.Data = t.bits[t.bitIdx]
	t.Clk = t.phase < t.halfPeriod
	t.phase++
	if t.phase == 2*t.halfPeriod {
		t.phase = 0
		t.bitIdx++
		if t.bitIdx == frameBits {
			t.sending = false
			// Keep the lines quiet between frames so the decoder gets
			// its edge-free tick to emit the event.
			t.idleGap = 4 * t.halfPeriod
			t.Clk = true
			t.Data = true
		}
	}
}

func (t *Transmitter) loadFrame(code byte) {
	t.bits[0] = false // start
	ones := 0
	for i := 0; i < 8; i++ {
		b := code>>uint(i)&1 == 1
		t.bits[1+i] = b
		if b {
			ones++
		}
	}
	t.bits[9] = ones%2 == 0 // odd parity
	t.bits[10] = true       // stop
	t.bitIdx = 0
	t.phase = 0
}
