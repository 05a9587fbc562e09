package lcd

// ddramSize covers both line banks: line 1 at 0x00..0x27,
// line 2 at 0x40..0x67.
const ddramSize = 0x68

// Panel models the display module on the far side of the bus. It latches
// the data pins on the falling edge of E, keeps a DDRAM image with an
// address counter, and decodes the handful of commands this design uses.
// The front panel renders from it and the tests assert against it.
type Panel struct {
	ddram [ddramSize]byte
	addr  int

	// pins sampled while E is high; latched when E falls, since the
	// driver may already present the next byte on the falling-edge tick
	heldData byte
	heldRS   bool
	prevE    bool

	on        bool
	increment bool

	// Commands records every command byte latched, in order.
	Commands []byte
}

// NewPanel returns a powered-up panel with empty DDRAM.
func NewPanel() *Panel {
	p := &Panel{}
	p.Reset()
	return p
}

// Reset models a power cycle of the module.
func (p *Panel) Reset() {
	for i := range p.ddram {
		p.ddram[i] = ' '
	}
	p.addr = 0
	p.heldData = 0
	p.heldRS = false
	p.prevE = false
	p.on = false
	p.increment = true
	p.Commands = nil
}

// On reports whether the display has been switched on.
func (p *Panel) On() bool {
	return p.on
}

// Step samples the bus pins for one tick. RW low means write; the module
// ignores the bus otherwise since this design never reads.
func (p *Panel) Step(data byte, rs, e, rw bool) {
	if e && !rw {
		p.heldData, p.heldRS = data, rs
	}
	if p.prevE && !e {
		p.latch(p.heldData, p.heldRS)
	}
	p.prevE = e
}

func (p *Panel) latch(data byte, rs bool) {
	if rs {
		if p.addr >= 0 && p.addr < ddramSize {
			p.ddram[p.addr] = data
		}
		if p.increment {
			p.addr++
		} else {
			p.addr--
		}
		return
	}

	p.Commands = append(p.Commands, data)
	switch {
	case data&0x80 != 0: // set DDRAM address
		p.addr = int(data & 0x7F)
	case data&0x20 != 0: // function set: bus width/lines/font, no state kept
	case data&0x08 != 0: // display control
		p.on = data&0x04 != 0
	case data&0x04 != 0: // entry mode
		p.increment = data&0x02 != 0
	case data == CmdClear:
		for i := range p.ddram {
			p.ddram[i] = ' '
		}
		p.addr = 0
	}
}

// Row returns the 16 visible characters of row 0 or 1.
func (p *Panel) Row(n int) [16]byte {
	var row [16]byte
	base := 0
	if n != 0 {
		base = 0x40
	}
	copy(row[:], p.ddram[base:base+16])
	return row
}

// RowString returns a row as a string, for display and test output.
func (p *Panel) RowString(n int) string {
	row := p.Row(n)
	return string(row[:])
}
