// Package lcd holds the character display side of the machine: the bus
// driver that initializes and refreshes an HD44780-class module, and a
// model of the module itself for the front panel and the tests.
package lcd

// HD44780 command bytes.
const (
	CmdFunctionSet = 0x38 // 8-bit bus, 2 lines, 5x8 font
	CmdDisplayOn   = 0x0C // display on, cursor and blink off
	CmdClear       = 0x01
	CmdEntryMode   = 0x06 // increment cursor, no shift
	CmdLine1Addr   = 0x80 // set DDRAM address, line 1 start
	CmdLine2Addr   = 0xC0 // set DDRAM address, line 2 start
)

// Timing holds every delay of the driver, in ticks. The module never
// reports busy, so all of these must exceed the device's real timing
// budget at the configured tick rate.
type Timing struct {
	PowerOn  int // wait after power-up, >= 15 ms
	Command  int // settle after an ordinary command, >= 37 us
	Clear    int // settle after Clear Display, >= 1.52 ms
	Enable   int // enable pulse width, >= 450 ns
	FrameGap int // pause between refresh frames
}

// TimingFor derives conservative delays from the tick frequency.
func TimingFor(tickHz int) Timing {
	return Timing{
		PowerOn:  ticksFor(tickHz, 16_000_000), // 16 ms
		Command:  ticksFor(tickHz, 50_000),     // 50 us
		Clear:    ticksFor(tickHz, 2_000_000),  // 2 ms
		Enable:   ticksFor(tickHz, 1_000),      // 1 us
		FrameGap: ticksFor(tickHz, 2_000_000),  // 2 ms
	}
}

// ticksFor rounds a nanosecond duration up to whole ticks, at least one.
func ticksFor(tickHz int, ns int64) int {
	t := (int64(tickHz)*ns + 999_999_999) / 1_000_000_000
	if t < 1 {
		t = 1
	}
	return int(t)
}

type drvState int

const (
	statePowerOn drvState = iota
	stateFunctionSet
	stateDisplayOn
	stateClear
	stateEntryMode
	stateSetLine1
	stateWriteLine1
	stateSetLine2
	stateWriteLine2
	stateFrameGap
)

type phase int

const (
	phasePresent phase = iota
	phaseEnable
	phaseSettle
)

// Driver runs the fixed power-on sequence and then refreshes both display
// lines forever. It only ever writes: RW is tied low and the busy flag is
// never read, so correctness rests entirely on the Timing values.
//
// The line buffers belong to the controller; the driver reads them one
// character per write cycle and may observe a line mid-update, which the
// refresh cadence makes harmless.
type Driver struct {
	timing Timing
	line1  *[16]byte
	line2  *[16]byte

	state  drvState
	phase  phase
	wait   int
	cursor int

	// Bus pins.
	Data byte
	RS   bool
	E    bool
	RW   bool
}

// New returns a driver reading from the given line buffers.
func New(line1, line2 *[16]byte, timing Timing) *Driver {
	d := &Driver{timing: timing, line1: line1, line2: line2}
	d.Reset()
	return d
}

// Reset restarts the power-on sequence from the initial wait.
func (d *Driver) Reset() {
	d.state = statePowerOn
	d.phase = phasePresent
	d.wait = d.timing.PowerOn
	d.cursor = 0
	d.Data = 0
	d.RS = false
	d.E = false
	d.RW = false
}

// Initialized reports whether the power-on command sequence has finished.
func (d *Driver) Initialized() bool {
	switch d.state {
	case statePowerOn, stateFunctionSet, stateDisplayOn, stateClear, stateEntryMode:
		return false
	}
	return true
}

// Step advances the driver by one tick.
func (d *Driver) Step() {
	if d.state == statePowerOn || d.state == stateFrameGap {
		d.E = false
		d.wait--
		if d.wait <= 0 {
			d.advance()
		}
		return
	}

	switch d.phase {
	case phasePresent:
		d.Data, d.RS = d.current()
		d.E = false
		d.phase = phaseEnable
		d.wait = d.timing.Enable
	case phaseEnable:
		d.E = true
		d.wait--
		if d.wait <= 0 {
			if s := d.settle(); s > 0 {
				d.phase = phaseSettle
				d.wait = s
			} else {
				d.advance()
				d.phase = phasePresent
			}
		}
	case phaseSettle:
		d.E = false
		d.wait--
		if d.wait <= 0 {
			d.advance()
			d.phase = phasePresent
		}
	}
}

// current returns the byte and register-select level for this state.
func (d *Driver) current() (byte, bool) {
	switch d.state {
	case stateFunctionSet:
		return CmdFunctionSet, false
	case stateDisplayOn:
		return CmdDisplayOn, false
	case stateClear:
		return CmdClear, false
	case stateEntryMode:
		return CmdEntryMode, false
	case stateSetLine1:
		return CmdLine1Addr, false
	case stateWriteLine1:
		return d.line1[d.cursor], true
	case stateSetLine2:
		return CmdLine2Addr, false
	case stateWriteLine2:
		return d.line2[d.cursor], true
	}
	return 0, false
}

// settle returns the post-command delay for this state. Character writes
// settle within the two-tick present/enable cycle itself.
func (d *Driver) settle() int {
	switch d.state {
	case stateClear:
		return d.timing.Clear
	case stateFunctionSet, stateDisplayOn, stateEntryMode, stateSetLine1, stateSetLine2:
		return d.timing.Command
	}
	return 0
}

func (d *Driver) advance() {
	switch d.state {
	case statePowerOn:
		d.state = stateFunctionSet
	case stateFunctionSet:
		d.state = stateDisplayOn
	case stateDisplayOn:
		d.state = stateClear
	case stateClear:
		d.state = stateEntryMode
	case stateEntryMode:
		d.state = stateSetLine1
	case stateSetLine1:
		d.cursor = 0
		d.state = stateWriteLine1
	case stateWriteLine1:
		d.cursor++
		if d.cursor == 16 {
			d.state = stateSetLine2
		}
	case stateSetLine2:
		d.cursor = 0
		d.state = stateWriteLine2
	case stateWriteLine2:
		d.cursor++
		if d.cursor == 16 {
			d.state = stateFrameGap
			d.wait = d.timing.FrameGap
		}
	case stateFrameGap:
		d.state = stateSetLine1
	}
}
