// Package system wires the five state machines together and advances them
// in lockstep.
package system

import (
	"sync"

	"github.com/sirupsen/logrus"

	"lcdcalc/calc"
	"lcdcalc/config"
	"lcdcalc/divider"
	"lcdcalc/keydec"
	"lcdcalc/lcd"
	"lcdcalc/numconv"
)

// System is the whole machine: the five state machines of the controller
// proper plus the two device models on its edges (the keyboard transmitter
// and the display panel).
//
// The front panel touches the machine from two goroutines (the run loop
// and the gocui keybinding callbacks), so every exported method takes the
// machine mutex. The component fields themselves are only safe to access
// directly from single-goroutine code such as the tests.
type System struct {
	mu sync.Mutex

	Keyboard   *keydec.Transmitter
	Decoder    *keydec.Decoder
	Controller *calc.Controller
	Divider    *divider.Divider
	Converter  *numconv.Converter
	Display    *lcd.Driver
	Panel      *lcd.Panel

	log   *logrus.Logger
	ticks uint64
}

// New builds and resets a machine from the given configuration.
func New(cfg *config.Config, log *logrus.Logger) *System {
	sys := &System{
		Keyboard:   keydec.NewTransmitter(cfg.KbdHalfPeriod),
		Decoder:    keydec.New(),
		Controller: calc.New(log),
		Divider:    divider.New(),
		Converter:  numconv.New(),
		Panel:      lcd.NewPanel(),
		log:        log,
	}
	sys.Display = lcd.New(&sys.Controller.Line1, &sys.Controller.Line2, lcd.TimingFor(cfg.TickHz))
	return sys
}

// Reset pulls the external reset line: every state machine returns to its
// initial state and the panel power-cycles.
func (sys *System) Reset() {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.Keyboard.Reset()
	sys.Decoder.Reset()
	sys.Controller.Reset()
	sys.Divider.Reset()
	sys.Converter.Reset()
	sys.Display.Reset()
	sys.Panel.Reset()
	sys.ticks = 0
	if sys.log != nil {
		sys.log.Info("system reset")
	}
}

// Tick advances the whole machine by one tick.
func (sys *System) Tick() {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.tick()
}

// tick does the work of one tick with the mutex held. Every component input
// is captured from the previous tick's committed outputs before any
// component steps, so no component observes another's same-tick update.
func (sys *System) tick() {
	clk, data := sys.Keyboard.Clk, sys.Keyboard.Data

	in := calc.Inputs{
		Char:       sys.Decoder.Char,
		KeyValid:   sys.Decoder.Valid,
		DivDone:    sys.Divider.Done,
		DivZero:    sys.Divider.DivZero,
		Quotient:   sys.Divider.Quotient,
		ConvDone:   sys.Converter.Done,
		ConvDigits: sys.Converter.Digits,
	}

	divStart := sys.Controller.DivStart
	dividend, divisor := sys.Controller.Dividend, sys.Controller.Divisor
	convStart := sys.Controller.ConvStart
	convValue := sys.Controller.ConvValue

	busData, busRS, busE, busRW := sys.Display.Data, sys.Display.RS, sys.Display.E, sys.Display.RW

	sys.Keyboard.Step()
	sys.Decoder.Step(clk, data)
	sys.Controller.Step(in)
	sys.Divider.Step(divStart, dividend, divisor)
	sys.Converter.Step(convStart, convValue)
	sys.Display.Step()
	sys.Panel.Step(busData, busRS, busE, busRW)

	if sys.log != nil && in.KeyValid {
		sys.log.Debugf("key event: %q", in.Char)
	}
	sys.ticks++
}

// RunTicks advances the machine by n ticks.
func (sys *System) RunTicks(n int) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	for i := 0; i < n; i++ {
		sys.tick()
	}
}

// Ticks returns the number of ticks since the last reset.
func (sys *System) Ticks() uint64 {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	return sys.ticks
}

// Type queues the make/break sequence for a character on the keyboard.
// Unknown characters are dropped, like keys the scancode table does not
// cover.
func (sys *System) Type(ch byte) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	if !sys.Keyboard.PressKey(ch) {
		if sys.log != nil {
			sys.log.Warnf("no scancode for %q, ignored", ch)
		}
		return
	}
	if sys.log != nil {
		sys.log.Debugf("typed %q", ch)
	}
}

// Settled reports whether the keyboard is quiet and the controller has a
// result or an entry phase on display, i.e. nothing is going to change
// without further input.
func (sys *System) Settled() bool {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	if sys.Keyboard.Busy() {
		return false
	}
	switch sys.Controller.State() {
	case calc.InputOperand1, calc.InputOperand2, calc.DisplayResult:
		return true
	}
	return false
}

// Snapshot is a consistent copy of the externally visible machine state,
// taken under the machine mutex.
type Snapshot struct {
	Row0, Row1 string
	Status     uint8
	Phase      calc.State
	Ticks      uint64
}

// Snapshot captures the panel rows, the status output and the controller
// phase in one locked read, so renderers on other goroutines never observe
// a half-updated tick.
func (sys *System) Snapshot() Snapshot {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	return Snapshot{
		Row0:   sys.Panel.RowString(0),
		Row1:   sys.Panel.RowString(1),
		Status: sys.Controller.Status,
		Phase:  sys.Controller.State(),
		Ticks:  sys.ticks,
	}
}
