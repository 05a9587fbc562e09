// Package calc holds the central controller of the calculator: it turns
// decoded key events into two operands and an operator, dispatches the
// arithmetic, and owns the two display line buffers the LCD driver
// refreshes from.
package calc

import (
	"github.com/sirupsen/logrus"
)

// State enumerates the controller phases.
type State int

const (
	Idle State = iota
	InputOperand1
	InputOperand2
	Calculate
	WaitDivide
	StartConvert
	WaitConvert
	DisplayResult
	ErrorState
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case InputOperand1:
		return "InputOperand1"
	case InputOperand2:
		return "InputOperand2"
	case Calculate:
		return "Calculate"
	case WaitDivide:
		return "WaitDivide"
	case StartConvert:
		return "StartConvert"
	case WaitConvert:
		return "WaitConvert"
	case DisplayResult:
		return "DisplayResult"
	case ErrorState:
		return "ErrorState"
	}
	return "?"
}

// 4-bit status codes mirrored on the status output.
const (
	StatusOperand1 uint8 = 0b0001
	StatusOperand2 uint8 = 0b0010
	StatusCompute  uint8 = 0b0100
	StatusDisplay  uint8 = 0b1000
)

// LineLen is the width of one display line.
const LineLen = 16

// Digit limits for the two entry phases. Characters past the limit are
// dropped without any error indication.
const (
	maxDigits1 = 8
	maxCursor  = LineLen
)

const enter = 0x0D

// Inputs is the tick snapshot the controller steps from: the key event
// plus the handshake outputs of the two worker machines.
type Inputs struct {
	Char     byte
	KeyValid bool

	DivDone  bool
	DivZero  bool
	Quotient int

	ConvDone   bool
	ConvDigits [4]byte
}

// Controller is the orchestrating state machine. It is the single writer
// of Line1, Line2 and Status; the display driver only ever reads them.
type Controller struct {
	state State

	operand1 int
	operand2 int
	operator byte
	result   int
	cursor   int
	digits1  int

	// Line1 and Line2 are the two 16-character display line buffers.
	Line1 [LineLen]byte
	Line2 [LineLen]byte

	// Status mirrors the phase on the 4-bit status output.
	Status uint8

	// Divide job start pulse with its operands.
	DivStart bool
	Dividend int
	Divisor  int

	// Convert job start pulse with its value.
	ConvStart bool
	ConvValue int

	log *logrus.Logger
}

// New returns a controller in its reset state. The logger may be nil.
func New(log *logrus.Logger) *Controller {
	c := &Controller{log: log}
	c.Reset()
	return c
}

// Reset forces the controller back to Idle and clears every register and
// both line buffers.
func (c *Controller) Reset() {
	c.state = Idle
	c.clearEntry()
	c.result = 0
	c.operator = 0
	c.Status = 0
	c.DivStart = false
	c.ConvStart = false
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Result returns the last computed result. Meaningful from WaitConvert on.
func (c *Controller) Result() int {
	return c.result
}

func (c *Controller) clearEntry() {
	for i := range c.Line1 {
		c.Line1[i] = ' '
		c.Line2[i] = ' '
	}
	c.operand1 = 0
	c.operand2 = 0
	c.cursor = 0
	c.digits1 = 0
}

// Step advances the controller by one tick.
func (c *Controller) Step(in Inputs) {
	c.DivStart = false
	c.ConvStart = false
	prev := c.state

	switch c.state {
	case Idle:
		c.clearEntry()
		c.Status = 0
		c.state = InputOperand1

	case InputOperand1:
		c.Status = StatusOperand1
		if !in.KeyValid {
			break
		}
		switch {
		case isDigit(in.Char):
			if c.digits1 < maxDigits1 {
				c.operand1 = c.operand1*10 + int(in.Char-'0')
				c.echo(in.Char)
				c.digits1++
			}
		case isOperator(in.Char):
			c.operator = in.Char
			c.echo(in.Char)
			c.state = InputOperand2
		}

	case InputOperand2:
		c.Status = StatusOperand2
		if !in.KeyValid {
			break
		}
		switch {
		case in.Char == enter:
			c.state = Calculate
		case isDigit(in.Char):
			if c.cursor < maxCursor {
				c.operand2 = c.operand2*10 + int(in.Char-'0')
				c.echo(in.Char)
			}
		}

	case Calculate:
		c.Status = StatusCompute
		switch c.operator {
		case '+':
			c.result = c.operand1 + c.operand2
			c.state = StartConvert
		case '-':
			c.result = c.operand1 - c.operand2
			c.state = StartConvert
		case '*':
			c.result = c.operand1 * c.operand2
			c.state = StartConvert
		case '/':
			c.DivStart = true
			c.Dividend = c.operand1
			c.Divisor = c.operand2
			c.state = WaitDivide
		default:
			// Corrupted operator register: fall back to a zero result
			// rather than wedging the machine.
			c.result = 0
			c.state = StartConvert
		}

	case WaitDivide:
		c.Status = StatusCompute
		if !in.DivDone {
			break
		}
		if in.DivZero {
			c.state = ErrorState
		} else {
			c.result = in.Quotient
			c.state = StartConvert
		}

	case StartConvert:
		c.Status = StatusCompute
		for i := range c.Line2 {
			c.Line2[i] = ' '
		}
		c.ConvStart = true
		c.ConvValue = c.result
		c.state = WaitConvert

	case WaitConvert:
		c.Status = StatusCompute
		if !in.ConvDone {
			break
		}
		copy(c.Line2[:4], in.ConvDigits[:])
		if c.result < 0 {
			c.Line2[4] = '-'
		}
		c.state = DisplayResult

	case DisplayResult:
		c.Status = StatusDisplay
		if in.KeyValid && in.Char == enter {
			c.state = Idle
		}

	case ErrorState:
		c.Status = StatusDisplay
		c.Line2[0] = 'E'
		c.Line2[1] = 'r'
		c.Line2[2] = 'r'
		c.Line2[3] = 'o'
		c.state = DisplayResult
	}

	if c.log != nil && c.state != prev {
		c.log.Debugf("calc: %s -> %s", prev, c.state)
	}
}

// echo writes a character into line1 at the cursor and advances it.
func (c *Controller) echo(ch byte) {
	if c.cursor < LineLen {
		c.Line1[c.cursor] = ch
		c.cursor++
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isOperator(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/'
}
