package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcdcalc/calc"
	"lcdcalc/config"
	"lcdcalc/keydec"
)

// testConfig runs the machine at a low tick rate so the LCD delays shrink
// to a handful of ticks and full scenarios stay cheap.
func testConfig() *config.Config {
	return &config.Config{
		TickHz:        1000,
		KbdHalfPeriod: 2,
		TicksPerFrame: 1000,
	}
}

func typeLine(sys *System, expr string) {
	for i := 0; i < len(expr); i++ {
		sys.Type(expr[i])
	}
	sys.Type(keydec.Enter)
}

func TestEndToEndAddition(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "12+7")
	sys.RunTicks(10_000)

	require.True(t, sys.Settled())
	assert.Equal(t, calc.DisplayResult, sys.Controller.State())
	assert.Equal(t, calc.StatusDisplay, sys.Controller.Status)
	assert.Equal(t, 19, sys.Controller.Result())

	// the panel mirrors the controller's line buffers after a refresh
	assert.Equal(t, "12+7            ", sys.Panel.RowString(0))
	assert.Equal(t, "0019            ", sys.Panel.RowString(1))
}

func TestEndToEndNegativeResult(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "5-20")
	sys.RunTicks(10_000)

	require.True(t, sys.Settled())
	assert.Equal(t, -15, sys.Controller.Result())
	assert.Equal(t, "0015-           ", sys.Panel.RowString(1))
}

func TestEndToEndDivision(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "84/2")
	sys.RunTicks(10_000)

	require.True(t, sys.Settled())
	assert.Equal(t, 42, sys.Controller.Result())
	assert.Equal(t, "0042            ", sys.Panel.RowString(1))
}

func TestEndToEndDivideByZero(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "8/0")
	sys.RunTicks(10_000)

	require.True(t, sys.Settled())
	assert.Equal(t, calc.StatusDisplay, sys.Controller.Status)
	assert.Equal(t, "Erro            ", sys.Panel.RowString(1))
}

func TestEnterStartsNextCalculation(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "12+7")
	sys.RunTicks(10_000)
	require.Equal(t, calc.DisplayResult, sys.Controller.State())

	sys.Type(keydec.Enter)
	sys.RunTicks(10_000)

	assert.Equal(t, calc.InputOperand1, sys.Controller.State())
	assert.Equal(t, calc.StatusOperand1, sys.Controller.Status)
	assert.Equal(t, "                ", sys.Panel.RowString(0))
	assert.Equal(t, "                ", sys.Panel.RowString(1))
}

func TestTwoCalculationsBackToBack(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "2*3")
	sys.RunTicks(10_000)
	require.Equal(t, 6, sys.Controller.Result())

	sys.Type(keydec.Enter)
	typeLine(sys, "9-4")
	sys.RunTicks(10_000)

	assert.Equal(t, 5, sys.Controller.Result())
	assert.Equal(t, "0005            ", sys.Panel.RowString(1))
}

func TestUnknownKeyIgnored(t *testing.T) {
	sys := New(testConfig(), nil)
	sys.Type('x') // no scancode, dropped at the keyboard
	sys.Type('7')
	sys.RunTicks(5_000)

	assert.Equal(t, "7               ", sys.Panel.RowString(0))
}

// Keys and resets arrive from the gui goroutine while the run loop is
// ticking. The machine mutex serializes them; the race detector trips here
// if any exported method touches state unlocked.
func TestConcurrentTypeRunAndSnapshot(t *testing.T) {
	sys := New(testConfig(), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			sys.RunTicks(50)
			_ = sys.Snapshot()
			_ = sys.Settled()
		}
	}()

	typeLine(sys, "12+7")
	for i := 0; i < 100; i++ {
		_ = sys.Snapshot()
		_ = sys.Ticks()
	}
	<-done

	sys.RunTicks(20_000)
	snap := sys.Snapshot()
	assert.Equal(t, calc.DisplayResult, snap.Phase)
	assert.Equal(t, calc.StatusDisplay, snap.Status)
	assert.Equal(t, "0019            ", snap.Row1)
	assert.Equal(t, 19, sys.Controller.Result())
}

func TestConcurrentResetLeavesMachineSane(t *testing.T) {
	sys := New(testConfig(), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sys.RunTicks(100)
		}
	}()
	typeLine(sys, "3+4")
	sys.Reset()
	<-done

	// whatever interleaving happened, a fresh calculation still works
	sys.Reset()
	typeLine(sys, "6*7")
	sys.RunTicks(20_000)
	assert.Equal(t, 42, sys.Controller.Result())
	assert.Equal(t, "0042            ", sys.Panel.RowString(1))
}

func TestSnapshotMirrorsPanel(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "84/2")
	sys.RunTicks(10_000)

	snap := sys.Snapshot()
	assert.Equal(t, sys.Panel.RowString(0), snap.Row0)
	assert.Equal(t, sys.Panel.RowString(1), snap.Row1)
	assert.Equal(t, sys.Controller.Status, snap.Status)
	assert.Equal(t, sys.Ticks(), snap.Ticks)
}

func TestReset(t *testing.T) {
	sys := New(testConfig(), nil)
	typeLine(sys, "12+7")
	sys.RunTicks(3_000)

	sys.Reset()
	assert.Equal(t, uint64(0), sys.Ticks())
	assert.Equal(t, calc.Idle, sys.Controller.State())
	assert.False(t, sys.Keyboard.Busy())

	// machine comes back up cleanly
	typeLine(sys, "1+1")
	sys.RunTicks(10_000)
	assert.Equal(t, "0002            ", sys.Panel.RowString(1))
}
