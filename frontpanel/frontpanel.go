// Package frontpanel renders the machine in a terminal: the LCD glass,
// the 4-bit status output, and a message console. Typed keys are fed into
// the keyboard transmitter, so input takes the same serial path as on the
// real hardware.
package frontpanel

import (
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/sirupsen/logrus"

	"lcdcalc/keydec"
	"lcdcalc/system"
)

// keys the panel forwards to the keyboard transmitter
const typable = "0123456789+-*/"

// Panel is the interactive front panel.
type Panel struct {
	g             *gocui.Gui
	sys           *system.System
	log           *logrus.Logger
	ticksPerFrame int

	// console messages are funneled through a channel so that hook
	// callers never touch gocui views directly.
	consoleOut chan string

	// closed after MainLoop returns, before the gui is torn down; the
	// background goroutines exit instead of updating a closed gui.
	done chan struct{}
}

// New creates the gocui front panel for the given machine.
func New(sys *system.System, log *logrus.Logger, ticksPerFrame int) (*Panel, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("creating gui: %w", err)
	}

	p := &Panel{
		g:             g,
		sys:           sys,
		log:           log,
		ticksPerFrame: ticksPerFrame,
		consoleOut:    make(chan string, 16),
		done:          make(chan struct{}),
	}
	g.SetManagerFunc(p.layout)

	if err := p.keybindings(); err != nil {
		g.Close()
		return nil, err
	}
	if log != nil {
		log.AddHook(&consoleHook{p: p})
	}
	return p, nil
}

// Run drives the machine and the UI until the user quits. The background
// goroutines are stopped before the gui is closed.
func (p *Panel) Run() error {
	go p.refresh()
	go p.drainConsole()

	err := p.g.MainLoop()
	close(p.done)
	p.g.Close()
	if err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// refresh advances the simulation and repaints the views at frame rate.
// The rendered values come from one locked snapshot so the gui goroutine
// never reads the machine while a tick is in flight.
func (p *Panel) refresh() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.sys.RunTicks(p.ticksPerFrame)
			snap := p.sys.Snapshot()
			p.g.Update(func(g *gocui.Gui) error {
				if v, err := g.View("display"); err == nil {
					v.Clear()
					fmt.Fprintf(v, " [%s]\n [%s]", snap.Row0, snap.Row1)
				}
				if v, err := g.View("status"); err == nil {
					v.Clear()
					fmt.Fprintf(v, " status: %04b  phase: %s  ticks: %d",
						snap.Status, snap.Phase, snap.Ticks)
				}
				return nil
			})
		}
	}
}

func (p *Panel) drainConsole() {
	for {
		select {
		case <-p.done:
			return
		case msg := <-p.consoleOut:
			p.g.Update(func(g *gocui.Gui) error {
				v, err := g.View("console")
				if err != nil {
					return nil
				}
				fmt.Fprint(v, msg)
				return nil
			})
		}
	}
}

func (p *Panel) keybindings() error {
	if err := p.g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	if err := p.g.SetKeybinding("", gocui.KeyCtrlR, gocui.ModNone,
		func(g *gocui.Gui, v *gocui.View) error {
			p.sys.Reset()
			return nil
		}); err != nil {
		return err
	}
	for _, ch := range []byte(typable) {
		ch := ch
		if err := p.g.SetKeybinding("", rune(ch), gocui.ModNone,
			func(g *gocui.Gui, v *gocui.View) error {
				p.sys.Type(ch)
				return nil
			}); err != nil {
			return err
		}
	}
	return p.g.SetKeybinding("", gocui.KeyEnter, gocui.ModNone,
		func(g *gocui.Gui, v *gocui.View) error {
			p.sys.Type(keydec.Enter)
			return nil
		})
}

// gocui layout: LCD glass on top, status register below, console at the
// bottom.
func (p *Panel) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("display", 0, 0, maxX-1, 3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "LCD"
	}
	if v, err := g.SetView("status", 0, 4, maxX-1, 6); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	if v, err := g.SetView("console", 0, 7, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Console"
		v.Autoscroll = true
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// consoleHook forwards info-and-up log entries to the console view.
type consoleHook struct {
	p *Panel
}

func (h *consoleHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel, logrus.FatalLevel}
}

func (h *consoleHook) Fire(e *logrus.Entry) error {
	select {
	case h.p.consoleOut <- fmt.Sprintf("%s %s\n", e.Time.Format("15:04:05"), e.Message):
	default:
		// console full, drop rather than stall the logger
	}
	return nil
}
