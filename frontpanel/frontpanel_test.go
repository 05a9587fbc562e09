package frontpanel

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcdcalc/config"
	"lcdcalc/system"
)

// testPanel builds a panel without a gui; only the machine-facing side is
// exercised here, the views need a real terminal.
func testPanel() *Panel {
	cfg := &config.Config{TickHz: 1000, KbdHalfPeriod: 2, TicksPerFrame: 100}
	return &Panel{
		sys:           system.New(cfg, nil),
		ticksPerFrame: cfg.TicksPerFrame,
		consoleOut:    make(chan string, 16),
		done:          make(chan struct{}),
	}
}

// The background goroutines must stop once done is closed, before Run
// tears the gui down.
func TestBackgroundLoopsExitOnShutdown(t *testing.T) {
	p := testPanel()
	close(p.done)

	finished := make(chan struct{})
	go func() {
		p.refresh()
		p.drainConsole()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("background loops did not exit after shutdown")
	}
}

func TestConsoleHookNeverBlocks(t *testing.T) {
	p := testPanel()
	h := &consoleHook{p: p}

	entry := &logrus.Entry{Time: time.Now(), Message: "display refreshed"}
	for i := 0; i < cap(p.consoleOut)+8; i++ {
		require.NoError(t, h.Fire(entry))
	}
	assert.Len(t, p.consoleOut, cap(p.consoleOut))
}
