package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lcdcalc/config"
	"lcdcalc/frontpanel"
	"lcdcalc/keydec"
	"lcdcalc/logger"
	"lcdcalc/system"
)

var (
	cfgPath  string
	verbose  bool
	script   string
	maxTicks int

	rootCmd = &cobra.Command{
		Use:   "lcdcalc",
		Short: "Simulator for a serial-keyboard calculator with a 2x16 character LCD",
		Long: `lcdcalc simulates a small fixed-function calculator controller:
a serial keyboard decoder, a successive-subtraction divider, a double-dabble
digit converter, a central controller and an HD44780 display driver, all
advancing in lockstep on a shared tick.

Without flags it opens an interactive front panel. With --script it feeds
the given characters through the keyboard and prints the final display.`,
		RunE: run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level state machine traces")
	rootCmd.Flags().StringVarP(&script, "script", "s", "", "Run headless, typing the given characters ('=' and newline both mean Enter)")
	rootCmd.Flags().IntVar(&maxTicks, "max-ticks", 20_000_000, "Tick budget for headless runs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	if verbose {
		cfg.Verbose = true
	}

	log := logger.New(cfg.LogFile, cfg.Verbose)
	sys := system.New(cfg, log)

	if script != "" {
		return runScript(sys, script)
	}

	panel, err := frontpanel.New(sys, log, cfg.TicksPerFrame)
	if err != nil {
		return err
	}
	log.Info("starting calculator")
	return panel.Run()
}

// runScript types the script characters, runs the machine until it settles
// within the tick budget, and prints the two display rows.
func runScript(sys *system.System, script string) error {
	for i := 0; i < len(script); i++ {
		ch := script[i]
		if ch == '=' || ch == '\n' {
			ch = keydec.Enter
		}
		sys.Type(ch)
	}

	const batch = 10_000
	spent := 0
	for {
		sys.RunTicks(batch)
		spent += batch
		if sys.Settled() {
			break
		}
		if spent >= maxTicks {
			return fmt.Errorf("machine did not settle within %d ticks", maxTicks)
		}
	}
	// A little longer so the display driver pushes the final buffers
	// through the power-on sequence and a full refresh frame.
	sys.RunTicks(50_000)

	fmt.Printf("[%s]\n[%s]\nstatus: %04b\n",
		sys.Panel.RowString(0), sys.Panel.RowString(1), sys.Controller.Status)
	return nil
}
