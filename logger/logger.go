package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. With an empty path it writes to stderr,
// otherwise it appends to the given file. Verbose enables debug-level
// state machine traces.
func New(path string, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	if len(path) > 0 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			l.Fatal(err)
		}
		l.SetOutput(f)
	}
	return l
}
