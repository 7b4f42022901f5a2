// Package logging provides the small, buffer-backed logger every component
// takes as a constructor argument, in the teacher's ad hoc style
// (arena.go: `log.New(&ar.buf, "", log.Ltime)`) generalized into a shared
// helper instead of being reinvented per struct.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
)

// Logger wraps a standard library *log.Logger writing into an internal
// buffer, so callers can both print in real time (via an io.Writer mirror)
// and retrieve the accumulated text later (Arena.Log's pattern).
type Logger struct {
	buf *bytes.Buffer
	l   *log.Logger
}

// New creates a Logger with the given prefix, mirroring output to w in
// addition to the internal buffer. Pass nil for w to buffer only.
func New(prefix string, w io.Writer) *Logger {
	buf := &bytes.Buffer{}
	var out io.Writer = buf
	if w != nil {
		out = io.MultiWriter(buf, w)
	}
	return &Logger{
		buf: buf,
		l:   log.New(out, prefix, log.Ltime),
	}
}

// Stderr builds a Logger that mirrors to os.Stderr, convenient for CLI
// entry points (cmd/orchestrator, cmd/selfplay, cmd/trainer).
func Stderr(prefix string) *Logger {
	return New(prefix, os.Stderr)
}

// PerProcessFile builds a Logger writing into a file named by format applied
// to the current process id, matching the Python reference's
// `config_log("selfplay-{}.log".format(os.getpid()))`.
func PerProcessFile(dir, format string) (*Logger, *os.File, error) {
	name := fmt.Sprintf(format, os.Getpid())
	path := name
	if dir != "" {
		path = dir + string(os.PathSeparator) + name
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New("", f), f, nil
}

// Printf logs a formatted line.
func (lg *Logger) Printf(format string, args ...interface{}) {
	lg.l.Printf(format, args...)
}

// SetPrefix changes the logger's line prefix, mirroring Arena.logger.SetPrefix
// usage for indenting nested search logs.
func (lg *Logger) SetPrefix(prefix string) {
	lg.l.SetPrefix(prefix)
}

// String returns everything logged so far.
func (lg *Logger) String() string {
	return lg.buf.String()
}
