package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// debugPrefix marks log lines that are suppressed unless debug logging is on.
const debugPrefix = "[DEBUG]"

// DebugLog wraps a log.Logger so that lines containing debugPrefix are
// dropped unless debug logging has been enabled. Simulation packages log
// per-event diagnostics at debug level; everything else passes through.
type DebugLog struct {
	Logger *log.Logger
	out    io.Writer
	r      *io.PipeReader
	debug  bool
	mux    sync.RWMutex
}

// NewDebugLog builds a DebugLog writing to out. Filtering runs on its own
// goroutine for the life of the logger; call Close to release it.
func NewDebugLog(out io.Writer, prefix string, flag int) *DebugLog {
	r, w := io.Pipe()
	l := &DebugLog{
		Logger: log.New(w, prefix, flag),
		out:    out,
		r:      r,
	}
	go l.filter()
	return l
}

// SetDebug turns debug-level output on or off.
func (l *DebugLog) SetDebug(d bool) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.debug = d
}

// Debug reports whether debug-level output is enabled.
func (l *DebugLog) Debug() bool {
	l.mux.RLock()
	defer l.mux.RUnlock()
	return l.debug
}

// Close stops the filter goroutine and closes the underlying writer if it is
// an io.Closer.
func (l *DebugLog) Close() {
	l.r.Close()
	if c, ok := l.out.(io.Closer); ok {
		c.Close()
	}
}

func (l *DebugLog) filter() {
	s := bufio.NewScanner(l.r)
	for s.Scan() {
		m := s.Text()
		if l.Debug() || !strings.Contains(m, debugPrefix) {
			fmt.Fprintln(l.out, m)
		}
	}
}
