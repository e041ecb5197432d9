// Copyright © 2024 The pystyle authors

package pystyletest

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// Logger is an io.Writer that forwards complete lines to t.Log.  It is safe
// for concurrent use, so it can stand in for stderr in tests that lint files
// in parallel.
type Logger struct {
	t      testing.TB
	prefix string
	mu     sync.Mutex
	buf    []byte
}

var _ io.Writer = (*Logger)(nil)

// NewLogger returns a Logger writing to t.  Each logged line starts with
// prefix.
func NewLogger(t testing.TB, prefix string) *Logger {
	return &Logger{t: t, prefix: prefix}
}

func (log *Logger) Write(b []byte) (int, error) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.buf = append(log.buf, b...)
	for {
		i := bytes.IndexByte(log.buf, '\n')
		if i < 0 {
			return len(b), nil
		}
		log.t.Log(log.prefix + string(log.buf[:i]))
		log.buf = log.buf[i+1:]
	}
}

// Flush logs any partial line left in the buffer.
func (log *Logger) Flush() {
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.buf) == 0 {
		return
	}
	log.t.Log(log.prefix + string(log.buf))
	log.buf = nil
}
