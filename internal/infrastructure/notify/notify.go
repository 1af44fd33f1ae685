package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Writer delivers one-shot notifications to a terminal stream. It is the
// CLI analog of transient toast messages: each notification is rendered
// once and never retried.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a notifier writing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) emit(prefix, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", prefix, message)
}

// Success reports a completed operation
func (w *Writer) Success(message string) { w.emit("✔", message) }

// Info reports neutral information
func (w *Writer) Info(message string) { w.emit("ℹ", message) }

// Warn reports a recoverable problem
func (w *Writer) Warn(message string) { w.emit("⚠", message) }

// Error reports a failed operation
func (w *Writer) Error(message string) { w.emit("✖", message) }

// Nop is a notifier that drops everything, for tests
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Info(string)    {}
func (Nop) Warn(string)    {}
func (Nop) Error(string)   {}
