// Package audit records the bring-up step trail: one JSONL entry per
// step with its outcome, enough context (command text, property name) to
// reconstruct the run, and the run ID tying entries of one attempt
// together.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Step outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailed  = "FAILED"
	OutcomeSkipped = "SKIPPED"
)

// Entry is a single step record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	RunID     string    `json:"runId"`
	Step      string    `json:"step"`
	Command   string    `json:"command,omitempty"`
	Property  string    `json:"property,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	LatencyMs int64     `json:"latencyMs"`
}

// Logger writes step entries as JSON lines.
type Logger struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// NewFileLogger creates a logger writing to <dir>/bringup.jsonl with
// size-based rotation.
func NewFileLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "bringup.jsonl"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
	}
	return &Logger{w: lj, c: lj}, nil
}

// NewWriterLogger creates a logger writing to w. Used by tests and the
// demo binary.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Record appends one entry. Marshal or write failures go to stderr; the
// audit trail must never fail the run it is describing.
func (l *Logger) Record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to marshal entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to write entry: %v\n", err)
	}
}

// Close releases the underlying writer, if it owns one.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c != nil {
		err := l.c.Close()
		l.c = nil
		return err
	}
	return nil
}
