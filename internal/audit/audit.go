// Package audit is the append-only security event sink. Events are
// one-way and fire-and-forget: the writer runs on its own goroutine,
// a full buffer drops the event, and no caller ever blocks on or learns
// about a write failure. The audit trail is never protocol-level truth.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"sealedchat/internal/domain"
)

// Logger appends events to a log file asynchronously.
type Logger struct {
	events chan entry
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

type entry struct {
	at      time.Time
	name    string
	details map[string]any
}

// NewLogger opens (or creates) the audit file at path and starts the
// writer goroutine.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, err
	}
	l := &Logger{
		events: make(chan entry, 256),
		done:   make(chan struct{}),
	}
	go l.run(f)
	return l, nil
}

// Event queues a security event. Never blocks and never fails the
// caller: a full buffer drops the event, and an event raised after
// Close is dropped too.
func (l *Logger) Event(name string, details map[string]any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.events <- entry{at: time.Now().UTC(), name: name, details: details}:
	default:
	}
}

// Close drains queued events and closes the file. Idempotent.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	close(l.events)
	<-l.done
}

func (l *Logger) run(f *os.File) {
	defer close(l.done)
	defer f.Close()
	for e := range l.events {
		details, err := json.Marshal(e.details)
		if err != nil {
			details = []byte("{}")
		}
		line := fmt.Sprintf("[%s] %s %s\n", e.at.Format(time.RFC3339), e.name, details)
		if _, err := f.WriteString(line); err != nil {
			log.Printf("audit: write failed: %v", err)
		}
	}
}

// Discard is an AuditLog that drops everything; useful in tests.
type Discard struct{}

// Event implements domain.AuditLog.
func (Discard) Event(string, map[string]any) {}

var (
	_ domain.AuditLog = (*Logger)(nil)
	_ domain.AuditLog = Discard{}
)
