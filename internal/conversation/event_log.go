package conversation

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

// EventEntry is one structured record in the append-only event log. All
// events share the same base fields for easy filtering/grep:
//
//	grep '"event":"status_changed"' data/logs.jsonl
//	grep '"threadId":"thread_abc"' data/logs.jsonl
type EventEntry struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	ThreadID  string         `json:"threadId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventLog appends one JSON record per line to a write-only file. Appends
// are fire-and-forget from the caller's perspective: failures are logged
// and never fail the primary response path.
type EventLog struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger
}

// NewEventLog creates an event log writing to path.
func NewEventLog(path string, logger *logging.Logger) *EventLog {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventLog{path: path, logger: logger}
}

// Record appends one event. Never returns an error; write failures are
// reported through the process logger only.
func (l *EventLog) Record(_ context.Context, event, threadID string, data map[string]any) {
	if l == nil {
		return
	}
	entry := EventEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Event:     event,
		ThreadID:  threadID,
		Data:      data,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("event log marshal failed", "event", event, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("event log open failed", "path", l.path, "error", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Error("event log write failed", "path", l.path, "error", err)
	}
}

// Read returns up to limit entries, newest first, optionally filtered by
// thread identifier. Corrupt lines are skipped.
func (l *EventLog) Read(threadID string, limit int) ([]EventEntry, error) {
	if limit <= 0 {
		limit = 200
	}

	l.mu.Lock()
	f, err := os.Open(l.path)
	l.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return []EventEntry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var all []EventEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry EventEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if threadID != "" && entry.ThreadID != threadID {
			continue
		}
		all = append(all, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	entries := make([]EventEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, all[i])
	}
	return entries, nil
}
