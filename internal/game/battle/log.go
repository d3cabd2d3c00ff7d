package battle

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one human-readable event. Entries are never modified once appended.
type Entry struct {
	Timestamp time.Time
	Message   string
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Timestamp.Format("15:04:05.000"), e.Message)
}

// Log is the ordered record produced by a single logical operation: one card
// play, one attack, or one turn transition. It is the only channel through which
// rule violations are reported.
type Log struct {
	clock   Clock
	entries []Entry
}

// NewLog creates an empty log timestamped by clock. A nil clock uses RealClock.
func NewLog(clock Clock) *Log {
	if clock == nil {
		clock = RealClock{}
	}
	return &Log{clock: clock}
}

// Add appends message. Empty messages are ignored.
func (l *Log) Add(message string) {
	if message == "" {
		return
	}
	l.entries = append(l.entries, Entry{Timestamp: l.clock.Now(), Message: message})
}

// Addf appends a formatted message.
func (l *Log) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Merge appends every entry of child, in order, keeping the child's timestamps.
func (l *Log) Merge(child *Log) {
	if child == nil {
		return
	}
	l.entries = append(l.entries, child.entries...)
}

// Entries returns a copy of the entries.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Messages returns just the message text of each entry.
func (l *Log) Messages() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message
	}
	return out
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) IsEmpty() bool { return len(l.entries) == 0 }

// Contains reports whether any message contains substr.
func (l *Log) Contains(substr string) bool {
	for _, e := range l.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
