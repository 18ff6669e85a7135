package combat

import "fmt"

// Log is the append-only narration of an encounter. The log itself is
// unbounded; Tail serves views that show only the most recent lines.
type Log struct {
	entries []string
}

// Append adds lines to the end of the log.
func (l *Log) Append(lines ...string) {
	l.entries = append(l.entries, lines...)
}

// Appendf formats and appends a single line.
func (l *Log) Appendf(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of every line in order.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns a copy of the last n lines, or all lines when fewer exist.
//
// Postcondition: len(result) == min(n, Len()); n <= 0 yields an empty slice.
func (l *Log) Tail(n int) []string {
	if n <= 0 {
		return []string{}
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Len returns the number of lines.
func (l *Log) Len() int { return len(l.entries) }

// Clear removes every line.
func (l *Log) Clear() { l.entries = nil }
