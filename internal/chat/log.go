package chat

import "sync"

// Author identifies who produced a chat entry.
type Author int

const (
	AuthorOperator Author = iota
	AuthorPeer
)

// String returns the display name of the author.
func (a Author) String() string {
	switch a {
	case AuthorOperator:
		return "Operator"
	case AuthorPeer:
		return "Peer"
	default:
		return "Unknown"
	}
}

// Entry is a single line of the message log.
type Entry struct {
	Author  Author
	Content string
}

// String formats the entry as "Author: content".
func (e Entry) String() string {
	return e.Author.String() + ": " + e.Content
}

// Log is an ordered, append-only list of entries shared between the send
// path and the inbound forwarder.
//
// Clear is not ordered against concurrent appends: an Append racing a
// Clear may land on either side of it.
type Log struct {
	entries []Entry
	mu      sync.RWMutex
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an entry to the end of the log.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Snapshot returns a copy of the current entries in append order.
func (l *Log) Snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
