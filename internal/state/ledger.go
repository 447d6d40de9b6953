package state

import "github.com/example/verbbot/pkg/models"

// MistakeEntry is a verb answered wrongly under a drill rule
type MistakeEntry struct {
	Verb *models.Verb
	Mode models.Mode
}

// Ledger is an ordered queue of mistakes with no duplicate (infinitive, mode) pair
type Ledger struct {
	entries []MistakeEntry
}

// NewLedger builds a ledger from entries, dropping duplicates
func NewLedger(entries ...MistakeEntry) Ledger {
	var l Ledger
	for _, e := range entries {
		l.Add(e.Verb, e.Mode)
	}
	return l
}

// Add appends the pair unless it is already queued
func (l *Ledger) Add(verb *models.Verb, mode models.Mode) bool {
	if l.indexOf(verb.Infinitive, mode) >= 0 {
		return false
	}
	l.entries = append(l.entries, MistakeEntry{Verb: verb, Mode: mode})
	return true
}

// RemoveMatch drops the pair if present
func (l *Ledger) RemoveMatch(infinitive string, mode models.Mode) bool {
	i := l.indexOf(infinitive, mode)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

// RotateHeadToTail moves the first entry to the end
func (l *Ledger) RotateHeadToTail() {
	if len(l.entries) < 2 {
		return
	}
	head := l.entries[0]
	l.entries = append(l.entries[1:], head)
}

// PeekHead returns the first entry without removing it
func (l *Ledger) PeekHead() (MistakeEntry, bool) {
	if len(l.entries) == 0 {
		return MistakeEntry{}, false
	}
	return l.entries[0], true
}

// IsEmpty reports whether no mistakes are queued
func (l *Ledger) IsEmpty() bool {
	return len(l.entries) == 0
}

// Len returns the number of queued mistakes
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the queue in order
func (l *Ledger) Entries() []MistakeEntry {
	return append([]MistakeEntry(nil), l.entries...)
}

func (l *Ledger) clone() Ledger {
	return Ledger{entries: l.Entries()}
}

func (l *Ledger) indexOf(infinitive string, mode models.Mode) int {
	for i, e := range l.entries {
		if e.Verb.Infinitive == infinitive && e.Mode == mode {
			return i
		}
	}
	return -1
}
