// Package history keeps bounded snapshots of completed planning weeks.
package history

import (
	"strconv"
	"time"

	"menu-planner/internal/plan"
)

// MaxEntries bounds the archive; starting a fifth week evicts the
// oldest snapshot.
const MaxEntries = 4

// Entry is an immutable snapshot of one archived week.
type Entry struct {
	ID        string          `json:"id"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Plan      plan.WeeklyPlan `json:"plan"`
}

// Log holds archived weeks, most recent first.
type Log struct {
	entries []Entry
	lastID  int64
}

// NewLog creates an empty archive.
func NewLog() *Log {
	return &Log{}
}

// Restore replaces the archive with previously persisted entries,
// re-applying the size bound in case the stored value predates it.
func (l *Log) Restore(entries []Entry) {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.entries = entries
	for _, e := range entries {
		if n, err := strconv.ParseInt(e.ID, 10, 64); err == nil && n > l.lastID {
			l.lastID = n
		}
	}
}

// Archive snapshots the given plan with the window's bounds and
// prepends it to the log, evicting beyond MaxEntries. The snapshot is
// a deep copy; later edits to the live plan cannot reach it.
func (l *Log) Archive(weekly plan.WeeklyPlan, start, end time.Time) Entry {
	entry := Entry{
		ID:        l.freshID(),
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
		Plan:      weekly.Clone(),
	}
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return entry
}

func (l *Log) freshID() string {
	now := time.Now().UnixMilli()
	if now <= l.lastID {
		now = l.lastID + 1
	}
	l.lastID = now
	return strconv.FormatInt(now, 10)
}

// Entries returns the archived weeks, most recent first.
func (l *Log) Entries() []Entry {
	return l.entries
}
