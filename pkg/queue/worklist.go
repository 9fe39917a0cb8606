package queue

import (
	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/models"
)

// EntryKind distinguishes page visits from post-subtree pauses on the worklist
type EntryKind int

const (
	EntryVisit EntryKind = iota // Check, fetch and summarise Task
	EntryPause                  // Task and all of its descendants are done; apply the page delay
)

// String implements fmt.Stringer for logging
func (k EntryKind) String() string {
	switch k {
	case EntryVisit:
		return "visit"
	case EntryPause:
		return "pause"
	}
	return "unknown"
}

// Entry is a single worklist item
type Entry struct {
	Kind EntryKind
	Task models.CrawlTask
}

// Worklist is a LIFO stack of entries driving a depth-first traversal.
// Pushing a page's pause marker and then its children (via PushChildren) yields the same order
// a recursive walk would: each child subtree completes, in document order, before the parent's pause.
// Not safe for concurrent use.
type Worklist struct {
	items []Entry
	log   *logrus.Entry
}

// NewWorklist creates an empty worklist
func NewWorklist(logger *logrus.Entry) *Worklist {
	return &Worklist{log: logger}
}

// PushVisit schedules task to be visited next
func (w *Worklist) PushVisit(task models.CrawlTask) {
	w.items = append(w.items, Entry{Kind: EntryVisit, Task: task})
}

// PushPause schedules the pause that follows task's subtree
func (w *Worklist) PushPause(task models.CrawlTask) {
	w.items = append(w.items, Entry{Kind: EntryPause, Task: task})
}

// PushChildren schedules visits for tasks so that tasks[0] is popped first
func (w *Worklist) PushChildren(tasks []models.CrawlTask) {
	for i := len(tasks) - 1; i >= 0; i-- {
		w.PushVisit(tasks[i])
	}
	if len(tasks) > 0 {
		w.log.Debugf("Scheduled %d child tasks (worklist size %d)", len(tasks), len(w.items))
	}
}

// Pop removes and returns the most recently pushed entry
// Returns false when the worklist is empty
func (w *Worklist) Pop() (Entry, bool) {
	n := len(w.items)
	if n == 0 {
		return Entry{}, false
	}
	entry := w.items[n-1]
	w.items[n-1] = Entry{}
	w.items = w.items[:n-1]
	return entry, true
}

// Len returns the current number of entries
func (w *Worklist) Len() int {
	return len(w.items)
}
