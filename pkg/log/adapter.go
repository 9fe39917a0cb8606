package log

import "github.com/sirupsen/logrus"

// BadgerAdapter implements badger.Logger on top of a logrus entry.
// Badger reports routine lifecycle events at INFO; those are demoted to DEBUG so they
// do not interleave with crawl progress.
type BadgerAdapter struct {
	entry *logrus.Entry
}

// NewBadgerAdapter creates a new adapter tagged with component=badgerdb
func NewBadgerAdapter(entry *logrus.Entry) *BadgerAdapter {
	return &BadgerAdapter{entry: entry.WithField("component", "badgerdb")}
}

// Errorf logs an error message
func (l *BadgerAdapter) Errorf(f string, v ...interface{}) { l.entry.Errorf(f, v...) }

// Warningf logs a warning message
func (l *BadgerAdapter) Warningf(f string, v ...interface{}) { l.entry.Warnf(f, v...) }

// Infof logs badger's informational messages at debug level
func (l *BadgerAdapter) Infof(f string, v ...interface{}) { l.entry.Debugf(f, v...) }

// Debugf logs a debug message
func (l *BadgerAdapter) Debugf(f string, v ...interface{}) { l.entry.Debugf(f, v...) }
