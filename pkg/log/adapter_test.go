package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newBufferedEntry(level logrus.Level) (*logrus.Entry, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logrus.NewEntry(logger), &buf
}

func TestBadgerAdapter_TagsComponent(t *testing.T) {
	entry, buf := newBufferedEntry(logrus.InfoLevel)
	adapter := NewBadgerAdapter(entry)

	adapter.Errorf("error %s", "test")

	assert.Contains(t, buf.String(), "component=badgerdb")
	assert.Contains(t, buf.String(), "error test")
	assert.Contains(t, buf.String(), "level=error")
}

func TestBadgerAdapter_WarningLevel(t *testing.T) {
	entry, buf := newBufferedEntry(logrus.InfoLevel)

	NewBadgerAdapter(entry).Warningf("warning %d", 42)

	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "warning 42")
}

func TestBadgerAdapter_InfoDemotedToDebug(t *testing.T) {
	entry, buf := newBufferedEntry(logrus.InfoLevel)
	adapter := NewBadgerAdapter(entry)

	adapter.Infof("All 0 tables opened in %s", "0s")
	adapter.Debugf("debug")
	assert.Empty(t, buf.String())

	entry.Logger.SetLevel(logrus.DebugLevel)
	adapter.Infof("Lifetime L0 stalled for: %s", "0s")
	assert.Contains(t, buf.String(), "level=debug")
}
