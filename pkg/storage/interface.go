package storage

import (
	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/config"
	"github.com/yumyum-02/scraping/pkg/utils"
)

// VisitedSet records which absolute URLs a crawl has already claimed.
// A set lives for exactly one crawl invocation and is discarded afterwards.
type VisitedSet interface {
	// MarkVisited adds rawURL to the set as a single check-and-insert step.
	// Returns true if the URL was newly added, false if it was already present.
	MarkVisited(rawURL string) (bool, error)

	// Count returns the number of URLs marked so far
	Count() (int, error)

	// Close releases any resources held by the set
	Close() error
}

// NewVisitedSet creates an empty VisitedSet for the given backend name
func NewVisitedSet(backend string, logger *logrus.Entry) (VisitedSet, error) {
	switch backend {
	case "", config.VisitedBackendMemory:
		return NewMemoryVisitedSet(), nil
	case config.VisitedBackendBadger:
		return NewBadgerVisitedSet(logger)
	}
	return nil, utils.WrapErrorf(utils.ErrConfigValidation, "unknown visited backend '%s'", backend)
}
