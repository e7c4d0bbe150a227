package stock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Aggregator fans one query out to every configured backend in parallel and
// merges the results. Backend order is the fixed source priority: all
// candidates from the first backend rank before any from the second, and so
// on. One failing or slow backend never cancels the others; the merge waits
// for all lookups to settle.
type Aggregator struct {
	backends []SearchBackend
	timeout  time.Duration
}

// NewAggregator creates an aggregator over the given backends. Backend order
// defines source priority.
func NewAggregator(backends []SearchBackend) *Aggregator {
	return &Aggregator{
		backends: backends,
		timeout:  15 * time.Second,
	}
}

// Backends returns the number of active search backends.
func (a *Aggregator) Backends() int {
	return len(a.backends)
}

// Search runs the query against every backend and returns the merged,
// URL-deduplicated candidate list in priority order.
func (a *Aggregator) Search(ctx context.Context, query string, perBackend int) []Photo {
	query = strings.TrimSpace(query)
	if query == "" || len(a.backends) == 0 {
		return nil
	}
	if perBackend <= 0 {
		perBackend = 5
	}

	searchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([][]Photo, len(a.backends))
	var wg sync.WaitGroup
	for idx, backend := range a.backends {
		wg.Add(1)
		go func(idx int, backend SearchBackend) {
			defer wg.Done()
			photos, err := backend.Search(searchCtx, query, perBackend)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"source": backend.SourceID(),
					"query":  query,
				}).Warn("stock_search_backend_failed")
				return
			}
			results[idx] = photos
		}(idx, backend)
	}
	wg.Wait()

	merged := make([]Photo, 0, len(a.backends)*perBackend)
	seen := make(map[string]struct{})
	for _, photos := range results {
		for _, photo := range photos {
			url := strings.TrimSpace(photo.URL)
			if url == "" {
				continue
			}
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			merged = append(merged, photo)
		}
	}

	logrus.WithFields(logrus.Fields{
		"query":      query,
		"backends":   len(a.backends),
		"candidates": len(merged),
	}).Info("stock_search_merged")
	return merged
}
