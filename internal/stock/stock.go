package stock

import (
	"context"
	"strings"

	"github.com/iamahmet/karasuEmlak-sub001/internal/config"
)

// Photo is one stock-photo candidate returned by a search backend.
type Photo struct {
	URL     string // direct image URL, used for download
	PageURL string
	Author  string
	Source  string // backend identifier
	Width   int
	Height  int
}

// SearchBackend defines the interface for one stock-photo search provider.
type SearchBackend interface {
	// SourceID returns the stable backend identifier used for priority
	// ordering and provenance.
	SourceID() string

	// Search returns up to perPage candidates for the query.
	Search(ctx context.Context, query string, perPage int) ([]Photo, error)
}

// NewBackends builds the configured search backends in fixed priority order.
// A backend whose API key is absent is simply left out of the chain.
func NewBackends(cfg config.Config) []SearchBackend {
	var backends []SearchBackend
	if strings.TrimSpace(cfg.PexelsAPIKey) != "" {
		backends = append(backends, NewPexels(cfg.PexelsAPIKey))
	}
	if strings.TrimSpace(cfg.UnsplashAccessKey) != "" {
		backends = append(backends, NewUnsplash(cfg.UnsplashAccessKey))
	}
	if strings.TrimSpace(cfg.PixabayAPIKey) != "" {
		backends = append(backends, NewPixabay(cfg.PixabayAPIKey))
	}
	return backends
}
