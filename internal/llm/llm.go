package llm

import "context"

// GenerateImageRequest carries everything an image model needs for one render.
type GenerateImageRequest struct {
	Prompt  string
	Size    string
	Quality string
	Style   string
}

// GeneratedImage is the raw result of a model call. Exactly one of URL and
// DataURL is set depending on how the provider returns the payload.
type GeneratedImage struct {
	URL         string
	DataURL     string
	RevisedText string
}

// ImageModel defines the interface for generative image providers.
type ImageModel interface {
	// ProviderID returns the stable driver identifier used in logs and provenance.
	ProviderID() string

	// GenerateImage performs a synchronous text-to-image render.
	GenerateImage(ctx context.Context, request GenerateImageRequest) (*GeneratedImage, error)
}
