package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
	"github.com/iamahmet/karasuEmlak-sub001/internal/llm"
	"github.com/iamahmet/karasuEmlak-sub001/internal/render"
	"github.com/iamahmet/karasuEmlak-sub001/internal/stock"
	"github.com/iamahmet/karasuEmlak-sub001/internal/utils"
)

const (
	TierGenerative  = "generative"
	TierSearch      = "stock_search"
	TierPlaceholder = "placeholder"
)

// GenerativeTier renders a new image through the configured model. It is the
// only costed tier, so the rate governor is consulted before every call; a
// denial skips the tier rather than failing the pipeline.
type GenerativeTier struct {
	model      llm.ImageModel
	governor   *Governor
	downloader *Downloader
}

// NewGenerativeTier accepts a nil model, which keeps the tier in the chain as
// a permanently-disabled slot (no API key configured).
func NewGenerativeTier(model llm.ImageModel, governor *Governor, downloader *Downloader) *GenerativeTier {
	return &GenerativeTier{model: model, governor: governor, downloader: downloader}
}

func (t *GenerativeTier) TierID() string { return TierGenerative }

func (t *GenerativeTier) TryAcquire(ctx context.Context, query Query) (*Artifact, *TierFailure) {
	if t.model == nil {
		return nil, &TierFailure{Tier: TierGenerative, Reason: "no generative model configured"}
	}

	decision := t.governor.CheckLimit(ctx)
	if !decision.Allowed {
		return nil, &TierFailure{Tier: TierGenerative, Reason: decision.Reason, RateDenied: true}
	}

	prompt := llm.BuildPrompt(query.EntityType, query.Context, query.Style)
	result, err := t.model.GenerateImage(ctx, llm.GenerateImageRequest{
		Prompt:  prompt,
		Size:    query.Size,
		Quality: query.Quality,
		Style:   query.Style,
	})
	if err != nil {
		return nil, &TierFailure{Tier: TierGenerative, Reason: err.Error()}
	}

	artifact := &Artifact{
		Provider:    t.model.ProviderID(),
		AIGenerated: true,
		Cost:        CostFor(query.Size, query.Quality),
		Prompt:      prompt,
		RevisedText: result.RevisedText,
	}

	switch {
	case result.DataURL != "":
		data, ext, err := utils.DecodeMediaPayload(result.DataURL)
		if err != nil {
			return nil, &TierFailure{Tier: TierGenerative, Reason: "decode generated payload: " + err.Error()}
		}
		artifact.Data = data
		artifact.Extension = ext
	case result.URL != "":
		data, ext, err := t.downloader.Download(ctx, result.URL)
		if err != nil {
			return nil, &TierFailure{Tier: TierGenerative, Reason: "download generated image: " + err.Error()}
		}
		artifact.Data = data
		artifact.Extension = ext
		artifact.SourceURL = result.URL
	default:
		return nil, &TierFailure{Tier: TierGenerative, Reason: "model returned no image payload"}
	}

	return artifact, nil
}

// StockSearcher is the aggregated search surface the search tier consumes.
type StockSearcher interface {
	Search(ctx context.Context, query string, perBackend int) []stock.Photo
	Backends() int
}

// SearchTier sources an existing photo from the aggregated stock backends.
// Candidates arrive in priority order; the tier tries a bounded number of
// downloads and moves on when a candidate's transfer fails.
type SearchTier struct {
	searcher      StockSearcher
	downloader    *Downloader
	maxCandidates int
}

func NewSearchTier(searcher StockSearcher, downloader *Downloader) *SearchTier {
	return &SearchTier{searcher: searcher, downloader: downloader, maxCandidates: 3}
}

func (t *SearchTier) TierID() string { return TierSearch }

func (t *SearchTier) TryAcquire(ctx context.Context, query Query) (*Artifact, *TierFailure) {
	if t.searcher == nil || t.searcher.Backends() == 0 {
		return nil, &TierFailure{Tier: TierSearch, Reason: "no search backends configured"}
	}

	phrase := BuildSearchQuery(query.EntityType, query.Context)
	candidates := t.searcher.Search(ctx, phrase, 5)
	if len(candidates) == 0 {
		return nil, &TierFailure{Tier: TierSearch, Reason: "no candidates for query: " + phrase}
	}

	attempts := t.maxCandidates
	if attempts > len(candidates) {
		attempts = len(candidates)
	}
	for i := 0; i < attempts; i++ {
		candidate := candidates[i]
		data, ext, err := t.downloader.Download(ctx, candidate.URL)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"source":    candidate.Source,
				"candidate": i,
			}).Warn("stock_candidate_download_failed")
			continue
		}
		return &Artifact{
			Data:      data,
			Extension: ext,
			Provider:  "stock:" + candidate.Source,
			SourceURL: candidate.URL,
			Author:    candidate.Author,
			Cost:      0,
		}, nil
	}
	return nil, &TierFailure{Tier: TierSearch, Reason: fmt.Sprintf("all %d candidate downloads failed", attempts)}
}

// BuildSearchQuery derives the stock-photo search phrase from the context.
func BuildSearchQuery(entityType string, context entity.JSONMap) string {
	var parts []string
	appendPart := func(v string) {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	switch entity.NormalizeEntityType(entityType) {
	case entity.EntityTypeListing:
		appendPart(context.GetString("propertyType"))
		appendPart(context.GetString("location"))
		appendPart("real estate")
	case entity.EntityTypeNeighborhood:
		appendPart(context.GetString("name"))
		appendPart("neighborhood street view")
	default:
		appendPart(context.GetString("title"))
		appendPart(context.GetString("category"))
	}

	if len(parts) == 0 {
		parts = append(parts, "real estate", "Turkey")
	}
	return strings.Join(parts, " ")
}

// PlaceholderTier is the terminal fallback. It has no external dependency and
// always produces a deterministic labeled PNG.
type PlaceholderTier struct{}

func NewPlaceholderTier() *PlaceholderTier { return &PlaceholderTier{} }

func (t *PlaceholderTier) TierID() string { return TierPlaceholder }

func (t *PlaceholderTier) TryAcquire(_ context.Context, query Query) (*Artifact, *TierFailure) {
	width, height := parseSize(query.Size)
	data, err := render.Placeholder(query.Label(), query.EntityType, width, height)
	if err != nil {
		return nil, &TierFailure{Tier: TierPlaceholder, Reason: err.Error()}
	}
	return &Artifact{
		Data:      data,
		Extension: "png",
		Provider:  TierPlaceholder,
		Cost:      0,
	}, nil
}

func parseSize(size string) (int, int) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(size)), "x", 2)
	if len(parts) != 2 {
		return render.DefaultWidth, render.DefaultHeight
	}
	width, err1 := strconv.Atoi(parts[0])
	height, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return render.DefaultWidth, render.DefaultHeight
	}
	return width, height
}
