package media

import (
	"context"
	"strings"
	"unicode"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// DedupStore is the slice of the repository the dedup cache needs.
type DedupStore interface {
	FindAssetByContext(ctx context.Context, entityType, entityID, contextHash string) (*entity.DbMediaAsset, error)
	FindSimilarAsset(ctx context.Context, entityType string, match map[string]string) (*entity.DbMediaAsset, error)
	IncrementAssetUsage(ctx context.Context, id string) error
}

// SimilarityMatcher turns an entity's context into the transformations filter
// used for similarity reuse. Returning an empty map disables the similarity
// path for that entity. The heuristic is swappable so deployments that do not
// want cross-entity image sharing can plug in a stricter matcher.
type SimilarityMatcher interface {
	MatchKeys(entityType string, context entity.JSONMap) map[string]string
}

// DedupCache answers "does a reusable asset already exist" before any paid
// provider is touched. Exact matches go by the stored context hash; when the
// caller permits it, a similarity match can reuse another entity's image for
// the same kind of content. That sharing is a deliberate cost-saving tradeoff.
type DedupCache struct {
	store   DedupStore
	matcher SimilarityMatcher
}

func NewDedupCache(store DedupStore, matcher SimilarityMatcher) *DedupCache {
	if matcher == nil {
		matcher = DefaultMatcher{}
	}
	return &DedupCache{store: store, matcher: matcher}
}

// Find looks up a reusable asset. exactOnly restricts the lookup to the
// context-hash path. A nil result with nil error means cache miss.
func (d *DedupCache) Find(ctx context.Context, entityType, entityID, contextHash string, context entity.JSONMap, exactOnly bool) (*entity.DbMediaAsset, error) {
	if contextHash != "" {
		asset, err := d.store.FindAssetByContext(ctx, entityType, entityID, contextHash)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			return asset, nil
		}
	}
	if exactOnly {
		return nil, nil
	}

	match := d.matcher.MatchKeys(entityType, context)
	if len(match) == 0 {
		return nil, nil
	}
	return d.store.FindSimilarAsset(ctx, entityType, match)
}

// MarkUsed atomically bumps the asset's usage counter and last-used time.
func (d *DedupCache) MarkUsed(ctx context.Context, assetID string) error {
	return d.store.IncrementAssetUsage(ctx, assetID)
}

// DefaultMatcher mirrors the editorial reuse rules: listings share by
// property type and location, articles and news by category, neighborhoods by
// normalized name.
type DefaultMatcher struct{}

func (DefaultMatcher) MatchKeys(entityType string, context entity.JSONMap) map[string]string {
	match := map[string]string{}
	switch entity.NormalizeEntityType(entityType) {
	case entity.EntityTypeListing:
		if v := strings.TrimSpace(context.GetString("propertyType")); v != "" {
			match["propertyType"] = v
		}
		if v := strings.TrimSpace(context.GetString("location")); v != "" {
			match["location"] = v
		}
		// 两个条件都缺失时不做相似匹配，避免把任意房源图都当候选
		if len(match) < 2 {
			return nil
		}
	case entity.EntityTypeArticle, entity.EntityTypeNews:
		if v := strings.TrimSpace(context.GetString("category")); v != "" {
			match["category"] = v
		}
	case entity.EntityTypeNeighborhood:
		if v := Slugify(context.GetString("name")); v != "" {
			match["name"] = v
		}
	}
	return match
}

// Slugify normalizes a display name into the lowercase hyphenated form stored
// in transformations for neighborhood matching.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var builder strings.Builder
	builder.Grow(len(name))
	lastHyphen := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			builder.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(builder.String(), "-")
}
