package media

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// Query carries everything the provider chain needs for one acquisition.
type Query struct {
	EntityType string
	EntityID   string
	Context    entity.JSONMap
	Size       string
	Quality    string
	Style      string
}

// Label is the human-readable subject of the query, used for the placeholder
// image and as part of the stock search phrasing.
func (q Query) Label() string {
	for _, key := range []string{"title", "name", "propertyType", "category"} {
		if v := strings.TrimSpace(q.Context.GetString(key)); v != "" {
			return v
		}
	}
	return q.EntityType
}

// Artifact is a winning binary together with its provenance.
type Artifact struct {
	Data        []byte
	Extension   string
	Provider    string
	SourceURL   string
	Author      string
	AIGenerated bool
	Cost        float64
	Prompt      string
	RevisedText string
}

// TierFailure records why one tier produced nothing. A governance denial is a
// failure value like any other so the driver loop falls through uniformly.
type TierFailure struct {
	Tier       string
	Reason     string
	RateDenied bool
}

// ArtifactProvider is one tier in the ordered fallback chain.
type ArtifactProvider interface {
	// TierID returns the stable tier identifier used in logs and provenance.
	TierID() string

	// TryAcquire attempts to produce an artifact. Exactly one of the two
	// results is non-nil; a tier never panics or returns both nil.
	TryAcquire(ctx context.Context, query Query) (*Artifact, *TierFailure)
}

type chainSlot struct {
	provider ArtifactProvider
	timeout  time.Duration
}

// Chain drives the ordered tier list. Each tier runs under its own timeout;
// any tier's failure falls through to the next, and only exhausting the whole
// list is reported upward.
type Chain struct {
	slots []chainSlot
}

func NewChain() *Chain {
	return &Chain{}
}

// Append adds a tier with its per-tier timeout. Order of Append calls is the
// fallback order.
func (c *Chain) Append(provider ArtifactProvider, timeout time.Duration) *Chain {
	c.slots = append(c.slots, chainSlot{provider: provider, timeout: timeout})
	return c
}

// Tiers returns the number of configured tiers.
func (c *Chain) Tiers() int {
	return len(c.slots)
}

// Acquire walks the tiers in order and returns the first artifact produced,
// along with every failure collected on the way. A nil artifact means all
// tiers failed.
func (c *Chain) Acquire(ctx context.Context, query Query) (*Artifact, []TierFailure) {
	var failures []TierFailure
	for _, slot := range c.slots {
		tierCtx := ctx
		cancel := func() {}
		if slot.timeout > 0 {
			tierCtx, cancel = context.WithTimeout(ctx, slot.timeout)
		}

		artifact, failure := slot.provider.TryAcquire(tierCtx, query)
		cancel()

		if artifact != nil {
			logrus.WithFields(logrus.Fields{
				"tier":        slot.provider.TierID(),
				"provider":    artifact.Provider,
				"entity_type": query.EntityType,
				"cost":        artifact.Cost,
			}).Info("provider_chain_resolved")
			return artifact, failures
		}

		if failure == nil {
			failure = &TierFailure{Tier: slot.provider.TierID(), Reason: "no result"}
		}
		failures = append(failures, *failure)
		logrus.WithFields(logrus.Fields{
			"tier":        failure.Tier,
			"reason":      failure.Reason,
			"rate_denied": failure.RateDenied,
			"entity_type": query.EntityType,
		}).Info("provider_chain_tier_skipped")
	}
	return nil, failures
}

// FailureSummary joins tier failures into one human-readable reason string.
func FailureSummary(failures []TierFailure) string {
	if len(failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.Tier+": "+f.Reason)
	}
	return strings.Join(parts, "; ")
}
