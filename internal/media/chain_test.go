package media

import (
	"context"
	"strings"
	"testing"
	"time"
)

type stubProvider struct {
	id          string
	artifact    *Artifact
	failure     *TierFailure
	calls       int
	sawDeadline bool
}

func (s *stubProvider) TierID() string { return s.id }

func (s *stubProvider) TryAcquire(ctx context.Context, _ Query) (*Artifact, *TierFailure) {
	s.calls++
	if _, ok := ctx.Deadline(); ok {
		s.sawDeadline = true
	}
	if s.artifact != nil {
		return s.artifact, nil
	}
	return nil, s.failure
}

func TestChainReturnsFirstArtifact(t *testing.T) {
	first := &stubProvider{id: "one", artifact: &Artifact{Provider: "one", Data: []byte("x")}}
	second := &stubProvider{id: "two", artifact: &Artifact{Provider: "two", Data: []byte("y")}}
	chain := NewChain().Append(first, time.Second).Append(second, time.Second)

	artifact, failures := chain.Acquire(context.Background(), Query{EntityType: "listing"})
	if artifact == nil || artifact.Provider != "one" {
		t.Fatalf("expected first tier's artifact, got %+v", artifact)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
	if second.calls != 0 {
		t.Fatal("later tiers must not run once a tier resolves")
	}
}

func TestChainFallsThroughFailures(t *testing.T) {
	first := &stubProvider{id: "generative", failure: &TierFailure{Tier: "generative", Reason: "Hourly limit reached (1/1 requests)", RateDenied: true}}
	second := &stubProvider{id: "stock_search", failure: &TierFailure{Tier: "stock_search", Reason: "no candidates"}}
	third := &stubProvider{id: "placeholder", artifact: &Artifact{Provider: "placeholder", Data: []byte("png")}}
	chain := NewChain().Append(first, time.Second).Append(second, time.Second).Append(third, time.Second)

	artifact, failures := chain.Acquire(context.Background(), Query{EntityType: "listing"})
	if artifact == nil || artifact.Provider != "placeholder" {
		t.Fatalf("expected terminal tier to resolve, got %+v", artifact)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 collected failures, got %d", len(failures))
	}
	if !failures[0].RateDenied {
		t.Fatal("governor denial must be preserved as a failure value")
	}
	if !strings.Contains(FailureSummary(failures), "Hourly limit") {
		t.Fatalf("summary should carry the denial reason: %s", FailureSummary(failures))
	}
}

func TestChainExhaustionReportsAllFailures(t *testing.T) {
	first := &stubProvider{id: "one", failure: &TierFailure{Tier: "one", Reason: "a"}}
	second := &stubProvider{id: "two", failure: &TierFailure{Tier: "two", Reason: "b"}}
	chain := NewChain().Append(first, time.Second).Append(second, time.Second)

	artifact, failures := chain.Acquire(context.Background(), Query{})
	if artifact != nil {
		t.Fatal("expected no artifact")
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	summary := FailureSummary(failures)
	if !strings.Contains(summary, "one: a") || !strings.Contains(summary, "two: b") {
		t.Fatalf("unexpected summary: %s", summary)
	}
}

func TestChainAppliesPerTierTimeout(t *testing.T) {
	provider := &stubProvider{id: "one", artifact: &Artifact{Provider: "one"}}
	chain := NewChain().Append(provider, 50*time.Millisecond)

	chain.Acquire(context.Background(), Query{})
	if !provider.sawDeadline {
		t.Fatal("tier context should carry a deadline")
	}
}

func TestChainNilFailureNormalized(t *testing.T) {
	// A provider returning both nils must still fall through cleanly.
	broken := &stubProvider{id: "broken"}
	terminal := &stubProvider{id: "terminal", artifact: &Artifact{Provider: "terminal"}}
	chain := NewChain().Append(broken, time.Second).Append(terminal, time.Second)

	artifact, failures := chain.Acquire(context.Background(), Query{})
	if artifact == nil || artifact.Provider != "terminal" {
		t.Fatalf("expected terminal artifact, got %+v", artifact)
	}
	if len(failures) != 1 || failures[0].Tier != "broken" {
		t.Fatalf("expected normalized failure for broken tier, got %v", failures)
	}
}

func TestQueryLabel(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{name: "title wins", query: Query{EntityType: "article", Context: map[string]any{"title": "Market update", "category": "news"}}, want: "Market update"},
		{name: "name for neighborhoods", query: Query{EntityType: "neighborhood", Context: map[string]any{"name": "Yali"}}, want: "Yali"},
		{name: "falls back to entity type", query: Query{EntityType: "listing", Context: map[string]any{}}, want: "listing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
