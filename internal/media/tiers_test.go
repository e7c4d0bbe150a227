package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
	"github.com/iamahmet/karasuEmlak-sub001/internal/llm"
	"github.com/iamahmet/karasuEmlak-sub001/internal/stock"
)

type fakeModel struct {
	result *llm.GeneratedImage
	err    error
	calls  int
}

func (f *fakeModel) ProviderID() string { return "fake-model" }

func (f *fakeModel) GenerateImage(_ context.Context, _ llm.GenerateImageRequest) (*llm.GeneratedImage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSearcher struct {
	photos   []stock.Photo
	backends int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) []stock.Photo {
	return f.photos
}

func (f *fakeSearcher) Backends() int { return f.backends }

func openGovernor(t *testing.T) *Governor {
	t.Helper()
	return NewGovernor(NewLedger(&fakeLedgerStore{}), 20, 100, 10.0)
}

func TestGenerativeTierDisabledWithoutModel(t *testing.T) {
	tier := NewGenerativeTier(nil, openGovernor(t), testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing"})
	if artifact != nil {
		t.Fatal("expected no artifact without a model")
	}
	if failure == nil || failure.RateDenied {
		t.Fatalf("expected plain unavailability failure, got %+v", failure)
	}
}

func TestGenerativeTierGovernorDenial(t *testing.T) {
	store := &fakeLedgerStore{}
	store.add(0, 0.04)
	governor := NewGovernor(NewLedger(store), 1, 100, 10.0)
	model := &fakeModel{}
	tier := NewGenerativeTier(model, governor, testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing"})
	if artifact != nil {
		t.Fatal("expected denial, got artifact")
	}
	if failure == nil || !failure.RateDenied {
		t.Fatalf("expected rate denial, got %+v", failure)
	}
	if !strings.Contains(failure.Reason, "Hourly limit") {
		t.Fatalf("reason %q should mention the hourly limit", failure.Reason)
	}
	if model.calls != 0 {
		t.Fatal("model must not be called when denied")
	}
}

func TestGenerativeTierDataURLPayload(t *testing.T) {
	payload := []byte("generated-image-bytes")
	model := &fakeModel{result: &llm.GeneratedImage{
		DataURL:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload),
		RevisedText: "a villa by the sea",
	}}
	tier := NewGenerativeTier(model, openGovernor(t), testDownloader())

	query := Query{
		EntityType: "listing",
		Context:    entity.JSONMap{"propertyType": "villa", "location": "Karasu"},
		Size:       "1024x1024",
		Quality:    "standard",
	}
	artifact, failure := tier.TryAcquire(context.Background(), query)
	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if !bytes.Equal(artifact.Data, payload) {
		t.Fatal("payload not decoded")
	}
	if !artifact.AIGenerated {
		t.Fatal("generative artifact must be marked ai_generated")
	}
	if artifact.Cost != 0.04 {
		t.Fatalf("expected standard square cost 0.04, got %v", artifact.Cost)
	}
	if artifact.Prompt == "" || !strings.Contains(artifact.Prompt, "villa") {
		t.Fatalf("prompt should be derived from context: %q", artifact.Prompt)
	}
}

func TestGenerativeTierURLPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("remote-image"))
	}))
	defer server.Close()

	model := &fakeModel{result: &llm.GeneratedImage{URL: server.URL}}
	tier := NewGenerativeTier(model, openGovernor(t), testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "article", Context: entity.JSONMap{"title": "Market"}})
	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if string(artifact.Data) != "remote-image" || artifact.SourceURL != server.URL {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
}

func TestGenerativeTierModelErrorFallsThrough(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	tier := NewGenerativeTier(model, openGovernor(t), testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing"})
	if artifact != nil {
		t.Fatal("expected failure")
	}
	if failure == nil || !strings.Contains(failure.Reason, "quota") {
		t.Fatalf("expected quota reason, got %+v", failure)
	}
}

func TestSearchTierPicksFirstDownloadableCandidate(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("stock-image"))
	}))
	defer good.Close()

	searcher := &fakeSearcher{
		backends: 2,
		photos: []stock.Photo{
			{URL: bad.URL, Source: "pexels", Author: "A"},
			{URL: good.URL, Source: "unsplash", Author: "B"},
		},
	}
	tier := NewSearchTier(searcher, testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing", Context: entity.JSONMap{"propertyType": "villa", "location": "Karasu"}})
	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if string(artifact.Data) != "stock-image" {
		t.Fatalf("unexpected data: %q", artifact.Data)
	}
	if artifact.Provider != "stock:unsplash" || artifact.Author != "B" {
		t.Fatalf("provenance not carried: %+v", artifact)
	}
	if artifact.AIGenerated || artifact.Cost != 0 {
		t.Fatal("stock artifacts are free and not ai generated")
	}
}

func TestSearchTierNoBackends(t *testing.T) {
	tier := NewSearchTier(&fakeSearcher{backends: 0}, testDownloader())
	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing"})
	if artifact != nil || failure == nil {
		t.Fatalf("expected failure without backends, got %+v", artifact)
	}
}

func TestSearchTierNoCandidates(t *testing.T) {
	tier := NewSearchTier(&fakeSearcher{backends: 2}, testDownloader())
	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing", Context: entity.JSONMap{}})
	if artifact != nil {
		t.Fatal("expected failure without candidates")
	}
	if failure == nil || !strings.Contains(failure.Reason, "no candidates") {
		t.Fatalf("unexpected failure: %+v", failure)
	}
}

func TestSearchTierBoundedAttempts(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer dead.Close()

	photos := make([]stock.Photo, 5)
	for i := range photos {
		photos[i] = stock.Photo{URL: dead.URL, Source: "pexels"}
	}
	tier := NewSearchTier(&fakeSearcher{backends: 1, photos: photos}, testDownloader())

	artifact, failure := tier.TryAcquire(context.Background(), Query{EntityType: "listing", Context: entity.JSONMap{}})
	if artifact != nil {
		t.Fatal("expected failure")
	}
	if failure == nil || !strings.Contains(failure.Reason, "3 candidate") {
		t.Fatalf("attempts should be capped at 3, got %+v", failure)
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name       string
		entityType string
		context    entity.JSONMap
		want       string
	}{
		{name: "listing", entityType: "listing", context: entity.JSONMap{"propertyType": "villa", "location": "Karasu"}, want: "villa Karasu real estate"},
		{name: "neighborhood", entityType: "neighborhood", context: entity.JSONMap{"name": "Sahil"}, want: "Sahil neighborhood street view"},
		{name: "article", entityType: "article", context: entity.JSONMap{"title": "Buying guide", "category": "advice"}, want: "Buying guide advice"},
		{name: "empty context", entityType: "other", context: entity.JSONMap{}, want: "real estate Turkey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildSearchQuery(tt.entityType, tt.context); got != tt.want {
				t.Errorf("BuildSearchQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholderTierAlwaysSucceeds(t *testing.T) {
	tier := NewPlaceholderTier()

	artifact, failure := tier.TryAcquire(context.Background(), Query{
		EntityType: "listing",
		Context:    entity.JSONMap{"title": "Sea view villa"},
		Size:       "640x480",
	})
	if failure != nil {
		t.Fatalf("placeholder must not fail: %+v", failure)
	}
	if artifact.Cost != 0 || artifact.AIGenerated {
		t.Fatal("placeholder is free and not ai generated")
	}

	img, err := png.Decode(bytes.NewReader(artifact.Data))
	if err != nil {
		t.Fatalf("placeholder output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 480 {
		t.Fatalf("expected 640x480, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Determinism: identical input renders identical bytes.
	again, _ := tier.TryAcquire(context.Background(), Query{
		EntityType: "listing",
		Context:    entity.JSONMap{"title": "Sea view villa"},
		Size:       "640x480",
	})
	if !bytes.Equal(artifact.Data, again.Data) {
		t.Fatal("placeholder output must be deterministic")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in         string
		wantWidth  int
		wantHeight int
	}{
		{in: "1024x1792", wantWidth: 1024, wantHeight: 1792},
		{in: "", wantWidth: 1024, wantHeight: 1024},
		{in: "banana", wantWidth: 1024, wantHeight: 1024},
		{in: "0x100", wantWidth: 1024, wantHeight: 1024},
	}
	for _, tt := range tests {
		width, height := parseSize(tt.in)
		if width != tt.wantWidth || height != tt.wantHeight {
			t.Errorf("parseSize(%q) = %dx%d, want %dx%d", tt.in, width, height, tt.wantWidth, tt.wantHeight)
		}
	}
}
