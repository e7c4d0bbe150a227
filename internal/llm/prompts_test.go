package llm

import (
	"strings"
	"testing"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name       string
		entityType string
		context    entity.JSONMap
		style      string
		contains   []string
	}{
		{
			name:       "listing with context",
			entityType: "listing",
			context:    entity.JSONMap{"propertyType": "villa", "location": "Karasu"},
			contains:   []string{"villa", "Karasu", "real estate"},
		},
		{
			name:       "listing defaults location",
			entityType: "listing",
			context:    entity.JSONMap{"propertyType": "apartment"},
			contains:   []string{"apartment", "Karasu, Sakarya"},
		},
		{
			name:       "article by title",
			entityType: "article",
			context:    entity.JSONMap{"title": "Mortgage rates in 2026"},
			contains:   []string{"Mortgage rates in 2026", "Editorial"},
		},
		{
			name:       "news by category",
			entityType: "news",
			context:    entity.JSONMap{"category": "infrastructure"},
			contains:   []string{"infrastructure", "news"},
		},
		{
			name:       "neighborhood by name",
			entityType: "neighborhood",
			context:    entity.JSONMap{"name": "Sahil"},
			contains:   []string{"Sahil", "neighborhood"},
		},
		{
			name:       "style appended",
			entityType: "listing",
			context:    entity.JSONMap{"propertyType": "villa"},
			style:      "warm sunset tones",
			contains:   []string{"Style: warm sunset tones."},
		},
		{
			name:       "unknown type falls back",
			entityType: "banner",
			context:    entity.JSONMap{},
			contains:   []string{"real estate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(tt.entityType, tt.context, tt.style)
			if prompt == "" {
				t.Fatal("expected non-empty prompt")
			}
			for _, fragment := range tt.contains {
				if !strings.Contains(prompt, fragment) {
					t.Errorf("prompt %q should contain %q", prompt, fragment)
				}
			}
		})
	}
}

func TestNormalizeOpenAISize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1024x1024", want: "1024x1024"},
		{in: "1024x1792", want: "1024x1792"},
		{in: "1792x1024", want: "1792x1024"},
		{in: "", want: "1024x1024"},
		{in: "512x512", want: "1024x1024"},
		{in: "4096x4096", want: "1024x1024"},
	}
	for _, tt := range tests {
		if got := normalizeOpenAISize(tt.in); got != tt.want {
			t.Errorf("normalizeOpenAISize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOpenAIQuality(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hd", want: "hd"},
		{in: "HIGH", want: "hd"},
		{in: "standard", want: "standard"},
		{in: "", want: "standard"},
		{in: "ultra", want: "standard"},
	}
	for _, tt := range tests {
		if got := normalizeOpenAIQuality(tt.in); got != tt.want {
			t.Errorf("normalizeOpenAIQuality(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
