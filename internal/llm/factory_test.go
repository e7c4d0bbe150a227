package llm

import (
	"testing"

	"github.com/iamahmet/karasuEmlak-sub001/internal/config"
)

func TestNewImageModel(t *testing.T) {
	t.Run("openai driver", func(t *testing.T) {
		model, err := NewImageModel(config.Config{GenerativeDriver: "openai", OpenAIAPIKey: "sk-test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if model.ProviderID() != "openai" {
			t.Fatalf("expected openai, got %s", model.ProviderID())
		}
	})

	t.Run("default driver is openai", func(t *testing.T) {
		model, err := NewImageModel(config.Config{OpenAIAPIKey: "sk-test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if model.ProviderID() != "openai" {
			t.Fatalf("expected openai, got %s", model.ProviderID())
		}
	})

	t.Run("gemini driver", func(t *testing.T) {
		model, err := NewImageModel(config.Config{GenerativeDriver: "gemini", GeminiAPIKey: "g-test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if model.ProviderID() != "gemini" {
			t.Fatalf("expected gemini, got %s", model.ProviderID())
		}
	})

	t.Run("missing key errors", func(t *testing.T) {
		if _, err := NewImageModel(config.Config{GenerativeDriver: "openai"}); err == nil {
			t.Fatal("expected error without api key")
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		if _, err := NewImageModel(config.Config{GenerativeDriver: "dalle2"}); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})
}
