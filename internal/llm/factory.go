package llm

import (
	"fmt"
	"strings"

	"github.com/iamahmet/karasuEmlak-sub001/internal/config"
)

// Driver 标识符
const (
	DriverOpenAI = "openai"
	DriverGemini = "gemini"
)

// NewImageModel instantiates the configured generative driver. A missing API
// key is an error; callers treat it as "generative tier disabled" rather than
// a fatal condition.
func NewImageModel(cfg config.Config) (ImageModel, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GenerativeDriver))
	if driver == "" {
		driver = DriverOpenAI
	}

	switch driver {
	case DriverOpenAI:
		return NewOpenAIService(cfg)
	case DriverGemini:
		return NewGeminiService(cfg)
	default:
		return nil, fmt.Errorf("unsupported generative driver: %s", cfg.GenerativeDriver)
	}
}
