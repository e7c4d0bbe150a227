package llm

import (
	"fmt"
	"strings"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// BuildPrompt derives the text-to-image prompt from a content entity's
// context. Templates are intentionally literal: the editorial side supplies
// propertyType/location/category and the model fills in the rest.
func BuildPrompt(entityType string, context entity.JSONMap, style string) string {
	var prompt string

	switch entity.NormalizeEntityType(entityType) {
	case entity.EntityTypeListing:
		propertyType := firstNonEmpty(context.GetString("propertyType"), "property")
		location := firstNonEmpty(context.GetString("location"), "Karasu, Sakarya")
		prompt = fmt.Sprintf(
			"Professional real estate photography of a %s in %s, Turkey. Bright natural light, wide angle, inviting exterior view, clear blue sky. No people, no text, no watermarks.",
			propertyType, location)
	case entity.EntityTypeArticle:
		topic := firstNonEmpty(context.GetString("title"), context.GetString("category"), "real estate")
		prompt = fmt.Sprintf(
			"Editorial header photograph illustrating %s. Clean modern composition, soft daylight, magazine quality. No people's faces, no text, no watermarks.",
			topic)
	case entity.EntityTypeNews:
		topic := firstNonEmpty(context.GetString("title"), context.GetString("category"), "local news")
		prompt = fmt.Sprintf(
			"Photojournalistic image for a news story about %s. Realistic, neutral tone, documentary style. No text, no watermarks.",
			topic)
	case entity.EntityTypeNeighborhood:
		name := firstNonEmpty(context.GetString("name"), context.GetString("title"), "a coastal town")
		prompt = fmt.Sprintf(
			"Scenic photograph of the %s neighborhood on the Turkish Black Sea coast. Streets, greenery and seaside atmosphere, golden hour light. No people, no text, no watermarks.",
			name)
	default:
		subject := firstNonEmpty(context.GetString("title"), "real estate")
		prompt = fmt.Sprintf("High quality photograph related to %s. No text, no watermarks.", subject)
	}

	if trimmed := strings.TrimSpace(style); trimmed != "" {
		prompt += " Style: " + trimmed + "."
	}
	return prompt
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
