package media

import "strings"

// Generation price table keyed by (size, quality). Values follow the DALL-E 3
// list price in USD. Lookups never fail: an unknown combination falls back to
// the most expensive known price so the cost ceiling errs on the safe side.
var generationPrices = map[string]float64{
	"1024x1024|standard": 0.04,
	"1024x1024|hd":       0.08,
	"1024x1792|standard": 0.08,
	"1024x1792|hd":       0.12,
	"1792x1024|standard": 0.08,
	"1792x1024|hd":       0.12,
}

const defaultGenerationPrice = 0.12

// CostFor returns the per-image generation cost for a size/quality pair.
func CostFor(size, quality string) float64 {
	size = strings.ToLower(strings.TrimSpace(size))
	if size == "" {
		size = "1024x1024"
	}
	quality = strings.ToLower(strings.TrimSpace(quality))
	if quality == "" {
		quality = "standard"
	}

	if price, ok := generationPrices[size+"|"+quality]; ok {
		return price
	}
	return defaultGenerationPrice
}
