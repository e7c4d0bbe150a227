package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pexelsEndpoint = "https://api.pexels.com/v1/search"

type Pexels struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

func NewPexels(apiKey string) *Pexels {
	return &Pexels{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   pexelsEndpoint,
	}
}

func (p *Pexels) SourceID() string {
	return "pexels"
}

func (p *Pexels) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create pexels request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels search http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pexels body: %w", err)
	}

	var parsed pexelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}

	photos := make([]Photo, 0, len(parsed.Photos))
	for _, item := range parsed.Photos {
		imageURL := item.Src.Large2x
		if imageURL == "" {
			imageURL = item.Src.Original
		}
		if imageURL == "" {
			continue
		}
		photos = append(photos, Photo{
			URL:     imageURL,
			PageURL: item.URL,
			Author:  item.Photographer,
			Source:  p.SourceID(),
			Width:   item.Width,
			Height:  item.Height,
		})
	}
	return photos, nil
}

type pexelsResponse struct {
	TotalResults int `json:"total_results"`
	Photos       []struct {
		ID           int    `json:"id"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		URL          string `json:"url"`
		Photographer string `json:"photographer"`
		Src          struct {
			Original string `json:"original"`
			Large2x  string `json:"large2x"`
		} `json:"src"`
	} `json:"photos"`
}
