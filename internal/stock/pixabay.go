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

const pixabayEndpoint = "https://pixabay.com/api/"

type Pixabay struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

func NewPixabay(apiKey string) *Pixabay {
	return &Pixabay{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   pixabayEndpoint,
	}
}

func (p *Pixabay) SourceID() string {
	return "pixabay"
}

func (p *Pixabay) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	// Pixabay 要求 per_page 最小为 3
	if perPage < 3 {
		perPage = 3
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", query)
	params.Set("image_type", "photo")
	params.Set("orientation", "horizontal")
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("safesearch", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create pixabay request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pixabay search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pixabay search http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pixabay body: %w", err)
	}

	var parsed pixabayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode pixabay response: %w", err)
	}

	photos := make([]Photo, 0, len(parsed.Hits))
	for _, item := range parsed.Hits {
		imageURL := item.LargeImageURL
		if imageURL == "" {
			imageURL = item.WebformatURL
		}
		if imageURL == "" {
			continue
		}
		photos = append(photos, Photo{
			URL:     imageURL,
			PageURL: item.PageURL,
			Author:  item.User,
			Source:  p.SourceID(),
			Width:   item.ImageWidth,
			Height:  item.ImageHeight,
		})
	}
	return photos, nil
}

type pixabayResponse struct {
	Total int `json:"total"`
	Hits  []struct {
		ID            int    `json:"id"`
		PageURL       string `json:"pageURL"`
		WebformatURL  string `json:"webformatURL"`
		LargeImageURL string `json:"largeImageURL"`
		ImageWidth    int    `json:"imageWidth"`
		ImageHeight   int    `json:"imageHeight"`
		User          string `json:"user"`
	} `json:"hits"`
}
