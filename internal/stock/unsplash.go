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

const unsplashEndpoint = "https://api.unsplash.com/search/photos"

type Unsplash struct {
	httpClient *http.Client
	accessKey  string
	endpoint   string
}

func NewUnsplash(accessKey string) *Unsplash {
	return &Unsplash{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		accessKey:  strings.TrimSpace(accessKey),
		endpoint:   unsplashEndpoint,
	}
}

func (u *Unsplash) SourceID() string {
	return "unsplash"
}

func (u *Unsplash) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash search http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read unsplash body: %w", err)
	}

	var parsed unsplashResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode unsplash response: %w", err)
	}

	photos := make([]Photo, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		if item.Urls.Regular == "" {
			continue
		}
		photos = append(photos, Photo{
			URL:     item.Urls.Regular,
			PageURL: item.Links.HTML,
			Author:  item.User.Name,
			Source:  u.SourceID(),
			Width:   item.Width,
			Height:  item.Height,
		})
	}
	return photos, nil
}

type unsplashResponse struct {
	Total   int `json:"total"`
	Results []struct {
		ID     string `json:"id"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Urls   struct {
			Regular string `json:"regular"`
			Full    string `json:"full"`
		} `json:"urls"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}
