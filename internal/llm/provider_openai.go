package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iamahmet/karasuEmlak-sub001/internal/config"

	"github.com/sirupsen/logrus"
)

const openAIImagesEndpoint = "https://api.openai.com/v1/images/generations"

type OpenAIService struct {
	httpClient *http.Client
	apiKey     string
	model      string
}

func NewOpenAIService(cfg config.Config) (*OpenAIService, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, errors.New("openai api key is not configured")
	}

	return &OpenAIService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     strings.TrimSpace(cfg.OpenAIAPIKey),
		model:      "dall-e-3",
	}, nil
}

func (o *OpenAIService) ProviderID() string {
	return "openai"
}

func (o *OpenAIService) GenerateImage(ctx context.Context, request GenerateImageRequest) (*GeneratedImage, error) {
	logger := providerLogger(ctx, o.ProviderID(), o.model)
	logger.WithFields(logrus.Fields{
		"prompt_length":  len([]rune(request.Prompt)),
		"prompt_preview": logSnippet(request.Prompt),
		"size":           request.Size,
		"quality":        request.Quality,
	}).Info("ai_generate_image_start")

	payload := openAIImageRequest{
		Model:          o.model,
		Prompt:         request.Prompt,
		N:              1,
		Size:           normalizeOpenAISize(request.Size),
		Quality:        normalizeOpenAIQuality(request.Quality),
		Style:          strings.TrimSpace(request.Style),
		ResponseFormat: "b64_json",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_payload_marshal_failed")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIImagesEndpoint, bytes.NewReader(body))
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_request_build_failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_request_failed")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithField("status", resp.StatusCode).WithError(err).Error("ai_generate_image_response_read_failed")
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	logger.WithField("status", resp.StatusCode).Info("ai_generate_image_response_status")
	if resp.StatusCode >= http.StatusBadRequest {
		logger.WithFields(logrus.Fields{
			"status":       resp.StatusCode,
			"body_preview": logSnippet(string(respBody)),
		}).Warn("ai_generate_image_response_error")
		var apiErr openAIErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, errors.New(apiErr.Error.Message)
		}
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var apiResponse openAIImageResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		logger.WithError(err).Error("ai_generate_image_response_unmarshal_failed")
		return nil, err
	}
	if len(apiResponse.Data) == 0 {
		logger.Warn("ai_generate_image_no_data")
		return nil, errors.New("openai response did not include image data")
	}

	item := apiResponse.Data[0]
	result := &GeneratedImage{RevisedText: item.RevisedPrompt}
	switch {
	case item.B64JSON != "":
		result.DataURL = "data:image/png;base64," + item.B64JSON
	case item.URL != "":
		result.URL = item.URL
	default:
		logger.Warn("ai_generate_image_empty_item")
		return nil, errors.New("openai response did not include image data")
	}

	logger.WithFields(logrus.Fields{
		"inline": result.DataURL != "",
		"result": "image",
	}).Info("ai_generate_image_success")
	return result, nil
}

// normalizeOpenAISize snaps arbitrary size hints onto the sizes dall-e-3
// actually accepts.
func normalizeOpenAISize(size string) string {
	switch strings.TrimSpace(size) {
	case "1024x1024", "1024x1792", "1792x1024":
		return strings.TrimSpace(size)
	case "", "512x512", "256x256":
		return "1024x1024"
	default:
		return "1024x1024"
	}
}

func normalizeOpenAIQuality(quality string) string {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "hd", "high":
		return "hd"
	default:
		return "standard"
	}
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type openAIImageResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

type openAIErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
