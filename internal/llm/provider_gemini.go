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

type GeminiService struct {
	httpClient *http.Client
	apiKey     string
	model      string
}

func NewGeminiService(cfg config.Config) (*GeminiService, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, errors.New("gemini api key is not configured")
	}

	return &GeminiService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     strings.TrimSpace(cfg.GeminiAPIKey),
		model:      "gemini-2.5-flash-image-preview",
	}, nil
}

func (g *GeminiService) ProviderID() string {
	return "gemini"
}

func (g *GeminiService) GenerateImage(ctx context.Context, request GenerateImageRequest) (*GeneratedImage, error) {
	logger := providerLogger(ctx, g.ProviderID(), g.model)
	logger.WithFields(logrus.Fields{
		"prompt_length":  len([]rune(request.Prompt)),
		"prompt_preview": logSnippet(request.Prompt),
	}).Info("ai_generate_image_start")

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiContentPart{{Text: request.Prompt}}},
		},
		GenerationConfig: &geminiConfig{
			MaxOutputTokens: 2048,
			Temperature:     0.8,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_payload_marshal_failed")
		return nil, err
	}

	endpoint := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_request_build_failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("ai_generate_image_request_failed")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithField("status", resp.StatusCode).WithError(err).Error("ai_generate_image_response_read_failed")
		return nil, fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	logger.WithField("status", resp.StatusCode).Info("ai_generate_image_response_status")
	if resp.StatusCode >= http.StatusBadRequest {
		logger.WithFields(logrus.Fields{
			"status":       resp.StatusCode,
			"body_preview": logSnippet(string(respBody)),
		}).Warn("ai_generate_image_response_error")
		var apiErr geminiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, errors.New(apiErr.Error.Message)
		}
		return nil, fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	var apiResponse geminiResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		logger.WithError(err).Error("ai_generate_image_response_unmarshal_failed")
		return nil, err
	}

	for _, candidate := range apiResponse.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mimeType := part.InlineData.MimeType
				if mimeType == "" {
					mimeType = "image/png"
				}
				logger.WithField("result", "image").Info("ai_generate_image_success")
				return &GeneratedImage{
					DataURL: fmt.Sprintf("data:%s;base64,%s", mimeType, part.InlineData.Data),
				}, nil
			}
		}
	}

	logger.Warn("ai_generate_image_no_parseable_content")
	return nil, errors.New("gemini response did not include image data")
}

type geminiContentPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string              `json:"role"`
	Parts []geminiContentPart `json:"parts"`
}

type geminiConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiContentPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
