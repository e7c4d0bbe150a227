package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"strings"
)

// DecodeMediaPayload decodes an inline base64 or data URL payload and returns
// the raw bytes together with a guessed file extension.
func DecodeMediaPayload(payload string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, "", fmt.Errorf("empty media payload")
	}

	mimeType, base64Payload := SplitDataURL(trimmed)
	base64Payload = strings.TrimSpace(base64Payload)
	if base64Payload == "" {
		return nil, "", fmt.Errorf("empty base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(base64Payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}

	ext := ExtensionFromMime(mimeType)
	if ext == "" {
		ext = ExtensionFromMime(http.DetectContentType(data))
	}
	if ext == "" {
		ext = "bin"
	}

	return data, ext, nil
}

// ExtensionFromMime maps an image MIME type to a file extension without the
// leading dot. Unknown types return "".
func ExtensionFromMime(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	default:
		return ""
	}
}

// ImageDimensions probes the pixel size and format of an encoded image without
// fully decoding it. Unsupported formats return zero dimensions and no error
// is surfaced; physical attributes are best effort.
func ImageDimensions(data []byte) (width, height int, format string) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ""
	}
	return cfg.Width, cfg.Height, name
}
