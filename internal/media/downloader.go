package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/utils"
)

const maxDownloadBytes = 25 << 20

// permanentError marks a download failure that retrying cannot fix (4xx,
// oversized body, bad payload).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// IsPermanent reports whether a download error was classified as permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Downloader fetches remote image binaries with bounded retries. Transient
// failures (network errors, timeouts, 5xx) are retried with exponential
// backoff; permanent failures (4xx) abort immediately.
type Downloader struct {
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
}

func NewDownloader() *Downloader {
	return &Downloader{
		httpClient:  &http.Client{Timeout: 25 * time.Second},
		maxAttempts: 3,
		backoffBase: 500 * time.Millisecond,
	}
}

// Download fetches the URL and returns the raw bytes together with a guessed
// file extension.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	var lastErr error
	backoff := d.backoffBase

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		data, ext, err := d.fetch(ctx, url)
		if err == nil {
			return data, ext, nil
		}
		lastErr = err
		if IsPermanent(err) || ctx.Err() != nil {
			break
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"url":     logSnippetURL(url),
			"attempt": attempt,
		}).Warn("image_download_retry")

		if attempt < d.maxAttempts {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, "", lastErr
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &permanentError{err: fmt.Errorf("create download request: %w", err)}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, "", &permanentError{err: fmt.Errorf("download image http %d", resp.StatusCode)}
	default:
		return nil, "", fmt.Errorf("download image http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", &permanentError{err: errors.New("empty image body")}
	}
	if len(data) > maxDownloadBytes {
		return nil, "", &permanentError{err: errors.New("image body exceeds size limit")}
	}

	ext := utils.ExtensionFromMime(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = utils.ExtensionFromMime(http.DetectContentType(data))
	}
	if ext == "" {
		ext = "jpg"
	}
	return data, ext, nil
}

func logSnippetURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
