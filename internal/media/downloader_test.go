package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testDownloader() *Downloader {
	d := NewDownloader()
	d.backoffBase = time.Millisecond
	return d
}

func TestDownloadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	data, ext, err := testDownloader().Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected body: %q", data)
	}
	if ext != "jpg" {
		t.Fatalf("expected jpg extension, got %q", ext)
	}
}

func TestDownloadRetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	data, _, err := testDownloader().Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected body: %q", data)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDownloadGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, _, err := testDownloader().Download(context.Background(), server.URL); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDownloadPermanentFailureNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := testDownloader().Download(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsPermanent(err) {
		t.Fatalf("4xx should be classified permanent: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("permanent failure must not retry, got %d attempts", got)
	}
}

func TestDownloadEmptyBodyIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, _, err := testDownloader().Download(context.Background(), server.URL)
	if err == nil || !IsPermanent(err) {
		t.Fatalf("empty body should be a permanent failure, got %v", err)
	}
}
