package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageSaveStableKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	id, err := store.Save(context.Background(), []byte("payload"), SaveOptions{
		Category:  "listing",
		Extension: "png",
		BaseName:  "listing-l1-abc123",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id != "listing/listing-l1-abc123.png" {
		t.Fatalf("expected stable undated key, got %q", id)
	}

	data, err := os.ReadFile(filepath.Join(store.LocalBaseDir(), filepath.FromSlash(id)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestLocalStorageSkipIfExists(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	opts := SaveOptions{Category: "listing", Extension: "png", BaseName: "stable", SkipIfExists: true}
	first, err := store.Save(context.Background(), []byte("original"), opts)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save(context.Background(), []byte("overwrite attempt"), opts)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("keys must match: %q vs %q", first, second)
	}

	data, err := os.ReadFile(filepath.Join(store.LocalBaseDir(), filepath.FromSlash(first)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original" {
		t.Fatal("existing object must be kept untouched")
	}
}

func TestLocalStorageAnonymousKeysAreDated(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	first, err := store.Save(context.Background(), []byte("a"), SaveOptions{Category: "misc", Extension: "bin"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save(context.Background(), []byte("b"), SaveOptions{Category: "misc", Extension: "bin"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatal("anonymous saves must not collide")
	}
}

func TestLocalStorageEmptyPayload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}
	if _, err := store.Save(context.Background(), nil, SaveOptions{Category: "x"}); err == nil {
		t.Fatal("empty payload must be rejected")
	}
}

func TestBuildObjectPath(t *testing.T) {
	tests := []struct {
		name     string
		category string
		baseName string
		ext      string
		want     string
	}{
		{name: "stable key", category: "listing", baseName: "listing-l1-abc", ext: "png", want: "listing/listing-l1-abc.png"},
		{name: "category sanitized", category: "My Folder!", baseName: "photo", ext: "jpg", want: "myfolder/photo.jpg"},
		{name: "missing category", category: "", baseName: "photo", ext: "jpg", want: "misc/photo.jpg"},
		{name: "extension normalized", category: "a", baseName: "b", ext: ".PNG", want: "a/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildObjectPath(tt.category, tt.baseName, tt.ext); got != tt.want {
				t.Errorf("buildObjectPath = %q, want %q", got, tt.want)
			}
		})
	}
}
