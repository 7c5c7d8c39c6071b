package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeGalleryStore struct {
	prefix  string
	objects map[string][]byte
}

func (f *fakeGalleryStore) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return data, nil
}

func (f *fakeGalleryStore) UploadBytes(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeGalleryStore) Prefix() string { return f.prefix }

func TestLoadGalleryMissingIsEmpty(t *testing.T) {
	store := &fakeGalleryStore{prefix: "lokai"}
	gallery, err := LoadGallery(context.Background(), store)
	if err != nil {
		t.Fatalf("missing manifest should not error: %v", err)
	}
	if len(gallery.Entries) != 0 {
		t.Fatalf("expected empty gallery")
	}
}

func TestSaveAndLoadGallery(t *testing.T) {
	store := &fakeGalleryStore{prefix: "lokai"}
	ctx := context.Background()
	gallery := Gallery{}.Prepend(GalleryEntry{
		File:        "img.png",
		Key:         "lokai/2026/08/28/img.png",
		PublishedAt: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	})
	if err := SaveGallery(ctx, store, gallery); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := store.objects["lokai/gallery.json"]; !ok {
		t.Fatalf("manifest not written under prefix: %v", store.objects)
	}
	got, err := LoadGallery(ctx, store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].File != "img.png" {
		t.Fatalf("roundtrip entries = %+v", got.Entries)
	}
}

func TestPrependKeepsNewestFirst(t *testing.T) {
	gallery := Gallery{Entries: []GalleryEntry{{File: "old.png"}}}
	gallery = gallery.Prepend(GalleryEntry{File: "new.png"})
	if gallery.Entries[0].File != "new.png" || gallery.Entries[1].File != "old.png" {
		t.Fatalf("order = %+v", gallery.Entries)
	}
}

func TestLoadGalleryBadManifest(t *testing.T) {
	store := &fakeGalleryStore{prefix: ""}
	store.UploadBytes(context.Background(), "gallery.json", []byte("not json"), "", "")
	if _, err := LoadGallery(context.Background(), store); err == nil {
		t.Fatalf("expected parse error")
	}
	var g Gallery
	if err := json.Unmarshal([]byte(`{"entries":[]}`), &g); err != nil {
		t.Fatalf("manifest schema should parse: %v", err)
	}
}
