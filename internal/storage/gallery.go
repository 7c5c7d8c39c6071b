package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"
)

const galleryFilename = "gallery.json"

// GalleryEntry records one published image.
type GalleryEntry struct {
	File        string    `json:"file"`
	Key         string    `json:"key"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Gallery is the manifest stored alongside published images, newest first.
type Gallery struct {
	Entries []GalleryEntry `json:"entries"`
}

// GalleryStore is the subset of Uploader the gallery needs; narrow so tests
// can swap in a fake.
type GalleryStore interface {
	DownloadBytes(ctx context.Context, key string) ([]byte, error)
	UploadBytes(ctx context.Context, key string, data []byte, contentType, cacheControl string) error
	Prefix() string
}

// LoadGallery fetches the manifest. A missing manifest is an empty gallery.
func LoadGallery(ctx context.Context, store GalleryStore) (Gallery, error) {
	data, err := store.DownloadBytes(ctx, galleryKey(store))
	if err != nil {
		if IsNotFound(err) {
			return Gallery{}, nil
		}
		return Gallery{}, err
	}
	var gallery Gallery
	if err := json.Unmarshal(data, &gallery); err != nil {
		return Gallery{}, fmt.Errorf("parse gallery manifest: %w", err)
	}
	return gallery, nil
}

// SaveGallery uploads the manifest.
func SaveGallery(ctx context.Context, store GalleryStore, gallery Gallery) error {
	data, err := json.MarshalIndent(gallery, "", "  ")
	if err != nil {
		return err
	}
	if err := store.UploadBytes(ctx, galleryKey(store), data, "application/json", "no-cache"); err != nil {
		return fmt.Errorf("upload gallery manifest: %w", err)
	}
	return nil
}

// Prepend inserts entries ahead of existing ones, keeping newest first.
func (g Gallery) Prepend(entries ...GalleryEntry) Gallery {
	g.Entries = append(append([]GalleryEntry{}, entries...), g.Entries...)
	return g
}

func galleryKey(store GalleryStore) string {
	prefix := store.Prefix()
	if prefix == "" {
		return galleryFilename
	}
	return path.Join(prefix, galleryFilename)
}
