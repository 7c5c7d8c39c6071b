package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	cfgpkg "lokai/internal/config"
	"lokai/internal/storage"
)

const (
	pngContentType  = "image/png"
	jsonContentType = "application/json"
	cacheArchive    = "public, max-age=86400"
	cacheLatest     = "public, max-age=300"
)

type uploader interface {
	UploadFile(ctx context.Context, key, localPath, contentType, cacheControl string) error
	UploadBytes(ctx context.Context, key string, data []byte, contentType, cacheControl string) error
	DownloadBytes(ctx context.Context, key string) ([]byte, error)
	CopyToLatest(ctx context.Context, srcKey, filename, contentType, cacheControl string) error
	KeyForDate(t time.Time, filename string) string
	Prefix() string
}

var newUploader = func(ctx context.Context, bucket, prefix, region string) (uploader, error) {
	return storage.New(ctx, bucket, prefix, region)
}

// lokai-image publish
func cmdPublish(args []string) error {
	var cf commonFlags
	var bucket, prefix, region, date stringFlag
	var latest boolFlag

	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&bucket, "bucket", "S3 bucket name (required)")
	fs.Var(&prefix, "prefix", "S3 key prefix")
	fs.Var(&region, "region", "AWS region (defaults from env)")
	fs.Var(&date, "date", "Date in YYYY-MM-DD (UTC); default: today")
	fs.Var(&latest, "latest", "Also copy the newest image to latest/")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	day, err := resolveDate(date.v)
	if err != nil {
		return err
	}
	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, apiKey := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if bucket.set {
		flagOv.S3Bucket = &bucket.v
	}
	if prefix.set {
		flagOv.S3Prefix = &prefix.v
	}
	if region.set {
		flagOv.Region = &region.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, apiKey)

	if err := cfgpkg.ValidateForPublish(cfg); err != nil {
		return err
	}

	files := fs.Args()
	if len(files) == 0 {
		files, err = filepath.Glob(filepath.Join(cfg.OutputDir, "*.png"))
		if err != nil {
			return err
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return fmt.Errorf("no images to publish in %s", cfg.OutputDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	up, err := newUploader(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
	if err != nil {
		return err
	}

	entries := make([]storage.GalleryEntry, 0, len(files))
	var newestFile string
	var newestKey string
	var newestMod time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return fmt.Errorf("missing local file %s: %w", file, err)
		}
		name := filepath.Base(file)
		key := up.KeyForDate(day, name)
		if err := up.UploadFile(ctx, key, file, pngContentType, cacheArchive); err != nil {
			return err
		}
		slog.Info("image uploaded", "key", key)
		entries = append(entries, storage.GalleryEntry{
			File:        name,
			Key:         key,
			PublishedAt: day,
		})
		if newestFile == "" || info.ModTime().After(newestMod) {
			newestFile = name
			newestKey = key
			newestMod = info.ModTime()
		}
	}

	if latest.v && newestKey != "" {
		if err := up.CopyToLatest(ctx, newestKey, newestFile, pngContentType, cacheLatest); err != nil {
			return err
		}
		slog.Info("latest updated", "file", newestFile)
	}

	gallery, err := storage.LoadGallery(ctx, up)
	if err != nil {
		return err
	}
	gallery = gallery.Prepend(entries...)
	if err := storage.SaveGallery(ctx, up, gallery); err != nil {
		return err
	}

	slog.Info("publish completed", "date", day.Format("2006-01-02"), "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix, "count", len(files))
	return nil
}
