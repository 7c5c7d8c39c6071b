package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"lokai/internal/ai"
	cfgpkg "lokai/internal/config"
	"lokai/internal/paths"
)

// lokai-image batch
func cmdBatch(args []string) error {
	var cf commonFlags
	var prefix stringFlag
	var concurrency intFlag
	var overwrite boolFlag

	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&prefix, "prefix", "Output file name prefix (default: batch)")
	fs.Var(&concurrency, "concurrency", "Concurrent generations (default: 1)")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	if fs.NArg() < 1 {
		return errors.New("usage: lokai-image batch <prompts-file>")
	}

	prompts, err := readPrompts(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts in %s", fs.Arg(0))
	}

	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, apiKey := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, apiKey)

	if err := cfgpkg.ValidateForImage(cfg); err != nil {
		return err
	}

	builder := paths.New(cfg.OutputDir)
	if err := builder.EnsureDir(); err != nil {
		return err
	}
	outPaths := make([]string, len(prompts))
	for i := range prompts {
		outPaths[i] = builder.ImagePath(paths.BatchImageName(prefix.v, i))
	}
	if err := paths.CheckOverwrite(outPaths, cfg.Overwrite); err != nil {
		return err
	}

	client, err := newImageClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workers := concurrency.v
	if workers < 1 {
		workers = 1
	}
	slog.Info("batch start", "prompts", len(prompts), "concurrency", workers)

	var mu sync.Mutex
	generated := 0
	p := pool.New().WithMaxGoroutines(workers)
	for i, promptText := range prompts {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			data, err := client.Generate(ctx, ai.ImageRequest{
				Prompt:         promptText,
				NegativePrompt: cfg.NegativePrompt,
				Width:          cfg.Width,
				Height:         cfg.Height,
				Steps:          cfg.Steps,
			})
			if err != nil {
				slog.Warn("batch item failed", "index", i, "err", err)
				return
			}
			if err := os.WriteFile(outPaths[i], data, 0o644); err != nil {
				slog.Warn("batch item write failed", "index", i, "err", err)
				return
			}
			slog.Info("batch item generated", "path", outPaths[i])
			mu.Lock()
			generated++
			mu.Unlock()
		})
	}
	p.Wait()

	slog.Info("batch complete", "generated", generated, "total", len(prompts))
	fmt.Printf("generated %d/%d images\n", generated, len(prompts))
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// readPrompts reads one prompt per line, skipping blank lines.
func readPrompts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return prompts, nil
}
