package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"lokai/internal/ai"
	cfgpkg "lokai/internal/config"
	"lokai/internal/paths"
	"lokai/internal/prompt"
)

var newImageClient = func(cfg cfgpkg.Config) (ai.ImageGenerator, error) {
	switch cfg.ImageProvider {
	case "openai":
		return ai.NewOpenAIImage(cfg.OpenAIAPIKey, cfg.ImageModel)
	default:
		return ai.NewSDXL(cfg.SDXLURL), nil
	}
}

var newTextClient = func(cfg cfgpkg.Config) ai.TextGenerator {
	return ai.NewOllama(cfg.BackendURL, cfg.Model)
}

// lokai-image generate
func cmdGenerate(args []string) error {
	var cf commonFlags
	var negative, out, provider stringFlag
	var width, height, steps intFlag
	var improve, overwrite boolFlag

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&negative, "negative", "Negative prompt")
	fs.Var(&width, "width", "Image width in pixels")
	fs.Var(&height, "height", "Image height in pixels")
	fs.Var(&steps, "steps", "Sampling steps")
	fs.Var(&out, "out", "Output file name (default: sdxl_<unix>.png)")
	fs.Var(&provider, "provider", "Image provider: sdxl or openai")
	fs.Var(&improve, "improve", "Rewrite the prompt via the text backend first")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	promptText := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(promptText) == "" {
		return errors.New("usage: lokai-image generate <prompt>")
	}

	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, apiKey := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if negative.set {
		flagOv.NegativePrompt = &negative.v
	}
	if width.set {
		flagOv.Width = &width.v
	}
	if height.set {
		flagOv.Height = &height.v
	}
	if steps.set {
		flagOv.Steps = &steps.v
	}
	if provider.set {
		flagOv.ImageProvider = &provider.v
	}
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, apiKey)

	if err := cfgpkg.ValidateForImage(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if improve.v {
		improved, err := newTextClient(cfg).Complete(ctx, ai.GenerateRequest{Prompt: prompt.ImproveImage(promptText)})
		if err != nil {
			slog.Warn("prompt improvement failed, using original", "err", err)
		} else if strings.TrimSpace(improved) != "" {
			slog.Info("prompt improved", "original", promptText)
			promptText = strings.TrimSpace(improved)
		}
	}

	builder := paths.New(cfg.OutputDir)
	if err := builder.EnsureDir(); err != nil {
		return err
	}
	name := out.v
	if name == "" {
		name = paths.DefaultImageName(time.Now())
	}
	outPath := builder.ImagePath(name)
	if err := paths.CheckOverwrite([]string{outPath}, cfg.Overwrite); err != nil {
		return err
	}

	client, err := newImageClient(cfg)
	if err != nil {
		return err
	}

	slog.Info("generating image", "provider", cfg.ImageProvider, "width", cfg.Width, "height", cfg.Height, "steps", cfg.Steps)
	start := time.Now()
	data, err := client.Generate(ctx, ai.ImageRequest{
		Prompt:         promptText,
		NegativePrompt: cfg.NegativePrompt,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Steps:          cfg.Steps,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	slog.Info("image generated", "path", outPath, "bytes", len(data), "elapsed", time.Since(start).String())
	fmt.Println(outPath)
	return nil
}
