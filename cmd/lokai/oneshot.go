package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"lokai/internal/ai"
	cfgpkg "lokai/internal/config"
	"lokai/internal/prompt"
)

var oneShotPrompts = map[string]func(string) string{
	"analyze": prompt.Analyze,
	"fix":     prompt.Fix,
	"feature": prompt.Feature,
	"test":    prompt.Tests,
	"schema":  prompt.Schema,
}

// lokai analyze/fix/feature/test/schema: build a canned prompt from the
// positional arguments and print the streamed reply. No conversation state;
// unlike chat, backend failures fail the command.
func cmdOneShot(name string, args []string) error {
	build, ok := oneShotPrompts[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	var cf commonFlags
	var model, backend stringFlag

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&model, "model", "Text model name")
	fs.Var(&backend, "backend", "Text backend base URL")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, apiKey := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if model.set {
		flagOv.Model = &model.v
	}
	if backend.set {
		flagOv.BackendURL = &backend.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, apiKey)

	if err := cfgpkg.ValidateForText(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := newTextClient(cfg)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("backend is not running (start it with: ollama serve): %w", err)
	}

	arg := strings.Join(fs.Args(), " ")
	slog.Info("one-shot generation", "command", name, "model", cfg.Model)
	start := time.Now()
	if err := streamTo(ctx, client, build(arg), os.Stdout); err != nil {
		return err
	}
	slog.Info("generation complete", "command", name, "elapsed", time.Since(start).String())
	return nil
}

func streamTo(ctx context.Context, client ai.TextGenerator, promptText string, out io.Writer) error {
	for chunk := range client.Stream(ctx, ai.GenerateRequest{Prompt: promptText}) {
		if chunk.Err != nil {
			return chunk.Err
		}
		fmt.Fprint(out, chunk.Text)
	}
	fmt.Fprintln(out)
	return nil
}
