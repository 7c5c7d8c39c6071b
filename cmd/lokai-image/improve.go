package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"lokai/internal/ai"
	cfgpkg "lokai/internal/config"
	"lokai/internal/prompt"
)

// lokai-image improve
func cmdImprove(args []string) error {
	var cf commonFlags
	var model, backend stringFlag

	fs := flag.NewFlagSet("improve", flag.ContinueOnError)
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
	base := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(base) == "" {
		return errors.New("usage: lokai-image improve <prompt>")
	}

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

	improved, err := newTextClient(cfg).Complete(ctx, ai.GenerateRequest{Prompt: prompt.ImproveImage(base)})
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(improved))
	return nil
}
