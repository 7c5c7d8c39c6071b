package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"lokai/internal/ai"
	"lokai/internal/chat"
	cfgpkg "lokai/internal/config"
)

var newTextClient = func(cfg cfgpkg.Config) ai.TextGenerator {
	return ai.NewOllama(cfg.BackendURL, cfg.Model)
}

// lokai chat
func cmdChat(args []string) error {
	var cf commonFlags
	var model, backend stringFlag
	var history intFlag

	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&model, "model", "Text model name")
	fs.Var(&backend, "backend", "Text backend base URL")
	fs.Var(&history, "history", "Max conversation turns kept as context")

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
	if history.set {
		flagOv.MaxHistoryTurns = &history.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, apiKey)

	if err := cfgpkg.ValidateForChat(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := newTextClient(cfg)
	session := chat.NewSession(cfg.MaxHistoryTurns)
	fmt.Printf("%s chat mode (type 'exit' to quit, 'clear' for new conversation)\n\n", cfg.Model)
	return chatLoop(ctx, client, session, os.Stdin, os.Stdout)
}

// chatLoop runs the interactive conversation: one line in, one streamed
// reply out, one request at a time. Stream failures are rendered inline and
// never abort the loop; a completed reply is recorded into the session, an
// interrupted or failed one is not.
func chatLoop(ctx context.Context, client ai.TextGenerator, session *chat.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nbye")
			return nil
		}
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit":
			fmt.Fprintln(out, "bye")
			return nil
		case "clear":
			session.Reset()
			fmt.Fprintln(out, "conversation cleared")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprint(out, "assistant> ")
		var reply strings.Builder
		var streamErr error
		for chunk := range client.Stream(ctx, ai.GenerateRequest{Prompt: input, Context: session.Context()}) {
			if chunk.Err != nil {
				streamErr = chunk.Err
				continue
			}
			fmt.Fprint(out, chunk.Text)
			reply.WriteString(chunk.Text)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)

		if ctx.Err() != nil {
			// Interrupted mid-generation: discard the partial reply.
			fmt.Fprintln(out, "bye")
			return nil
		}
		if streamErr != nil {
			fmt.Fprintln(out, diagnostic(streamErr))
			continue
		}
		session.Record(input, reply.String())
	}
}

// diagnostic renders a stream failure as text the user sees inline.
func diagnostic(err error) string {
	var connErr *ai.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Sprintf("backend is not running at %s\nstart it with: ollama serve", connErr.URL)
	}
	return fmt.Sprintf("error: %v", err)
}
