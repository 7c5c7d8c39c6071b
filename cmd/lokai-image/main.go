package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	sub := args[0]
	switch sub {
	case "generate":
		if err := cmdGenerate(args[1:]); err != nil {
			slog.Error("generate failed", "err", err)
			return 1
		}
		return 0
	case "batch":
		if err := cmdBatch(args[1:]); err != nil {
			slog.Error("batch failed", "err", err)
			return 1
		}
		return 0
	case "improve":
		if err := cmdImprove(args[1:]); err != nil {
			slog.Error("improve failed", "err", err)
			return 1
		}
		return 0
	case "publish":
		if err := cmdPublish(args[1:]); err != nil {
			slog.Error("publish failed", "err", err)
			return 1
		}
		return 0
	case "web":
		if err := cmdWeb(args[1:]); err != nil {
			slog.Error("web failed", "err", err)
			return 1
		}
		return 0
	case "version":
		fmt.Println(version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `lokai-image %s

Usage:
  lokai-image <subcommand> [flags] [arguments]

Subcommands:
  help               Show this help
  generate <prompt>  Generate single image
  batch <file>       Generate from prompts file (one per line)
  improve <prompt>   Rewrite a raw prompt via the text backend
  publish [files]    Upload images to S3 and update the gallery
  web                Open the image backend Web UI
  version            Print version

Examples:
  lokai-image generate "lighthouse at dusk, professional photo"
  lokai-image batch prompts.txt --prefix=profile --concurrency=2
  lokai-image publish --bucket=my-bucket --latest

Requirements:
  - SDXL WebUI running, or OPENAI_API_KEY with --provider via config

Run "lokai-image <subcommand> -h" for flags.
`, version)
}
