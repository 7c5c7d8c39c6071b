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
	case "chat":
		if err := cmdChat(args[1:]); err != nil {
			slog.Error("chat failed", "err", err)
			return 1
		}
		return 0
	case "analyze", "fix", "feature", "test", "schema":
		if err := cmdOneShot(sub, args[1:]); err != nil {
			slog.Error(sub+" failed", "err", err)
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
	fmt.Fprintf(os.Stderr, `lokai %s

Usage:
  lokai <subcommand> [flags] [arguments]

Subcommands:
  help              Show this help message
  chat              Interactive chat mode
  analyze [path]    Analyze code for issues
  fix <issue>       Fix specific issue
  feature <name>    Generate new feature
  test <target>     Write tests
  schema <desc>     Create database migration
  version           Print version

Examples:
  lokai chat
  lokai analyze
  lokai fix "circular dependencies"
  lokai feature "Real-time chat system"

Requirements:
  - Ollama running: ollama serve
  - Model pulled: ollama pull mistral

Run "lokai <subcommand> -h" for flags.
`, version)
}
